// Package model provides the data structures shared by the pipeline package and its options.
// It defines the stages of a pipeline, the information describing each stage,
// and the hooks a pipeline option can implement.
package model
