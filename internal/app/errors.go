package app

import "github.com/pkg/errors"

var (
	ErrStreamMustBeSet = errors.New("stream input and records must be set")
	ErrNoInput         = errors.New("no input file")
	ErrDuplicateOutput = errors.New("inputs would write the same output")
)
