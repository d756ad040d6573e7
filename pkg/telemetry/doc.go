// Package telemetry decommutates the tagged measurement stream and corrects wild altitude points.
//
// Fields are grouped into frames: a frame starts with a timestamp field (tag 0) and holds every
// following measurement up to the next timestamp or the end of the stream. The Corrector is the
// transform run by the middle stage of the pipeline, it rewrites altitude samples that jump by
// more than WildPointThreshold from the last accepted value. The Decommutator is run by the last
// stage and hands every completed frame to a RecordSink.
package telemetry
