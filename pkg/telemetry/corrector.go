package telemetry

import (
	"context"

	"github.com/pkg/errors"

	"github.com/askiada/go-decom/pkg/wire"
)

// Corrector is the transform of the correction stage. Altitude fields go through the
// AltitudeSmoother, a replaced sample leaves the stage as TagCorrectedAltitude carrying the
// corrected value. Every other field is forwarded untouched.
type Corrector struct {
	smoother AltitudeSmoother
	wildLog  WildPointLog
	// raw keeps the in-flight frame as received, for the wild point log.
	raw     FrameAssembler
	pending []WildPoint
}

// NewCorrector creates a corrector reporting replaced samples to wildLog, which may be nil.
func NewCorrector(wildLog WildPointLog) *Corrector {
	return &Corrector{wildLog: wildLog}
}

// Transform corrects one field.
func (c *Corrector) Transform(ctx context.Context, field wire.Field) ([]wire.Field, error) {
	decoded := Decode(field)

	done, ok := c.raw.Add(decoded)
	if ok {
		err := c.emitWildPoints(ctx, done)
		if err != nil {
			return nil, err
		}
	}

	if field.Tag != TagAltitude {
		return []wire.Field{field}, nil
	}

	corrected, replaced := c.smoother.Correct(decoded.Value)
	if !replaced {
		return []wire.Field{field}, nil
	}

	c.pending = append(c.pending, WildPoint{Raw: decoded.Value, Corrected: corrected})

	return []wire.Field{Encode(TagCorrectedAltitude, corrected)}, nil
}

// Flush reports the wild points of the last frame. It never produces fields.
func (c *Corrector) Flush(ctx context.Context) ([]wire.Field, error) {
	done, ok := c.raw.Flush()
	if !ok {
		return nil, nil
	}

	return nil, c.emitWildPoints(ctx, done)
}

func (c *Corrector) emitWildPoints(ctx context.Context, frame Frame) error {
	pending := c.pending
	c.pending = nil

	if c.wildLog == nil {
		return nil
	}

	for i, point := range pending {
		point.Frame = frame
		point.Index = i

		err := c.wildLog.EmitWildPoint(ctx, point)
		if err != nil {
			return errors.Wrapf(err, "unable to log wild point %v", point.Raw)
		}
	}

	return nil
}
