package measure

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/askiada/go-decom/pkg/pipeline/model"
)

// Namespace prefixes every metric exported by PipelinePrometheus.
const Namespace = "decom"

type pipelinePrometheus struct {
	reg prometheus.Registerer

	fields    *prometheus.CounterVec
	compute   *prometheus.HistogramVec
	wait      *prometheus.HistogramVec
	duration  *prometheus.GaugeVec
	startTime time.Time
}

func (pp *pipelinePrometheus) New() error {
	pp.fields = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "stage_fields_total",
			Help:      "Total number of fields processed by a stage",
		},
		[]string{"stage"},
	)
	pp.compute = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "stage_compute_seconds",
			Help:      "Time spent transforming or consuming one field",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 10, 8),
		},
		[]string{"stage"},
	)
	pp.wait = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "stage_wait_seconds",
			Help:      "Time spent waiting for one field on the input pipe",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 10, 8),
		},
		[]string{"stage", "input"},
	)
	pp.duration = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time between the start of a stage and its exit",
		},
		[]string{"stage"},
	)
	pp.startTime = time.Now()

	for _, c := range []prometheus.Collector{pp.fields, pp.compute, pp.wait, pp.duration} {
		err := pp.reg.Register(c)
		if err != nil {
			return errors.Wrap(err, "unable to register stage metrics")
		}
	}

	return nil
}

func (pp *pipelinePrometheus) PrepareStage(_, stage *model.StageInfo) error {
	pp.fields.WithLabelValues(stage.Name)

	return nil
}

func (pp *pipelinePrometheus) OnStageOutput(parentStage, stage *model.StageInfo, iterationDuration, computationDuration time.Duration) error {
	pp.fields.WithLabelValues(stage.Name).Inc()
	pp.compute.WithLabelValues(stage.Name).Observe(computationDuration.Seconds())
	pp.wait.WithLabelValues(stage.Name, parentStage.Name).Observe(iterationDuration.Seconds())

	return nil
}

func (pp *pipelinePrometheus) AfterStage(stage *model.StageInfo, totalDuration time.Duration) error {
	pp.duration.WithLabelValues(stage.Name).Set(totalDuration.Seconds())

	return nil
}

func (pp *pipelinePrometheus) PrepareSink(parentStage, stage *model.StageInfo) error {
	return pp.PrepareStage(parentStage, stage)
}

func (pp *pipelinePrometheus) OnSinkOutput(parentStage, stage *model.StageInfo, iterationDuration, computationDuration time.Duration) error {
	return pp.OnStageOutput(parentStage, stage, iterationDuration, computationDuration)
}

func (pp *pipelinePrometheus) AfterSink(stage *model.StageInfo, totalDuration time.Duration) error {
	return pp.AfterStage(stage, totalDuration)
}

func (pp *pipelinePrometheus) Finish() error {
	return pp.AfterStage(model.EndStage, time.Since(pp.startTime))
}

// PipelinePrometheus exports the stage counters and timings to reg. Running several
// pipelines against one registry requires wrapping it with distinct constant labels,
// see prometheus.WrapRegistererWith.
func PipelinePrometheus(reg prometheus.Registerer) model.PipelineOption {
	return &pipelinePrometheus{reg: reg}
}
