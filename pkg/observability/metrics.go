package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricFilesExamined = "tsfix.files.examined"
	metricFilesModified = "tsfix.files.modified"
	metricFilesFailed   = "tsfix.files.failed"
	metricPassApplied   = "tsfix.pass.applied"
	metricFileDuration  = "tsfix.file.duration.seconds"
	metricPatchApplied  = "tsfix.patch.applied"

	attrPass    = "pass"
	attrOutcome = "outcome"
)

// File outcomes recorded as the outcome attribute.
const (
	OutcomeUnchanged = "unchanged"
	OutcomeModified  = "modified"
	OutcomeFailed    = "failed"
)

// fileDurationBoundaries covers 100us to 5s; a single regex pipeline over one
// source file rarely leaves the millisecond range.
var fileDurationBoundaries = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// FixMetrics holds the OTel instruments for a rewrite run.
type FixMetrics struct {
	filesExamined metric.Int64Counter
	filesModified metric.Int64Counter
	filesFailed   metric.Int64Counter
	passApplied   metric.Int64Counter
	fileDuration  metric.Float64Histogram
	patchApplied  metric.Int64Counter
}

// NewFixMetrics creates the run instruments from the given meter.
func NewFixMetrics(mt metric.Meter) (*FixMetrics, error) {
	examined, err := mt.Int64Counter(metricFilesExamined,
		metric.WithDescription("Source files read and run through the pipeline"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFilesExamined, err)
	}

	modified, err := mt.Int64Counter(metricFilesModified,
		metric.WithDescription("Source files whose content changed"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFilesModified, err)
	}

	failed, err := mt.Int64Counter(metricFilesFailed,
		metric.WithDescription("Source files skipped after an I/O or pass failure"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFilesFailed, err)
	}

	applied, err := mt.Int64Counter(metricPassApplied,
		metric.WithDescription("Files changed by each rewrite pass"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricPassApplied, err)
	}

	duration, err := mt.Float64Histogram(metricFileDuration,
		metric.WithDescription("Time spent processing one file"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(fileDurationBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFileDuration, err)
	}

	patches, err := mt.Int64Counter(metricPatchApplied,
		metric.WithDescription("Literal config patches that changed a file"),
		metric.WithUnit("{patch}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricPatchApplied, err)
	}

	return &FixMetrics{
		filesExamined: examined,
		filesModified: modified,
		filesFailed:   failed,
		passApplied:   applied,
		fileDuration:  duration,
		patchApplied:  patches,
	}, nil
}

// RecordFile records one processed file, the passes that changed it, and the
// time spent on it. Nil receivers are ignored.
func (fm *FixMetrics) RecordFile(ctx context.Context, outcome string, passes []string, duration time.Duration) {
	if fm == nil {
		return
	}

	fm.fileDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String(attrOutcome, outcome)))

	fm.filesExamined.Add(ctx, 1)

	switch outcome {
	case OutcomeFailed:
		fm.filesFailed.Add(ctx, 1)

		return
	case OutcomeModified:
		fm.filesModified.Add(ctx, 1)
	}

	for _, pass := range passes {
		fm.passApplied.Add(ctx, 1, metric.WithAttributes(attribute.String(attrPass, pass)))
	}
}

// RecordPatch records a config patch that changed its target file.
func (fm *FixMetrics) RecordPatch(ctx context.Context) {
	if fm == nil {
		return
	}

	fm.patchApplied.Add(ctx, 1)
}
