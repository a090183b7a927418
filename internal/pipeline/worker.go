package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Worker processes company jobs for a specific pipeline
type Worker struct {
	pipeline Pipeline
	config   PipelineConfig
	sink     Sink
}

// NewWorker creates a new pipeline worker
func NewWorker(pipeline Pipeline, config PipelineConfig, sink Sink) *Worker {
	return &Worker{
		pipeline: pipeline,
		config:   config,
		sink:     sink,
	}
}

// ProcessBatch runs every job with at most WorkerCount in flight. A failed
// job does not stop the others; results are returned in job order.
func (w *Worker) ProcessBatch(ctx context.Context, jobs []Job) []JobResult {
	log.Info().
		Str("pipeline", w.pipeline.Name()).
		Int("jobs", len(jobs)).
		Msg("starting batch")

	workerCount := w.config.WorkerCount
	if workerCount < 1 {
		workerCount = 1
	}

	results := make([]JobResult, len(jobs))
	var g errgroup.Group
	g.SetLimit(workerCount)
	for i, job := range jobs {
		g.Go(func() error {
			results[i] = w.processJob(ctx, job)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// processJob processes a single company job
func (w *Worker) processJob(ctx context.Context, job Job) JobResult {
	startTime := time.Now()
	res := JobResult{Company: job.Company, Status: JobStatusFailed}

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	if err := w.pipeline.Validate(job); err != nil {
		res.Err = fmt.Errorf("validation failed for %s: %w", job.Company, err)
		return res
	}

	records, err := w.pipeline.Transform(ctx, job)
	if err != nil {
		res.Err = fmt.Errorf("transformation failed for %s: %w", job.Company, err)
		log.Error().Err(err).Str("company", string(job.Company)).Msg("job failed")
		return res
	}

	res.Revision = w.sink.Replace(job.Company, records)
	res.Status = JobStatusCompleted
	res.Records = len(records)
	res.Duration = time.Since(startTime)

	log.Info().
		Str("pipeline", w.pipeline.Name()).
		Str("company", string(job.Company)).
		Int("records", res.Records).
		Dur("duration", res.Duration).
		Msg("job completed")

	return res
}
