package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/andresuchdata/fullstock/internal/domain"
)

// Orchestrator coordinates running a Pipeline over a set of company jobs.
type Orchestrator struct {
	cfg   PipelineConfig
	sink  Sink
	makeW func(p Pipeline, cfg PipelineConfig, sink Sink) *Worker
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(sink Sink, cfg PipelineConfig) *Orchestrator {
	return &Orchestrator{
		cfg:   cfg,
		sink:  sink,
		makeW: NewWorker,
	}
}

// Run processes the jobs and stores each company's records in the sink. A
// company may appear only once per run. Successful jobs are stored even when
// others fail; the returned error joins every job failure.
func (o *Orchestrator) Run(ctx context.Context, p Pipeline, jobs []Job) ([]JobResult, error) {
	if len(jobs) == 0 {
		return nil, nil
	}

	seen := make(map[domain.Company]struct{}, len(jobs))
	for _, j := range jobs {
		if _, dup := seen[j.Company]; dup {
			return nil, fmt.Errorf("company %s listed more than once", j.Company)
		}
		seen[j.Company] = struct{}{}
	}

	worker := o.makeW(p, o.cfg, o.sink)
	results := worker.ProcessBatch(ctx, jobs)

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return results, errors.Join(errs...)
}
