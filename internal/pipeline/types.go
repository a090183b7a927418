package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/andresuchdata/fullstock/internal/domain"
)

// Pipeline defines the interface that all extract pipelines must implement
type Pipeline interface {
	// Name returns the unique identifier for this pipeline
	Name() string

	// Validate checks that a job carries the inputs this pipeline needs
	Validate(job Job) error

	// Transform reads the job's extracts and returns the company's records
	Transform(ctx context.Context, job Job) ([]domain.SkuFact, error)
}

// Source is a named, re-openable extract. Name carries the file name so the
// format can be detected from its extension.
type Source struct {
	Name string
	Open func(ctx context.Context) (io.ReadCloser, error)
}

// FileSource reads an extract from the local filesystem.
func FileSource(path string) *Source {
	return &Source{
		Name: filepath.Base(path),
		Open: func(ctx context.Context) (io.ReadCloser, error) {
			f, err := os.Open(path)
			if err != nil {
				return nil, fmt.Errorf("failed to open %s: %w", path, err)
			}
			return f, nil
		},
	}
}

// BytesSource serves an extract already held in memory, e.g. an upload.
func BytesSource(name string, data []byte) *Source {
	return &Source{
		Name: name,
		Open: func(ctx context.Context) (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// Job is one company's processing request: a required full report and an
// optional cost extract.
type Job struct {
	Company domain.Company
	Full    *Source
	Cost    *Source
}

// Sink receives the records of every successfully processed job.
type Sink interface {
	Replace(company domain.Company, records []domain.SkuFact) uint64
}

// PipelineConfig holds configuration for a pipeline run
type PipelineConfig struct {
	Name        string
	WorkerCount int // Number of companies processed concurrently
}

// DefaultPipelineConfig returns sensible defaults
func DefaultPipelineConfig(name string) PipelineConfig {
	return PipelineConfig{
		Name:        name,
		WorkerCount: 4,
	}
}

// JobStatus represents the state of a single company job
type JobStatus string

const (
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// JobResult tracks the outcome of one company job
type JobResult struct {
	Company  domain.Company
	Status   JobStatus
	Records  int
	Revision uint64
	Duration time.Duration
	Err      error
}
