package fullreport

import (
	"context"
	"fmt"

	"github.com/andresuchdata/fullstock/internal/domain"
	"github.com/andresuchdata/fullstock/internal/pipeline"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// FullReportPipeline implements the generic pipeline.Pipeline interface for
// marketplace full reports and their optional aged-stock cost extract.
type FullReportPipeline struct {
	config Config
	fullIx ColumnIndex
	costIx ColumnIndex
}

// NewFullReportPipeline resolves the configured layouts once.
func NewFullReportPipeline(cfg Config) (*FullReportPipeline, error) {
	cfg = cfg.withDefaults()

	fullIx, err := cfg.FullColumns.Resolve()
	if err != nil {
		return nil, fmt.Errorf("invalid full report columns: %w", err)
	}
	if err := fullIx.Require(FieldSKU, FieldStatus, FieldSales30d, FieldStockOnHand); err != nil {
		return nil, err
	}
	costIx, err := cfg.CostColumns.Resolve()
	if err != nil {
		return nil, fmt.Errorf("invalid cost columns: %w", err)
	}
	if err := costIx.Require(FieldSKU, FieldTotalCost); err != nil {
		return nil, err
	}

	return &FullReportPipeline{config: cfg, fullIx: fullIx, costIx: costIx}, nil
}

// Name returns the unique identifier of this pipeline.
func (p *FullReportPipeline) Name() string {
	return "full_report"
}

// Validate checks that the full report is present and both extracts have a
// supported format.
func (p *FullReportPipeline) Validate(job pipeline.Job) error {
	if job.Full == nil {
		return domain.ErrMissingFullReport
	}
	if _, err := DetectFormat(job.Full.Name); err != nil {
		return err
	}
	if job.Cost != nil {
		if _, err := DetectFormat(job.Cost.Name); err != nil {
			return err
		}
	}
	return nil
}

// Transform reads, normalizes, classifies and costs one company's extracts.
func (p *FullReportPipeline) Transform(ctx context.Context, job pipeline.Job) ([]domain.SkuFact, error) {
	if err := p.Validate(job); err != nil {
		return nil, err
	}

	// 1) Read both extracts concurrently
	var fullRows, costRows []Row
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := p.readSource(gctx, job.Full, p.config.FullSheet, p.config.FullStartRow)
		if err != nil {
			return fmt.Errorf("full report: %w", err)
		}
		fullRows = rows
		return nil
	})
	if job.Cost != nil {
		g.Go(func() error {
			rows, err := p.readSource(gctx, job.Cost, p.config.CostSheet, p.config.CostStartRow)
			if err != nil {
				return fmt.Errorf("cost extract: %w", err)
			}
			costRows = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 2) Normalize and classify
	classified := Classify(NormalizeFullRows(fullRows, p.fullIx))

	// 3) Attach costs; without a cost extract every record gets the no-cost defaults
	var costs map[string]domain.CostFacts
	if job.Cost != nil {
		costs = AggregateCosts(costRows, p.costIx)
	}
	records := AttributeCosts(classified, costs)

	log.Debug().
		Str("company", string(job.Company)).
		Int("rows", len(fullRows)).
		Int("cost_rows", len(costRows)).
		Int("records", len(records)).
		Msg("full report transformed")

	return records, nil
}

func (p *FullReportPipeline) readSource(ctx context.Context, src *pipeline.Source, sheet string, skip int) ([]Row, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return ReadSheet(rc, src.Name, sheet, skip)
}
