package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/andresuchdata/fullstock/internal/domain"
	"github.com/andresuchdata/fullstock/internal/pipeline"
	"github.com/andresuchdata/fullstock/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const storageScheme = "s3://"

func processFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:     "full",
			Usage:    "Full report extract as COMPANY=path (repeatable; s3://key reads from object storage)",
			Required: true,
		},
		&cli.StringSliceFlag{
			Name:  "cost",
			Usage: "Historical cost extract as COMPANY=path (repeatable, optional)",
		},
		&cli.StringFlag{
			Name:    "output",
			Usage:   "Directory where the workbook is written (defaults to REPORT_OUTPUT_DIR)",
			EnvVars: []string{"FULLSTOCK_OUTPUT"},
		},
		&cli.BoolFlag{
			Name:  "upload",
			Usage: "Also upload the workbook to object storage",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Number of companies processed concurrently",
		},
	}
}

// parseAssignment splits "COMPANY=path". The company is everything before the
// first '='.
func parseAssignment(raw string) (domain.Company, string, error) {
	company, path, ok := strings.Cut(raw, "=")
	company, path = strings.TrimSpace(company), strings.TrimSpace(path)
	if !ok || company == "" || path == "" {
		return "", "", fmt.Errorf("invalid value %q, expected COMPANY=path", raw)
	}
	return domain.Company(company), path, nil
}

type sourceOpener func(path string) (*pipeline.Source, error)

func localOrRemote(svc *service.ReportService) sourceOpener {
	return func(path string) (*pipeline.Source, error) {
		if key, ok := strings.CutPrefix(path, storageScheme); ok {
			return svc.StorageSource(key)
		}
		return pipeline.FileSource(path), nil
	}
}

// buildJobs pairs each full report with the cost extract of the same company.
func buildJobs(fulls, costs []string, open sourceOpener) ([]pipeline.Job, error) {
	jobs := make([]pipeline.Job, 0, len(fulls))
	index := make(map[domain.Company]int, len(fulls))

	for _, raw := range fulls {
		company, path, err := parseAssignment(raw)
		if err != nil {
			return nil, fmt.Errorf("--full: %w", err)
		}
		if _, dup := index[company]; dup {
			return nil, fmt.Errorf("--full: company %s given more than once", company)
		}
		src, err := open(path)
		if err != nil {
			return nil, err
		}
		index[company] = len(jobs)
		jobs = append(jobs, pipeline.Job{Company: company, Full: src})
	}

	for _, raw := range costs {
		company, path, err := parseAssignment(raw)
		if err != nil {
			return nil, fmt.Errorf("--cost: %w", err)
		}
		i, ok := index[company]
		if !ok {
			return nil, fmt.Errorf("--cost for %s: %w", company, domain.ErrMissingFullReport)
		}
		src, err := open(path)
		if err != nil {
			return nil, err
		}
		jobs[i].Cost = src
	}
	return jobs, nil
}

func runProcess(c *cli.Context) error {
	a, err := newApp(c)
	if err != nil {
		return err
	}
	svc := a.Service

	jobs, err := buildJobs(c.StringSlice("full"), c.StringSlice("cost"), localOrRemote(svc))
	if err != nil {
		return err
	}

	// 1) process every company; successful ones are kept even if others fail
	results, runErr := svc.ProcessBatch(c.Context, jobs)
	for _, r := range results {
		if r.Err != nil {
			log.Error().Err(r.Err).Str("company", string(r.Company)).Msg("company failed")
			continue
		}
		summary, _ := svc.CompanySummary(r.Company)
		log.Info().
			Str("company", string(r.Company)).
			Int("records", r.Records).
			Dur("duration", r.Duration).
			Str("sales_30d", summary.Display["sales_30d"]).
			Str("total_cost", summary.Display["total_cost"]).
			Msg("company processed")
	}

	// 2) write the workbook for whatever is held
	wb, err := svc.Export(c.Context)
	if errors.Is(err, domain.ErrNoData) {
		return errors.Join(runErr, err)
	}
	if err != nil {
		return err
	}

	outDir := c.String("output")
	if outDir == "" {
		outDir = a.Config.Report.OutputDir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", outDir, err)
	}
	outPath := filepath.Join(outDir, wb.Name)
	if err := os.WriteFile(outPath, wb.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	log.Info().Str("path", outPath).Int("bytes", len(wb.Data)).Msg("workbook written")

	// 3) optional upload
	if c.Bool("upload") {
		key, err := svc.UploadExport(c.Context)
		if err != nil {
			return errors.Join(runErr, fmt.Errorf("upload failed: %w", err))
		}
		fmt.Fprintln(c.App.Writer, key)
	}

	if s := svc.ConsolidatedSummary(); len(s.Companies) > 1 {
		log.Info().
			Int("skus", s.SKUCount).
			Str("total_stock", s.Display["total_stock"]).
			Str("total_cost", s.Display["total_cost"]).
			Msg("consolidated")
	}

	return runErr
}
