package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/andresuchdata/fullstock/internal/cache"
	"github.com/andresuchdata/fullstock/internal/domain"
	"github.com/andresuchdata/fullstock/internal/export"
	"github.com/andresuchdata/fullstock/internal/pipeline"
	"github.com/andresuchdata/fullstock/internal/pipeline/fullreport"
	"github.com/andresuchdata/fullstock/internal/repository"
	"github.com/andresuchdata/fullstock/internal/storage"
	"github.com/rs/zerolog/log"
)

// CompanyStatus tells whether a known company currently has records loaded.
type CompanyStatus struct {
	Company domain.Company `json:"company"`
	Held    bool           `json:"held"`
	Records int            `json:"records"`
}

// Workbook is a rendered export ready for download.
type Workbook struct {
	Name string
	Data []byte
}

// ReportOptions carries the optional collaborators of ReportService.
type ReportOptions struct {
	Cache         cache.ExportCache
	Storage       storage.ObjectStorage
	StoragePrefix string
	Workers       int
	Now           func() time.Time
}

type ReportService struct {
	repo          repository.SessionRepository
	pipeline      pipeline.Pipeline
	orchestrator  *pipeline.Orchestrator
	cache         cache.ExportCache
	storage       storage.ObjectStorage
	storagePrefix string
	now           func() time.Time
}

func NewReportService(repo repository.SessionRepository, p pipeline.Pipeline, opts ReportOptions) *ReportService {
	if opts.Cache == nil {
		opts.Cache = cache.NewNoopExportCache()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	cfg := pipeline.DefaultPipelineConfig(p.Name())
	if opts.Workers > 0 {
		cfg.WorkerCount = opts.Workers
	}
	return &ReportService{
		repo:          repo,
		pipeline:      p,
		orchestrator:  pipeline.NewOrchestrator(repo, cfg),
		cache:         opts.Cache,
		storage:       opts.Storage,
		storagePrefix: opts.StoragePrefix,
		now:           opts.Now,
	}
}

func (s *ReportService) Companies() []CompanyStatus {
	snap := s.repo.Snapshot()
	out := make([]CompanyStatus, 0, len(snap.Known))
	for _, c := range snap.Known {
		records, held := snap.Records[c]
		out = append(out, CompanyStatus{Company: c, Held: held, Records: len(records)})
	}
	return out
}

// ParseCompany resolves a company name against the known set.
func (s *ReportService) ParseCompany(name string) (domain.Company, error) {
	c := domain.Company(name)
	if !s.repo.IsKnown(c) {
		return "", fmt.Errorf("%q: %w", name, domain.ErrUnknownCompany)
	}
	return c, nil
}

// Process replaces one company's records with the result of its extracts.
func (s *ReportService) Process(ctx context.Context, job pipeline.Job) (pipeline.JobResult, error) {
	results, err := s.ProcessBatch(ctx, []pipeline.Job{job})
	if len(results) == 0 {
		return pipeline.JobResult{Company: job.Company, Status: pipeline.JobStatusFailed, Err: err}, err
	}
	return results[0], err
}

// ProcessBatch processes several companies concurrently. Companies that
// succeed are stored even when another one fails.
func (s *ReportService) ProcessBatch(ctx context.Context, jobs []pipeline.Job) ([]pipeline.JobResult, error) {
	for _, j := range jobs {
		if !s.repo.IsKnown(j.Company) {
			return nil, fmt.Errorf("%q: %w", j.Company, domain.ErrUnknownCompany)
		}
	}
	return s.orchestrator.Run(ctx, s.pipeline, jobs)
}

// Records returns a held company's records narrowed by filter. A known
// company without data yields an empty slice.
func (s *ReportService) Records(company domain.Company, filter domain.RecordFilter) ([]domain.SkuFact, error) {
	if !s.repo.IsKnown(company) {
		return nil, fmt.Errorf("%q: %w", company, domain.ErrUnknownCompany)
	}
	records, _ := s.repo.Get(company)
	return fullreport.FilterRecords(records, filter), nil
}

func (s *ReportService) CompanySummary(company domain.Company) (domain.CompanySummary, error) {
	if !s.repo.IsKnown(company) {
		return domain.CompanySummary{}, fmt.Errorf("%q: %w", company, domain.ErrUnknownCompany)
	}
	records, _ := s.repo.Get(company)
	return fullreport.SummarizeCompany(company, records), nil
}

// DeleteCompany drops a company's records; it reports whether any were held.
func (s *ReportService) DeleteCompany(company domain.Company) (bool, error) {
	if !s.repo.IsKnown(company) {
		return false, fmt.Errorf("%q: %w", company, domain.ErrUnknownCompany)
	}
	return s.repo.Delete(company), nil
}

// Reset starts a new session and drops the cached exports of the old one.
func (s *ReportService) Reset(ctx context.Context) {
	previous := s.repo.Snapshot().SessionID
	s.repo.Reset()
	if err := s.cache.InvalidateSession(ctx, previous); err != nil {
		log.Warn().Err(err).Msg("report: cache invalidate failed")
	}
}

func (s *ReportService) Consolidated() []domain.ConsolidatedSkuFact {
	return fullreport.Consolidate(s.repo.Snapshot())
}

func (s *ReportService) ConsolidatedSummary() domain.ConsolidatedSummary {
	snap := s.repo.Snapshot()
	return fullreport.SummarizeConsolidated(snap.Held(), fullreport.Consolidate(snap))
}

func (s *ReportService) Replenishment() []domain.ReplenishmentLine {
	return fullreport.Simulate(s.Consolidated())
}

// Export renders the workbook of the current session, reusing a cached render
// of an identical session when available.
func (s *ReportService) Export(ctx context.Context) (Workbook, error) {
	snap := s.repo.Snapshot()
	if snap.Empty() {
		return Workbook{}, domain.ErrNoData
	}
	name := export.FileName(s.now())
	fingerprint := snap.Fingerprint()

	if data, ok, err := s.cache.Get(ctx, snap.SessionID, fingerprint); err == nil && ok {
		return Workbook{Name: name, Data: data}, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("report: cache get export failed")
	}

	data, err := export.BuildWorkbook(snap)
	if err != nil {
		return Workbook{}, err
	}

	if err := s.cache.Set(ctx, snap.SessionID, fingerprint, data); err != nil {
		log.Warn().Err(err).Msg("report: cache set export failed")
	}

	return Workbook{Name: name, Data: data}, nil
}

// UploadExport renders the workbook and stores it in object storage,
// returning its key.
func (s *ReportService) UploadExport(ctx context.Context) (string, error) {
	if s.storage == nil {
		return "", domain.ErrStorageDisabled
	}
	wb, err := s.Export(ctx)
	if err != nil {
		return "", err
	}
	key := path.Join(s.storagePrefix, wb.Name)
	if err := s.storage.UploadObject(ctx, key, wb.Data, export.ContentType); err != nil {
		return "", err
	}
	log.Info().Str("key", key).Int("bytes", len(wb.Data)).Msg("export uploaded")
	return key, nil
}

// ListExports lists previously uploaded workbooks.
func (s *ReportService) ListExports(ctx context.Context) ([]storage.ObjectInfo, error) {
	if s.storage == nil {
		return nil, domain.ErrStorageDisabled
	}
	return s.storage.ListObjects(ctx, s.storagePrefix)
}

// StorageSource reads an extract from object storage.
func (s *ReportService) StorageSource(key string) (*pipeline.Source, error) {
	if s.storage == nil {
		return nil, domain.ErrStorageDisabled
	}
	return &pipeline.Source{
		Name: path.Base(key),
		Open: func(ctx context.Context) (io.ReadCloser, error) {
			return s.storage.OpenObject(ctx, key)
		},
	}, nil
}
