package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/andresuchdata/fullstock/internal/domain"
	"github.com/andresuchdata/fullstock/internal/pipeline"
	"github.com/andresuchdata/fullstock/internal/pipeline/fullreport"
	"github.com/andresuchdata/fullstock/internal/repository"
	"github.com/andresuchdata/fullstock/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	valeRace domain.Company = "VALE RACE"
	vanparts domain.Company = "VANPARTS"
)

type fakeCache struct {
	data        map[string][]byte
	gets, sets  int
	invalidated []string
	getErr      error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func cacheKey(sessionID, fingerprint string) string {
	return sessionID + "/" + fingerprint
}

func (f *fakeCache) Get(ctx context.Context, sessionID, fingerprint string) ([]byte, bool, error) {
	f.gets++
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	d, ok := f.data[cacheKey(sessionID, fingerprint)]
	return d, ok, nil
}

func (f *fakeCache) Set(ctx context.Context, sessionID, fingerprint string, workbook []byte) error {
	f.sets++
	f.data[cacheKey(sessionID, fingerprint)] = workbook
	return nil
}

func (f *fakeCache) InvalidateSession(ctx context.Context, sessionID string) error {
	f.invalidated = append(f.invalidated, sessionID)
	for k := range f.data {
		if strings.HasPrefix(k, sessionID+"/") {
			delete(f.data, k)
		}
	}
	return nil
}

// fullCSV renders a full report extract with the default layout.
func fullCSV(lines ...[5]string) *pipeline.Source {
	var b strings.Builder
	for i := 0; i < fullreport.DefaultFullStartRow; i++ {
		b.WriteString("header line\n")
	}
	for _, l := range lines {
		cells := make([]string, 27)
		cells[3], cells[4], cells[5], cells[8], cells[10], cells[20] = l[0], "MLB-"+l[0], l[1], l[2], l[3], l[4]
		b.WriteString(strings.Join(cells, ";") + "\n")
	}
	return pipeline.BytesSource("full.csv", []byte(b.String()))
}

func newTestService(t *testing.T, opts ReportOptions) *ReportService {
	p, err := fullreport.NewFullReportPipeline(fullreport.DefaultConfig())
	require.NoError(t, err)
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC) }
	}
	return NewReportService(repository.NewSessionRepository(nil), p, opts)
}

func TestReportServiceProcess(t *testing.T) {
	svc := newTestService(t, ReportOptions{})

	res, err := svc.Process(context.Background(), pipeline.Job{
		Company: valeRace,
		Full: fullCSV(
			[5]string{"A", "Oil", "Active", "12", "2"},
			[5]string{"B", "Filter", "n/a", "0", "50"},
			[5]string{"C", "Chain", "Inactive", "50", "50"},
		),
	})
	require.NoError(t, err)
	assert.Equal(t, pipeline.JobStatusCompleted, res.Status)
	assert.Equal(t, 2, res.Records)

	statuses := svc.Companies()
	require.NotEmpty(t, statuses)
	assert.Equal(t, CompanyStatus{Company: valeRace, Held: true, Records: 2}, statuses[0])
	assert.False(t, statuses[1].Held)

	records, err := svc.Records(valeRace, domain.RecordFilter{Search: "filt"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "B", records[0].SKU)

	all, err := svc.Records(valeRace, domain.RecordFilter{})
	require.NoError(t, err)
	for _, r := range all {
		assert.NotEqual(t, "C", r.SKU, "inactive rows are not classified")
	}

	summary, err := svc.CompanySummary(valeRace)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.SKUCount)
}

func TestReportServiceUnknownCompany(t *testing.T) {
	svc := newTestService(t, ReportOptions{})

	_, err := svc.Process(context.Background(), pipeline.Job{Company: "ACME", Full: fullCSV()})
	assert.ErrorIs(t, err, domain.ErrUnknownCompany)

	_, err = svc.Records("ACME", domain.RecordFilter{})
	assert.ErrorIs(t, err, domain.ErrUnknownCompany)

	_, err = svc.DeleteCompany("ACME")
	assert.ErrorIs(t, err, domain.ErrUnknownCompany)

	_, err = svc.ParseCompany("ACME")
	assert.ErrorIs(t, err, domain.ErrUnknownCompany)
}

func TestReportServiceKnownCompanyWithoutData(t *testing.T) {
	svc := newTestService(t, ReportOptions{})

	records, err := svc.Records(vanparts, domain.RecordFilter{})
	require.NoError(t, err)
	assert.Empty(t, records)

	deleted, err := svc.DeleteCompany(vanparts)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestReportServiceBatchKeepsSuccessfulCompanies(t *testing.T) {
	svc := newTestService(t, ReportOptions{})

	results, err := svc.ProcessBatch(context.Background(), []pipeline.Job{
		{Company: valeRace, Full: fullCSV([5]string{"A", "Oil", "Active", "12", "2"})},
		{Company: vanparts},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMissingFullReport))
	require.Len(t, results, 2)
	assert.Equal(t, pipeline.JobStatusCompleted, results[0].Status)
	assert.Equal(t, pipeline.JobStatusFailed, results[1].Status)

	records, err := svc.Records(valeRace, domain.RecordFilter{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestReportServiceConsolidatedAndReplenishment(t *testing.T) {
	svc := newTestService(t, ReportOptions{})

	_, err := svc.ProcessBatch(context.Background(), []pipeline.Job{
		{Company: valeRace, Full: fullCSV([5]string{"A", "Oil", "Active", "30", "2"})},
		{Company: vanparts, Full: fullCSV([5]string{"A", "Oil", "Active", "30", "3"}, [5]string{"Z", "Chain", "n/a", "0", "9"}, [5]string{"Y", "Belt", "Inactive", "40", "0"})},
	})
	require.NoError(t, err)

	consolidated := svc.Consolidated()
	require.Len(t, consolidated, 2)
	assert.Equal(t, "A", consolidated[0].SKU)
	assert.Equal(t, 60, consolidated[0].TotalSales30d)
	assert.Equal(t, 5, consolidated[0].TotalStock)
	assert.Equal(t, []domain.Company{valeRace, vanparts}, consolidated[0].CompaniesInvolved)
	assert.Equal(t, "Z", consolidated[1].SKU)

	summary := svc.ConsolidatedSummary()
	assert.Equal(t, 2, summary.SKUCount)

	lines := svc.Replenishment()
	require.Len(t, lines, 2)
	assert.Equal(t, "A", lines[0].SKU)
	assert.Equal(t, domain.UrgencyOK, lines[1].Urgency)
}

func TestReportServiceExportUsesCache(t *testing.T) {
	c := newFakeCache()
	svc := newTestService(t, ReportOptions{Cache: c})
	ctx := context.Background()

	_, err := svc.Export(ctx)
	assert.ErrorIs(t, err, domain.ErrNoData)

	_, err = svc.Process(ctx, pipeline.Job{Company: valeRace, Full: fullCSV([5]string{"A", "Oil", "Active", "12", "2"})})
	require.NoError(t, err)

	first, err := svc.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, "AnaliseFull_2024-05-17_09h30m.xlsx", first.Name)
	assert.NotEmpty(t, first.Data)
	assert.Equal(t, 1, c.sets)

	second, err := svc.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Data, second.Data)
	assert.Equal(t, 1, c.sets, "second export should be served from cache")

	_, err = svc.Process(ctx, pipeline.Job{Company: valeRace, Full: fullCSV([5]string{"B", "Filter", "Active", "1", "1"})})
	require.NoError(t, err)
	_, err = svc.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, c.sets)

	svc.Reset(ctx)
	assert.Equal(t, 1, len(c.invalidated))
	_, err = svc.Export(ctx)
	assert.ErrorIs(t, err, domain.ErrNoData)
}

func TestReportServiceExportSurvivesCacheFailure(t *testing.T) {
	c := newFakeCache()
	c.getErr = errors.New("redis down")
	svc := newTestService(t, ReportOptions{Cache: c})
	ctx := context.Background()

	_, err := svc.Process(ctx, pipeline.Job{Company: valeRace, Full: fullCSV([5]string{"A", "Oil", "Active", "12", "2"})})
	require.NoError(t, err)

	wb, err := svc.Export(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, wb.Data)
}

func TestReportServiceUploadExport(t *testing.T) {
	ctx := context.Background()

	disabled := newTestService(t, ReportOptions{})
	_, err := disabled.UploadExport(ctx)
	assert.ErrorIs(t, err, domain.ErrStorageDisabled)
	_, err = disabled.ListExports(ctx)
	assert.ErrorIs(t, err, domain.ErrStorageDisabled)

	store := storage.NewMemoryStorage()
	svc := newTestService(t, ReportOptions{Storage: store, StoragePrefix: "exports/"})
	_, err = svc.Process(ctx, pipeline.Job{Company: valeRace, Full: fullCSV([5]string{"A", "Oil", "Active", "12", "2"})})
	require.NoError(t, err)

	key, err := svc.UploadExport(ctx)
	require.NoError(t, err)
	assert.Equal(t, "exports/AnaliseFull_2024-05-17_09h30m.xlsx", key)

	objects, err := svc.ListExports(ctx)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, key, objects[0].Key)
}

func TestReportServiceStorageSource(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	src := fullCSV([5]string{"A", "Oil", "Active", "12", "2"})
	rc, err := src.Open(ctx)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, store.UploadObject(ctx, "inbox/vale.csv", data, "text/csv"))

	svc := newTestService(t, ReportOptions{Storage: store})
	remote, err := svc.StorageSource("inbox/vale.csv")
	require.NoError(t, err)
	assert.Equal(t, "vale.csv", remote.Name)

	res, err := svc.Process(ctx, pipeline.Job{Company: valeRace, Full: remote})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Records)
}

func TestReportServiceResetOnlyDropsOwnSession(t *testing.T) {
	c := newFakeCache()
	c.data[cacheKey("other-session", "fp")] = []byte("other workbook")
	repo := repository.NewSessionRepository(nil)
	p, err := fullreport.NewFullReportPipeline(fullreport.DefaultConfig())
	require.NoError(t, err)
	svc := NewReportService(repo, p, ReportOptions{Cache: c})
	ctx := context.Background()

	_, err = svc.Process(ctx, pipeline.Job{Company: valeRace, Full: fullCSV([5]string{"A", "Oil", "Active", "12", "2"})})
	require.NoError(t, err)
	_, err = svc.Export(ctx)
	require.NoError(t, err)

	before := repo.Snapshot()
	svc.Reset(ctx)

	assert.Equal(t, []string{before.SessionID}, c.invalidated)
	assert.NotEqual(t, before.SessionID, repo.Snapshot().SessionID)
	assert.Equal(t, []byte("other workbook"), c.data[cacheKey("other-session", "fp")])
	_, ok := c.data[cacheKey(before.SessionID, before.Fingerprint())]
	assert.False(t, ok)
}
