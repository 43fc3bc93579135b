package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mockview_backend/internal/config"
	"mockview_backend/internal/model"
	"mockview_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRenderer struct {
	html string
	err  error
}

func (r *stubRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	r.html = html
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.4 stub"), nil
}

type memoryReportStore struct {
	records   []model.ReportRecord
	createErr error
}

func (m *memoryReportStore) Create(record *model.ReportRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.records = append(m.records, *record)
	return nil
}

func (m *memoryReportStore) ListBySession(sessionID string, limit int) ([]model.ReportRecord, error) {
	var out []model.ReportRecord
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		if m.records[i].SessionID == sessionID {
			out = append(out, m.records[i])
		}
	}
	return out, nil
}

func intPtr(v int) *int { return &v }

func sampleReport() ReportRequest {
	return ReportRequest{
		History: []model.ReportItem{
			{Question: "What is a vector?", UserAnswer: "dynamic array", Score: intPtr(90), Feedback: "Excellent!", ModelAnswer: "A dynamic array."},
			{Question: "<script>alert(1)</script>", Feedback: "", ModelAnswer: "Escape me & you"},
		},
		Summary: model.ReportSummary{Count: intPtr(2), AverageScore: intPtr(45)},
	}
}

func localStorage(t *testing.T) (*StorageService, string) {
	dir := t.TempDir()
	cfg := &config.Config{Storage: config.StorageConfig{Type: util.StorageLocal, LocalPath: dir}}
	return NewStorageService(cfg), dir
}

func TestRenderHTML(t *testing.T) {
	svc := NewReportService(&stubRenderer{}, nil, nil, false, time.Second)
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC) }

	html, err := svc.RenderHTML(sampleReport())
	require.NoError(t, err)

	assert.Contains(t, html, "Interview Report Card")
	assert.Contains(t, html, "Date: 2025-03-01 09:30:00")
	assert.Contains(t, html, "<strong>Questions Answered:</strong> 2")
	assert.Contains(t, html, "<strong>Average Score:</strong> 45%")
	assert.Contains(t, html, "<h3>Question 1:</h3>")
	assert.Contains(t, html, "<h3>Question 2:</h3>")
	assert.Contains(t, html, "<strong>Your Score:</strong> 90%")
	assert.Contains(t, html, "<strong>Your Score:</strong> N/A%")
	assert.Contains(t, html, "<strong>Feedback:</strong> N/A")
	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "Escape me &amp; you")
}

func TestRenderHTMLEmptySummary(t *testing.T) {
	svc := NewReportService(&stubRenderer{}, nil, nil, false, time.Second)

	html, err := svc.RenderHTML(ReportRequest{})
	require.NoError(t, err)
	assert.Contains(t, html, "<strong>Questions Answered:</strong> N/A")
	assert.NotContains(t, html, "question-block\">")
}

func TestGenerateWithoutArchive(t *testing.T) {
	renderer := &stubRenderer{}
	svc := NewReportService(renderer, nil, nil, false, time.Second)

	pdf, err := svc.Generate(context.Background(), "s1", sampleReport())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))
	assert.Contains(t, renderer.html, "Detailed Breakdown")
}

func TestGenerateErrors(t *testing.T) {
	_, err := NewReportService(nil, nil, nil, false, time.Second).Generate(context.Background(), "s1", sampleReport())
	assert.ErrorIs(t, err, util.ErrRendererUnavailable)

	boom := errors.New("chromium crashed")
	_, err = NewReportService(&stubRenderer{err: boom}, nil, nil, false, time.Second).Generate(context.Background(), "s1", sampleReport())
	assert.ErrorIs(t, err, boom)
}

func TestGenerateArchivesReport(t *testing.T) {
	storage, dir := localStorage(t)
	records := &memoryReportStore{}
	svc := NewReportService(&stubRenderer{}, storage, records, true, time.Second)

	pdf, err := svc.Generate(context.Background(), "s1", sampleReport())
	require.NoError(t, err)

	require.Len(t, records.records, 1)
	rec := records.records[0]
	assert.Equal(t, "s1", rec.SessionID)
	assert.Equal(t, 2, rec.Questions)
	assert.Equal(t, 45, rec.AverageScore)
	assert.True(t, strings.HasPrefix(rec.ObjectKey, "reports/s1/"))
	assert.Equal(t, "/uploads/"+rec.ObjectKey, rec.URL)

	stored, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rec.ObjectKey)))
	require.NoError(t, err)
	assert.Equal(t, pdf, stored)

	listed, err := svc.ListReports(context.Background(), "s1")
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	other, err := svc.ListReports(context.Background(), "s2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestGenerateArchiveFailureStillReturnsPDF(t *testing.T) {
	storage, dir := localStorage(t)
	records := &memoryReportStore{createErr: errors.New("db down")}
	svc := NewReportService(&stubRenderer{}, storage, records, true, time.Second)

	pdf, err := svc.Generate(context.Background(), "s1", sampleReport())
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)

	// 记录写入失败时删除已上传的文件
	entries, err := os.ReadDir(filepath.Join(dir, "reports", "s1"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestListReportsWithoutDatabase(t *testing.T) {
	svc := NewReportService(&stubRenderer{}, nil, nil, true, time.Second)
	records, err := svc.ListReports(context.Background(), "s1")
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestAverageScoreFallback(t *testing.T) {
	req := ReportRequest{History: []model.ReportItem{{Score: intPtr(70)}, {Score: intPtr(81)}, {}}}
	assert.Equal(t, 76, averageScore(req))
	assert.Equal(t, 3, questionCount(req))
	assert.Equal(t, 0, averageScore(ReportRequest{}))
}
