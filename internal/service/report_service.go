package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"math"
	"path"
	"strconv"
	"time"

	"mockview_backend/internal/model"
	"mockview_backend/internal/util"
	"mockview_backend/pkg/logger"
	"mockview_backend/pkg/monitoring"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const reportListLimit = 20

const reportTemplate = `<html><head><meta charset="utf-8"><style>body { font-family: sans-serif; color: #333; } h1 { color: #2b6cb0; border-bottom: 2px solid #2b6cb0; padding-bottom: 10px; } h2 { color: #2c5282; border-bottom: 1px solid #e2e8f0; padding-bottom: 5px;} .summary-card { background-color: #edf2f7; padding: 20px; border-radius: 8px; margin-bottom: 30px; text-align: center; } .question-block { margin-bottom: 25px; border-left: 3px solid #cbd5e0; padding-left: 15px; page-break-inside: avoid; } .model-answer { background-color: #f7fafc; border: 1px solid #e2e8f0; padding: 10px; border-radius: 5px; margin-top: 10px; } p { line-height: 1.6; } strong { color: #4a5568; }</style></head>
<body><h1>Interview Report Card</h1> <p>Date: {{.Date}}</p><div class="summary-card"><h2>Performance Summary</h2><p><strong>Questions Answered:</strong> {{na .Summary.Count}}</p><p><strong>Average Score:</strong> {{na .Summary.AverageScore}}%</p></div><h2>Detailed Breakdown</h2>{{range $i, $item := .History}}<div class="question-block"><h3>Question {{inc $i}}:</h3><p>{{text $item.Question}}</p><p><strong>Your Score:</strong> {{na $item.Score}}%</p><p><strong>Feedback:</strong> {{text $item.Feedback}}</p><div class="model-answer"><strong>Model Answer:</strong> {{text $item.ModelAnswer}}</div></div>{{end}}</body></html>`

var reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"na": func(v *int) string {
		if v == nil {
			return "N/A"
		}
		return strconv.Itoa(*v)
	},
	"text": func(s string) string {
		if s == "" {
			return "N/A"
		}
		return s
	},
}).Parse(reportTemplate))

type ReportRequest struct {
	History []model.ReportItem  `json:"history"`
	Summary model.ReportSummary `json:"summary"`
}

// Renderer HTML 转 PDF
type Renderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// ReportStore 归档记录存储，由 repository.ReportRepository 实现
type ReportStore interface {
	Create(record *model.ReportRecord) error
	ListBySession(sessionID string, limit int) ([]model.ReportRecord, error)
}

type ReportService struct {
	renderer Renderer
	storage  *StorageService
	records  ReportStore
	archive  bool
	timeout  time.Duration
	now      func() time.Time
}

// NewReportService storage 或 records 为空时跳过对应的归档步骤
func NewReportService(renderer Renderer, storage *StorageService, records ReportStore, archive bool, timeout time.Duration) *ReportService {
	return &ReportService{
		renderer: renderer,
		storage:  storage,
		records:  records,
		archive:  archive,
		timeout:  timeout,
		now:      time.Now,
	}
}

// RenderHTML 生成报告页面，所有用户内容经模板转义
func (s *ReportService) RenderHTML(req ReportRequest) (string, error) {
	var buf bytes.Buffer
	data := struct {
		ReportRequest
		Date string
	}{req, s.now().Format(util.TimeFormat)}

	if err := reportTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render report html: %w", err)
	}
	return buf.String(), nil
}

// Generate 生成 PDF；开启归档时上传并记录，归档失败不影响下载
func (s *ReportService) Generate(ctx context.Context, sessionID string, req ReportRequest) ([]byte, error) {
	if s.renderer == nil {
		monitoring.ReportsGenerated.WithLabelValues("error").Inc()
		return nil, util.ErrRendererUnavailable
	}

	html, err := s.RenderHTML(req)
	if err != nil {
		monitoring.ReportsGenerated.WithLabelValues("error").Inc()
		return nil, err
	}

	renderCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		renderCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	pdf, err := s.renderer.RenderPDF(renderCtx, html)
	monitoring.ReportsGenerated.WithLabelValues(monitoring.Outcome(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("render report pdf: %w", err)
	}

	logger.Log.Info("Report generated",
		zap.String("session", sessionID),
		zap.Int("questions", len(req.History)),
		zap.Int("bytes", len(pdf)),
		zap.Duration("elapsed", time.Since(start)))

	if s.archive && s.storage != nil {
		if _, err := s.archivePDF(ctx, sessionID, req, pdf); err != nil {
			logger.Log.Error("Failed to archive report", zap.String("session", sessionID), zap.Error(err))
		}
	}
	return pdf, nil
}

// ListReports 会话的归档记录，按时间倒序
func (s *ReportService) ListReports(ctx context.Context, sessionID string) ([]model.ReportRecord, error) {
	if s.records == nil || sessionID == "" {
		return []model.ReportRecord{}, nil
	}
	records, err := s.records.ListBySession(sessionID, reportListLimit)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []model.ReportRecord{}
	}
	return records, nil
}

func (s *ReportService) archivePDF(ctx context.Context, sessionID string, req ReportRequest, pdf []byte) (*model.ReportRecord, error) {
	owner := sessionID
	if owner == "" {
		owner = "anonymous"
	}
	objectKey := path.Join("reports", owner, uuid.NewString()+".pdf")

	url, err := s.storage.Upload(ctx, objectKey, bytes.NewReader(pdf), int64(len(pdf)), util.MimePDF)
	if err != nil {
		return nil, fmt.Errorf("upload report: %w", err)
	}

	record := &model.ReportRecord{
		SessionID:    sessionID,
		Questions:    questionCount(req),
		AverageScore: averageScore(req),
		ObjectKey:    objectKey,
		URL:          url,
	}
	if s.records != nil {
		if err := s.records.Create(record); err != nil {
			if delErr := s.storage.Delete(ctx, objectKey); delErr != nil {
				logger.Log.Warn("Failed to remove orphaned report", zap.String("key", objectKey), zap.Error(delErr))
			}
			return nil, fmt.Errorf("save report record: %w", err)
		}
	}

	logger.Log.Info("Report archived", zap.String("session", sessionID), zap.String("key", objectKey))
	return record, nil
}

func questionCount(req ReportRequest) int {
	if req.Summary.Count != nil {
		return *req.Summary.Count
	}
	return len(req.History)
}

// averageScore 优先使用前端汇总值，缺失时按已评分题目计算
func averageScore(req ReportRequest) int {
	if req.Summary.AverageScore != nil {
		return *req.Summary.AverageScore
	}
	total, n := 0, 0
	for _, item := range req.History {
		if item.Score != nil {
			total += *item.Score
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(n)))
}
