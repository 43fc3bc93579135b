package repository

import (
	"mockview_backend/internal/model"

	"gorm.io/gorm"
)

type ReportRepository struct {
	DB *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{DB: db}
}

func (r *ReportRepository) Create(record *model.ReportRecord) error {
	return r.DB.Create(record).Error
}

func (r *ReportRepository) ListBySession(sessionID string, limit int) ([]model.ReportRecord, error) {
	var records []model.ReportRecord
	err := r.DB.Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}
