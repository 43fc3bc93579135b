package model

// ReportItem 报告中的单题记录，字段名与前端 sessionHistory 保持一致
type ReportItem struct {
	Question    string `json:"question"`
	UserAnswer  string `json:"userAnswer"`
	Score       *int   `json:"score"`
	Feedback    string `json:"feedback"`
	ModelAnswer string `json:"modelAnswer"`
}

type ReportSummary struct {
	Count        *int `json:"count"`
	AverageScore *int `json:"average_score"`
}

// ReportRecord 归档报告的元数据
type ReportRecord struct {
	UUIDBase
	SessionID    string `gorm:"size:36;index" json:"sessionId"`
	Questions    int    `json:"questions"`
	AverageScore int    `json:"averageScore"`
	ObjectKey    string `gorm:"size:255" json:"objectKey"`
	URL          string `gorm:"size:512" json:"url"`
}

func (ReportRecord) TableName() string {
	return "interview_reports"
}
