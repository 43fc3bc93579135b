package model

type EvaluationSource string

const (
	SourceLLM      EvaluationSource = "llm"
	SourceKeywords EvaluationSource = "keywords"
)

// EvaluationResult 一次作答的评分结果，不落库
type EvaluationResult struct {
	Feedback string           `json:"feedback"`
	Score    int              `json:"score"`
	Source   EvaluationSource `json:"source"`
}
