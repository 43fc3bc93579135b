package service

import (
	"context"
	"math"

	"mockview_backend/internal/model"
	"mockview_backend/internal/util"
	"mockview_backend/pkg/logger"
	"mockview_backend/pkg/monitoring"

	"go.uber.org/zap"
)

const (
	feedbackEmptyModel = "Cannot evaluate as model answer is empty."
	feedbackExcellent  = "Excellent! Your answer is very comprehensive."
	feedbackGood       = "Good start. You've covered the main points, but you could add more detail."
	feedbackMissing    = "Your answer seems to be missing some key concepts. Compare it with the model answer."
)

// Scorer 大模型评分接口，由 AIService 实现
type Scorer interface {
	Enabled() bool
	Score(ctx context.Context, userAnswer, modelAnswer, question string, persona model.Persona) (model.EvaluationResult, error)
}

type Evaluator struct {
	scorer Scorer
}

func NewEvaluator(scorer Scorer) *Evaluator {
	return &Evaluator{scorer: scorer}
}

// Evaluate 优先使用大模型评分，任何失败都回退到关键词匹配
func (e *Evaluator) Evaluate(ctx context.Context, userAnswer, modelAnswer, question string, persona model.Persona, useLLM bool) model.EvaluationResult {
	if useLLM && e.scorer != nil && e.scorer.Enabled() {
		result, err := e.scorer.Score(ctx, userAnswer, modelAnswer, question, persona)
		if err == nil {
			monitoring.Evaluations.WithLabelValues(string(model.SourceLLM)).Inc()
			return result
		}
		logger.Log.Warn("LLM evaluation failed, falling back to keyword matching",
			zap.String("persona", string(persona)), zap.Error(err))
	}

	result := EvaluateWithKeywords(userAnswer, modelAnswer)
	monitoring.Evaluations.WithLabelValues(string(model.SourceKeywords)).Inc()
	return result
}

// EvaluateWithKeywords 按模型答案词集合的覆盖率打分，分档依据未取整的比例
func EvaluateWithKeywords(userAnswer, modelAnswer string) model.EvaluationResult {
	modelWords := util.WordSet(modelAnswer)
	if len(modelWords) == 0 {
		return model.EvaluationResult{Feedback: feedbackEmptyModel, Score: 0, Source: model.SourceKeywords}
	}

	userWords := util.WordSet(userAnswer)
	common := 0
	for w := range userWords {
		if _, ok := modelWords[w]; ok {
			common++
		}
	}

	ratio := float64(common) / float64(len(modelWords)) * 100
	var feedback string
	switch {
	case ratio >= 80:
		feedback = feedbackExcellent
	case ratio >= 50:
		feedback = feedbackGood
	default:
		feedback = feedbackMissing
	}

	return model.EvaluationResult{
		Feedback: feedback,
		Score:    int(math.RoundToEven(ratio)),
		Source:   model.SourceKeywords,
	}
}
