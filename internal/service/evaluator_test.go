package service

import (
	"context"
	"errors"
	"testing"

	"mockview_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateWithKeywords(t *testing.T) {
	tests := []struct {
		name        string
		modelAnswer string
		userAnswer  string
		check       func(t *testing.T, r model.EvaluationResult)
	}{
		{
			name:        "comprehensive answer",
			modelAnswer: "Vector is a dynamic array with contiguous memory. List is a doubly-linked list.",
			userAnswer:  "A vector stores elements in contiguous memory like a dynamic array, while a list is essentially a doubly-linked list.",
			check: func(t *testing.T, r model.EvaluationResult) {
				assert.GreaterOrEqual(t, r.Score, 80)
				assert.Contains(t, r.Feedback, "Excellent")
			},
		},
		{
			name:        "partial answer",
			modelAnswer: "Smart pointers automate memory management, preventing leaks. Examples are unique_ptr and shared_ptr.",
			userAnswer:  "Smart pointers are for memory management, like unique_ptr.",
			check: func(t *testing.T, r model.EvaluationResult) {
				assert.Equal(t, 50, r.Score)
				assert.Contains(t, r.Feedback, "Good start")
			},
		},
		{
			name:        "mostly wrong answer",
			modelAnswer: "Normalization reduces data redundancy in a relational database.",
			userAnswer:  "It is something about making data fast.",
			check: func(t *testing.T, r model.EvaluationResult) {
				// 1/8 = 12.5，向偶数取整
				assert.Equal(t, 12, r.Score)
				assert.Contains(t, r.Feedback, "missing some key concepts")
			},
		},
		{
			name:        "case and punctuation insensitive",
			modelAnswer: "SQL's DELETE is a DML command; TRUNCATE is DDL.",
			userAnswer:  "sql delete is a dml command, truncate is ddl!!",
			check: func(t *testing.T, r model.EvaluationResult) {
				assert.Equal(t, 88, r.Score)
			},
		},
		{
			name:        "empty user answer",
			modelAnswer: "Anything",
			userAnswer:  "",
			check: func(t *testing.T, r model.EvaluationResult) {
				assert.Equal(t, 0, r.Score)
			},
		},
		{
			name:        "empty model answer",
			modelAnswer: " ?! ",
			userAnswer:  "anything at all",
			check: func(t *testing.T, r model.EvaluationResult) {
				assert.Equal(t, 0, r.Score)
				assert.Equal(t, "Cannot evaluate as model answer is empty.", r.Feedback)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := EvaluateWithKeywords(tt.userAnswer, tt.modelAnswer)
			assert.Equal(t, model.SourceKeywords, r.Source)
			assert.GreaterOrEqual(t, r.Score, 0)
			assert.LessOrEqual(t, r.Score, 100)
			tt.check(t, r)
		})
	}
}

func TestEvaluateWithKeywordsMonotonic(t *testing.T) {
	modelAnswer := "alpha beta gamma delta epsilon"
	answers := []string{"", "alpha", "alpha beta", "alpha beta gamma", "alpha beta gamma delta", "alpha beta gamma delta epsilon"}

	prev := -1
	for _, a := range answers {
		score := EvaluateWithKeywords(a, modelAnswer).Score
		assert.Greater(t, score, prev, "answer %q", a)
		prev = score
	}
	assert.Equal(t, 100, prev)
}

type stubScorer struct {
	enabled bool
	result  model.EvaluationResult
	err     error
	calls   int
	persona model.Persona
}

func (s *stubScorer) Enabled() bool { return s.enabled }

func (s *stubScorer) Score(_ context.Context, _, _, _ string, persona model.Persona) (model.EvaluationResult, error) {
	s.calls++
	s.persona = persona
	return s.result, s.err
}

func TestEvaluateUsesLLM(t *testing.T) {
	scorer := &stubScorer{enabled: true, result: model.EvaluationResult{Feedback: "solid", Score: 73, Source: model.SourceLLM}}
	e := NewEvaluator(scorer)

	r := e.Evaluate(context.Background(), "answer", "model", "question", model.PersonaStrict, true)
	assert.Equal(t, model.SourceLLM, r.Source)
	assert.Equal(t, 73, r.Score)
	assert.Equal(t, model.PersonaStrict, scorer.persona)
}

func TestEvaluateFallsBackToKeywords(t *testing.T) {
	tests := []struct {
		name   string
		scorer *stubScorer
		useLLM bool
		calls  int
	}{
		{"llm error", &stubScorer{enabled: true, err: errors.New("boom")}, true, 1},
		{"llm disabled", &stubScorer{enabled: false}, true, 0},
		{"llm not requested", &stubScorer{enabled: true}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEvaluator(tt.scorer)
			r := e.Evaluate(context.Background(), "alpha beta", "alpha beta", "q", model.PersonaNeutral, tt.useLLM)
			assert.Equal(t, model.SourceKeywords, r.Source)
			assert.Equal(t, 100, r.Score)
			assert.Equal(t, tt.calls, tt.scorer.calls)
		})
	}
}
