package service

import (
	"math/rand/v2"

	"mockview_backend/internal/model"
	"mockview_backend/pkg/logger"

	"go.uber.org/zap"
)

// QuestionSource 题库读取接口，由 repository.QuestionRepository 实现
type QuestionSource interface {
	ListTopics() ([]string, error)
	LoadTopic(topic string) ([]model.Question, error)
}

// QuestionRouter 在题库中挑选未被排除的题目
type QuestionRouter struct {
	source  QuestionSource
	intn    func(n int) int
	shuffle func(n int, swap func(i, j int))
}

func NewQuestionRouter(source QuestionSource) *QuestionRouter {
	return &QuestionRouter{
		source:  source,
		intn:    rand.IntN,
		shuffle: rand.Shuffle,
	}
}

// GetQuestion 从主题中均匀随机选一道未排除的题；主题文件缺失或损坏按空主题处理
func (r *QuestionRouter) GetQuestion(topic string, excluded model.IDSet) (*model.Question, bool) {
	questions, err := r.source.LoadTopic(topic)
	if err != nil {
		logger.Log.Error("Failed to load question topic", zap.String("topic", topic), zap.Error(err))
		return nil, false
	}

	available := make([]int, 0, len(questions))
	for i := range questions {
		if !excluded.Has(questions[i].ID) {
			available = append(available, i)
		}
	}
	if len(available) == 0 {
		return nil, false
	}

	q := questions[available[r.intn(len(available))]]
	return &q, true
}

// FindQuestionByTag 按随机主题顺序查找第一道带有该标签且未排除的题目
func (r *QuestionRouter) FindQuestionByTag(tag string, excluded model.IDSet) (*model.Question, bool) {
	topics, err := r.source.ListTopics()
	if err != nil {
		logger.Log.Error("Failed to list question topics", zap.Error(err))
		return nil, false
	}

	order := append([]string(nil), topics...)
	r.shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	for _, topic := range order {
		questions, err := r.source.LoadTopic(topic)
		if err != nil {
			logger.Log.Warn("Skipping unreadable topic", zap.String("topic", topic), zap.Error(err))
			continue
		}
		for i := range questions {
			if questions[i].HasTag(tag) && !excluded.Has(questions[i].ID) {
				q := questions[i]
				return &q, true
			}
		}
	}
	return nil, false
}
