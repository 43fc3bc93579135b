package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"mockview_backend/internal/model"
	"mockview_backend/internal/repository"
	"mockview_backend/internal/util"
	"mockview_backend/pkg/logger"
	"mockview_backend/pkg/monitoring"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CustomInterviewSize 定制面试的目标题量
const CustomInterviewSize = 5

const (
	AskStatusQuestion = "question"
	AskStatusComplete = "complete"
)

type StartRequest struct {
	Topic               string   `json:"topic"`
	Persona             string   `json:"persona"`
	GloballyAnsweredIDs []string `json:"globally_answered_ids"`
}

type StartCustomRequest struct {
	JDText  string `json:"jd_text"`
	Persona string `json:"persona"`
}

type StartResult struct {
	SessionID string   `json:"-"`
	Message   string   `json:"message"`
	Skills    []string `json:"skills,omitempty"`
}

type AskResult struct {
	Status     string           `json:"status"`
	ID         string           `json:"id,omitempty"`
	Question   string           `json:"question,omitempty"`
	Difficulty model.Difficulty `json:"difficulty,omitempty"`
	Message    string           `json:"message,omitempty"`
}

type AnswerResult struct {
	Feedback    string                 `json:"feedback"`
	Score       int                    `json:"score"`
	ModelAnswer string                 `json:"model_answer"`
	Source      model.EvaluationSource `json:"source"`
}

type InterviewService struct {
	store     repository.SessionStore
	router    *QuestionRouter
	evaluator *Evaluator
	ai        *AIService
	intn      func(n int) int
	now       func() time.Time
}

func NewInterviewService(store repository.SessionStore, router *QuestionRouter, evaluator *Evaluator, ai *AIService) *InterviewService {
	return &InterviewService{
		store:     store,
		router:    router,
		evaluator: evaluator,
		ai:        ai,
		intn:      rand.IntN,
		now:       time.Now,
	}
}

// Start 开始按主题的面试；已有会话则复用其ID并清空进度
func (s *InterviewService) Start(ctx context.Context, sessionID string, req StartRequest) (*StartResult, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, util.ErrTopicRequired
	}

	session, err := s.loadOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session.Reset(model.ModeTopic, model.ParsePersona(req.Persona))
	session.Topic = topic
	session.GloballyAnsweredIDs = append([]string(nil), req.GloballyAnsweredIDs...)

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	logger.Log.Info("Interview started",
		zap.String("session", session.ID),
		zap.String("topic", topic),
		zap.String("persona", string(session.Persona)),
		zap.Int("globally_answered", len(session.GloballyAnsweredIDs)))

	return &StartResult{
		SessionID: session.ID,
		Message:   fmt.Sprintf("Interview started for topic: %s", topic),
	}, nil
}

// StartCustom 根据职位描述提取技能并组卷：先按标签匹配题库，不足时由模型补题
func (s *InterviewService) StartCustom(ctx context.Context, sessionID string, req StartCustomRequest) (*StartResult, error) {
	if strings.TrimSpace(req.JDText) == "" {
		return nil, util.ErrJobDescriptionRequired
	}
	persona := model.ParsePersona(req.Persona)

	skills, err := s.ai.ExtractSkills(ctx, req.JDText)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrNoSkillsExtracted, err)
	}
	if len(skills) == 0 {
		return nil, util.ErrNoSkillsExtracted
	}

	picked := make(model.IDSet)
	questions := make([]model.Question, 0, CustomInterviewSize)
	for _, skill := range skills {
		q, ok := s.router.FindQuestionByTag(skill, picked)
		if !ok {
			continue
		}
		picked.Add(q.ID)
		questions = append(questions, *q)
	}
	matched := len(questions)

	// 模型不可用时最多尝试 2 倍目标次数，避免死循环
	for attempt := 0; len(questions) < CustomInterviewSize && len(questions) < len(skills) && attempt < 2*CustomInterviewSize; attempt++ {
		skill := skills[s.intn(len(skills))]
		q, err := s.ai.DynamicQuestion(ctx, skill, persona)
		if err != nil {
			continue
		}
		questions = append(questions, *q)
	}

	if len(questions) == 0 {
		return nil, util.ErrCustomInterviewFailed
	}

	session, err := s.loadOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session.Reset(model.ModeCustom, persona)
	session.Skills = skills
	session.CustomQuestions = questions

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	logger.Log.Info("Custom interview created",
		zap.String("session", session.ID),
		zap.Strings("skills", skills),
		zap.Int("matched", matched),
		zap.Int("generated", len(questions)-matched))

	return &StartResult{
		SessionID: session.ID,
		Message:   fmt.Sprintf("Custom interview created based on skills: %s", strings.Join(skills, ", ")),
		Skills:    skills,
	}, nil
}

// Ask 出下一道题；题库耗尽时尝试动态生成，仍无题则面试结束
func (s *InterviewService) Ask(ctx context.Context, sessionID string) (*AskResult, error) {
	session, err := s.load(ctx, sessionID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return nil, util.ErrSessionNotStarted
	}
	if err != nil {
		return nil, err
	}

	var (
		question *model.Question
		source   string
	)

	if session.Mode == model.ModeCustom {
		if session.CustomIndex >= len(session.CustomQuestions) {
			return &AskResult{
				Status:  AskStatusComplete,
				Message: "Congratulations! You've finished your custom interview.",
			}, nil
		}
		q := session.CustomQuestions[session.CustomIndex]
		session.CustomIndex++
		question, source = &q, "custom"
	} else {
		var ok bool
		question, ok = s.router.GetQuestion(session.Topic, session.ExcludedIDs())
		source = "bank"
		if !ok {
			question, err = s.ai.DynamicQuestion(ctx, session.Topic, session.Persona)
			source = "dynamic"
			if err != nil {
				return &AskResult{
					Status:  AskStatusComplete,
					Message: fmt.Sprintf("Congratulations! You've finished all available questions for the %s topic.", strings.ToUpper(session.Topic)),
				}, nil
			}
		}
	}

	session.AskedIDs = append(session.AskedIDs, question.ID)
	session.CurrentQuestion = question
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	monitoring.QuestionsServed.WithLabelValues(source).Inc()

	logger.Log.Debug("Question served",
		zap.String("session", session.ID),
		zap.String("question", question.ID),
		zap.String("source", source))

	return &AskResult{
		Status:     AskStatusQuestion,
		ID:         question.ID,
		Question:   question.Question,
		Difficulty: question.Difficulty,
	}, nil
}

// Answer 评估待答题目并清除待答状态
func (s *InterviewService) Answer(ctx context.Context, sessionID, answer string) (*AnswerResult, error) {
	session, err := s.load(ctx, sessionID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return nil, util.ErrNoActiveQuestion
	}
	if err != nil {
		return nil, err
	}
	if session.CurrentQuestion == nil {
		return nil, util.ErrNoActiveQuestion
	}
	if strings.TrimSpace(answer) == "" {
		return nil, util.ErrEmptyAnswer
	}

	pending := session.CurrentQuestion
	result := s.evaluator.Evaluate(ctx, answer, pending.Answer, pending.Question, session.Persona, true)

	session.CurrentQuestion = nil
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	logger.Log.Info("Answer evaluated",
		zap.String("session", session.ID),
		zap.String("question", pending.ID),
		zap.Int("score", result.Score),
		zap.String("source", string(result.Source)))

	return &AnswerResult{
		Feedback:    result.Feedback,
		Score:       result.Score,
		ModelAnswer: pending.Answer,
		Source:      result.Source,
	}, nil
}

func (s *InterviewService) Hint(ctx context.Context, persona model.Persona, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", util.ErrQuestionRequired
	}
	return s.ai.Hint(ctx, question, persona), nil
}

func (s *InterviewService) Explain(ctx context.Context, persona model.Persona, question, answer string) (string, error) {
	if strings.TrimSpace(question) == "" || strings.TrimSpace(answer) == "" {
		return "", util.ErrQuestionAnswerRequired
	}
	return s.ai.Explain(ctx, question, answer, persona), nil
}

// Persona 当前会话的面试官人设，无会话时为 Neutral
func (s *InterviewService) Persona(ctx context.Context, sessionID string) model.Persona {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return model.PersonaNeutral
	}
	return model.ParsePersona(string(session.Persona))
}

func (s *InterviewService) load(ctx context.Context, sessionID string) (*model.InterviewSession, error) {
	if sessionID == "" {
		return nil, repository.ErrSessionNotFound
	}
	return s.store.Get(ctx, sessionID)
}

func (s *InterviewService) loadOrCreate(ctx context.Context, sessionID string) (*model.InterviewSession, error) {
	session, err := s.load(ctx, sessionID)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, repository.ErrSessionNotFound) {
		return nil, err
	}
	return &model.InterviewSession{ID: uuid.NewString(), CreatedAt: s.now()}, nil
}

func (s *InterviewService) save(ctx context.Context, session *model.InterviewSession) error {
	session.UpdatedAt = s.now()
	if err := s.store.Save(ctx, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
