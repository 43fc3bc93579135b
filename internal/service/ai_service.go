package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"mockview_backend/internal/ai"
	"mockview_backend/internal/model"
	"mockview_backend/internal/util"
	"mockview_backend/pkg/logger"
	"mockview_backend/pkg/monitoring"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	HintFallback        = "Sorry, I couldn't generate a hint at this time."
	ExplanationFallback = "Sorry, I couldn't generate an explanation at this time."
)

// AIService 面试相关的大模型调用，每次调用单独超时，失败不重试
type AIService struct {
	generator ai.Generator
	timeout   time.Duration
}

func NewAIService(generator ai.Generator, timeout time.Duration) *AIService {
	if generator == nil {
		generator = ai.Disabled{}
	}
	return &AIService{generator: generator, timeout: timeout}
}

// Enabled 是否配置了可用的大模型
func (s *AIService) Enabled() bool {
	if s == nil {
		return false
	}
	_, disabled := s.generator.(ai.Disabled)
	return !disabled
}

func (s *AIService) Model() string {
	return s.generator.Model()
}

// ExtractSkills 从职位描述中提取 5-7 个技术技能
func (s *AIService) ExtractSkills(ctx context.Context, jdText string) ([]string, error) {
	prompt := fmt.Sprintf(`From the following job description, extract the 5 to 7 most important technical skills, programming languages, and key concepts.
Return them as a valid JSON list of strings. Do not include soft skills. Job Description: "%s"`, jdText)

	raw, err := s.call(ctx, "extract_skills", true, prompt)
	if err != nil {
		return nil, err
	}

	skills, err := decodeStringList(raw)
	if err != nil {
		logger.Log.Warn("Unparseable skills response", zap.String("response", util.TruncateForLog(raw, 200)), zap.Error(err))
		return nil, err
	}

	logger.Log.Info("Skills extracted from job description", zap.Strings("skills", skills))
	return skills, nil
}

// DynamicQuestion 题库耗尽或技能无匹配时现场生成一道中等难度题目
func (s *AIService) DynamicQuestion(ctx context.Context, topic string, persona model.Persona) (*model.Question, error) {
	prompt := fmt.Sprintf(`%s
Generate a single, new, medium-difficulty technical interview question about '%s'.
The question should be unique and not a simple definition.
Return your response as a valid JSON object with two keys: "question" and "answer".
The "answer" should be concise and accurate (2-4 sentences).`, assistantPrompt(persona), topic)

	raw, err := s.call(ctx, "dynamic_question", true, prompt)
	if err != nil {
		return nil, err
	}

	var payload map[string]any
	if err := ai.DecodeJSON(raw, &payload); err != nil {
		return nil, err
	}
	question := ai.CoerceString(payload["question"])
	answer := ai.CoerceString(payload["answer"])
	if question == "" || answer == "" {
		return nil, errors.New("dynamic question response is missing question or answer")
	}

	return &model.Question{
		ID:         fmt.Sprintf("dynamic-%d-%s", time.Now().Unix(), uuid.NewString()[:8]),
		Question:   question,
		Answer:     answer,
		Difficulty: model.DifficultyDynamic,
		Tags:       []string{topic},
	}, nil
}

// Hint 一句话提示，不直接给出答案；失败时返回固定致歉语
func (s *AIService) Hint(ctx context.Context, question string, persona model.Persona) string {
	prompt := fmt.Sprintf(`%s
The user is stuck on the following technical interview question: "%s"
Your task is to provide a single, concise, one-sentence hint that guides the user toward the main concept, but does NOT give away the answer.`, assistantPrompt(persona), question)

	hint, err := s.call(ctx, "hint", false, prompt)
	if err != nil {
		return HintFallback
	}
	return hint
}

func (s *AIService) Explain(ctx context.Context, question, answer string, persona model.Persona) string {
	prompt := fmt.Sprintf(`Act as a patient and knowledgeable computer science tutor, with the personality of a %s interviewer.
A user has just seen the answer to an interview question and wants to understand the core concept better.
The question was: "%s"
The correct answer provided was: "%s"
Your task is to explain the underlying concept in a simple, easy-to-understand way, matching your persona. Use an analogy if it helps.`, persona, question, answer)

	explanation, err := s.call(ctx, "explain", false, prompt)
	if err != nil {
		return ExplanationFallback
	}
	return explanation
}

// Score 让模型按人设给出 0-100 分与点评，分数越界时截断
func (s *AIService) Score(ctx context.Context, userAnswer, modelAnswer, question string, persona model.Persona) (model.EvaluationResult, error) {
	prompt := fmt.Sprintf(`%s

You are evaluating a user's answer to a technical interview question.

**The Question:**
"%s"

**The Ideal Model Answer:**
"%s"

**The User's Answer:**
"%s"

**Your Tasks:**
1.  **Score:** Provide a numerical score from 0 to 100 based on the technical accuracy, completeness, and clarity of the user's answer compared to the model answer.
2.  **Feedback:** Provide concise, constructive feedback based on your assigned persona. Explain what was good and what could be improved.

**Return your response as a valid JSON object with two keys: "score" (an integer) and "feedback" (a string).**`,
		interviewerPrompt(persona), question, modelAnswer, userAnswer)

	raw, err := s.call(ctx, "score", true, prompt)
	if err != nil {
		return model.EvaluationResult{}, err
	}

	var payload map[string]any
	if err := ai.DecodeJSON(raw, &payload); err != nil {
		return model.EvaluationResult{}, err
	}

	score := ai.CoerceFloat(payload["score"])
	if math.IsNaN(score) {
		return model.EvaluationResult{}, fmt.Errorf("score response has no numeric score: %s", util.TruncateForLog(raw, 120))
	}
	feedback := ai.CoerceString(payload["feedback"])
	if feedback == "" {
		return model.EvaluationResult{}, errors.New("score response has no feedback")
	}

	return model.EvaluationResult{
		Feedback: feedback,
		Score:    clampScore(int(math.Round(score))),
		Source:   model.SourceLLM,
	}, nil
}

// GenerateQuestions 为题库批量生成题目，供命令行工具使用
func (s *AIService) GenerateQuestions(ctx context.Context, topic string, count int, difficulty model.Difficulty) ([]model.Question, error) {
	prefix := TopicPrefix(topic)
	prompt := fmt.Sprintf(`Generate exactly %d technical interview questions about '%s'.

For each question, provide:
1. A unique 'id' starting with the prefix '%s-' followed by a three-digit number.
2. The 'question' itself.
3. A concise, accurate 'answer' (around 2-4 sentences).
4. A 'difficulty' level, which should be '%s'.
5. A list of 'tags' including '%s'.

Return the output as a valid JSON object containing a single key "questions"
which holds a list of the question objects. Do not include any text, markdown formatting,
or wrappers before or after the JSON object itself.`, count, topic, prefix, difficulty, topic)

	raw, err := s.call(ctx, "generate_questions", true, prompt)
	if err != nil {
		return nil, err
	}

	var wrapped struct {
		Questions []model.Question `json:"questions"`
	}
	extracted := ai.ExtractJSON(raw)
	if err := json.Unmarshal([]byte(extracted), &wrapped); err != nil || len(wrapped.Questions) == 0 {
		// 部分模型直接返回数组
		if listErr := json.Unmarshal([]byte(extracted), &wrapped.Questions); listErr != nil {
			return nil, fmt.Errorf("parse generated questions: %w", listErr)
		}
	}

	questions := make([]model.Question, 0, len(wrapped.Questions))
	for _, q := range wrapped.Questions {
		if strings.TrimSpace(q.Question) == "" {
			continue
		}
		if q.Difficulty == "" {
			q.Difficulty = difficulty
		}
		if !q.HasTag(topic) {
			q.Tags = append(q.Tags, topic)
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return nil, errors.New("model returned no questions")
	}
	return questions, nil
}

// TopicPrefix 题目ID前缀：主题首个单词小写，+ 替换为 p（C++ -> cpp）
func TopicPrefix(topic string) string {
	fields := strings.Fields(topic)
	if len(fields) == 0 {
		return ""
	}
	return strings.ReplaceAll(strings.ToLower(fields[0]), "+", "p")
}

func (s *AIService) call(ctx context.Context, operation string, jsonMode bool, prompt string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	var (
		out string
		err error
	)
	if jsonMode {
		out, err = s.generator.GenerateJSON(ctx, prompt)
	} else {
		out, err = s.generator.Generate(ctx, prompt)
	}
	out = strings.TrimSpace(out)
	if err == nil && out == "" {
		err = errors.New("empty model response")
	}

	outcome := monitoring.Outcome(err)
	if errors.Is(err, util.ErrAIUnavailable) {
		outcome = "disabled"
	}
	monitoring.LLMRequests.WithLabelValues(operation, outcome).Inc()

	if err != nil {
		if outcome != "disabled" {
			logger.Log.Warn("LLM request failed",
				zap.String("operation", operation),
				zap.String("model", s.generator.Model()),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err))
		}
		return "", err
	}

	logger.Log.Debug("LLM request succeeded",
		zap.String("operation", operation),
		zap.Duration("elapsed", time.Since(start)),
		zap.String("prompt", util.TruncateForLog(prompt, 80)))
	return out, nil
}

// decodeStringList 兼容 JSON 数组和 {"skills": [...]} 两种返回
func decodeStringList(raw string) ([]string, error) {
	var payload any
	if err := ai.DecodeJSON(raw, &payload); err != nil {
		return nil, err
	}

	var items []any
	switch v := payload.(type) {
	case []any:
		items = v
	case map[string]any:
		for _, value := range v {
			if list, ok := value.([]any); ok {
				items = list
				break
			}
		}
	}
	if items == nil {
		return nil, errors.New("response is not a JSON list")
	}

	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		skill := ai.CoerceString(item)
		if skill == "" {
			continue
		}
		key := strings.ToLower(skill)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, skill)
	}
	return out, nil
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
