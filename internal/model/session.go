package model

import "time"

type Persona string

const (
	PersonaNeutral  Persona = "Neutral"
	PersonaFriendly Persona = "Friendly"
	PersonaStrict   Persona = "Strict"
)

// ParsePersona 未知取值一律按 Neutral 处理
func ParsePersona(s string) Persona {
	switch Persona(s) {
	case PersonaFriendly, PersonaStrict:
		return Persona(s)
	default:
		return PersonaNeutral
	}
}

type InterviewMode string

const (
	ModeTopic  InterviewMode = "topic"
	ModeCustom InterviewMode = "custom"
)

// InterviewSession 单个用户的面试会话状态，每次请求从 SessionStore 读出并写回
type InterviewSession struct {
	ID                  string        `json:"id"`
	Persona             Persona       `json:"persona"`
	Mode                InterviewMode `json:"mode"`
	Topic               string        `json:"topic,omitempty"`
	GloballyAnsweredIDs []string      `json:"globally_answered_ids,omitempty"`
	AskedIDs            []string      `json:"asked_ids"`
	Skills              []string      `json:"skills,omitempty"`
	CustomQuestions     []Question    `json:"custom_questions,omitempty"`
	CustomIndex         int           `json:"custom_index"`
	CurrentQuestion     *Question     `json:"current_question,omitempty"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

// ExcludedIDs 本轮已问过的题与历史已答题的并集
func (s *InterviewSession) ExcludedIDs() IDSet {
	return NewIDSet(s.AskedIDs, s.GloballyAnsweredIDs)
}

// Reset 开始新一轮面试时清空进度，保留会话ID与创建时间
func (s *InterviewSession) Reset(mode InterviewMode, persona Persona) {
	s.Mode = mode
	s.Persona = persona
	s.Topic = ""
	s.GloballyAnsweredIDs = nil
	s.AskedIDs = []string{}
	s.Skills = nil
	s.CustomQuestions = nil
	s.CustomIndex = 0
	s.CurrentQuestion = nil
}
