package util

import "errors"

var (
	ErrSessionNotStarted      = errors.New("session not started")
	ErrNoActiveQuestion       = errors.New("no active question")
	ErrEmptyAnswer            = errors.New("no answer provided")
	ErrTopicRequired          = errors.New("topic not provided")
	ErrJobDescriptionRequired = errors.New("job description not provided")
	ErrNoSkillsExtracted      = errors.New("could not extract skills from the job description")
	ErrCustomInterviewFailed  = errors.New("could not generate a custom interview")
	ErrQuestionRequired       = errors.New("question not provided")
	ErrQuestionAnswerRequired = errors.New("question and answer not provided")
	ErrInvalidTopic           = errors.New("invalid topic name")
	ErrAIUnavailable          = errors.New("ai provider not configured")
	ErrRendererUnavailable    = errors.New("pdf renderer unavailable")
)
