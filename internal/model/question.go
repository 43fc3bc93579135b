package model

import "strings"

type Difficulty string

const (
	DifficultyEasy    Difficulty = "easy"
	DifficultyMedium  Difficulty = "medium"
	DifficultyHard    Difficulty = "hard"
	DifficultyDynamic Difficulty = "dynamic"
)

// Question 题库中的一道面试题，加载后不可变
type Question struct {
	ID         string     `json:"id" yaml:"id"`
	Question   string     `json:"question" yaml:"question"`
	Answer     string     `json:"answer" yaml:"answer"`
	Difficulty Difficulty `json:"difficulty" yaml:"difficulty"`
	Tags       []string   `json:"tags" yaml:"tags"`
}

// HasTag 大小写不敏感地匹配标签
func (q *Question) HasTag(tag string) bool {
	for _, t := range q.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// IDSet 已出现过的题目ID集合
type IDSet map[string]struct{}

func NewIDSet(groups ...[]string) IDSet {
	s := make(IDSet)
	for _, ids := range groups {
		for _, id := range ids {
			s[id] = struct{}{}
		}
	}
	return s
}

func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) Add(id string) {
	s[id] = struct{}{}
}
