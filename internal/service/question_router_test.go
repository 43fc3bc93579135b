package service

import (
	"fmt"
	"os"
	"testing"

	"mockview_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySource struct {
	topics map[string][]model.Question
	order  []string
}

func (m *memorySource) ListTopics() ([]string, error) {
	return m.order, nil
}

func (m *memorySource) LoadTopic(topic string) ([]model.Question, error) {
	qs, ok := m.topics[topic]
	if !ok {
		return nil, fmt.Errorf("topic %q: %w", topic, os.ErrNotExist)
	}
	return qs, nil
}

func newTestSource() *memorySource {
	return &memorySource{
		order: []string{"dsa", "cpp"},
		topics: map[string][]model.Question{
			"dsa": {
				{ID: "dsa-001", Question: "What is an array?", Answer: "...", Difficulty: model.DifficultyEasy, Tags: []string{"Arrays"}},
				{ID: "dsa-002", Question: "What is a binary tree?", Answer: "...", Difficulty: model.DifficultyMedium, Tags: []string{"Trees"}},
			},
			"cpp": {
				{ID: "cpp-001", Question: "What is std::vector?", Answer: "...", Difficulty: model.DifficultyEasy, Tags: []string{"STL"}},
				{ID: "cpp-002", Question: "What is std::map?", Answer: "...", Difficulty: model.DifficultyMedium, Tags: []string{"stl", "Trees"}},
			},
		},
	}
}

// 固定顺序，便于断言
func noShuffle(int, func(i, j int)) {}

func TestGetQuestion(t *testing.T) {
	router := NewQuestionRouter(newTestSource())

	q, ok := router.GetQuestion("dsa", nil)
	require.True(t, ok)
	assert.Contains(t, []string{"dsa-001", "dsa-002"}, q.ID)

	q, ok = router.GetQuestion("dsa", model.NewIDSet([]string{"dsa-001"}))
	require.True(t, ok)
	assert.Equal(t, "dsa-002", q.ID)

	_, ok = router.GetQuestion("dsa", model.NewIDSet([]string{"dsa-001", "dsa-002"}))
	assert.False(t, ok, "exhausted topic must return none")

	_, ok = router.GetQuestion("python", nil)
	assert.False(t, ok, "missing topic is treated as empty")
}

func TestGetQuestionNeverReturnsExcluded(t *testing.T) {
	router := NewQuestionRouter(newTestSource())
	excluded := model.NewIDSet([]string{"cpp-001"})

	for i := 0; i < 200; i++ {
		q, ok := router.GetQuestion("cpp", excluded)
		require.True(t, ok)
		assert.Equal(t, "cpp-002", q.ID)
	}
}

func TestGetQuestionUniformChoice(t *testing.T) {
	router := NewQuestionRouter(newTestSource())
	router.intn = func(n int) int { return n - 1 }

	q, ok := router.GetQuestion("dsa", nil)
	require.True(t, ok)
	assert.Equal(t, "dsa-002", q.ID)
}

func TestGetQuestionReturnsCopy(t *testing.T) {
	source := newTestSource()
	router := NewQuestionRouter(source)
	excluded := model.NewIDSet([]string{"dsa-002"})

	q, ok := router.GetQuestion("dsa", excluded)
	require.True(t, ok)
	q.Question = "mutated"

	assert.Equal(t, "What is an array?", source.topics["dsa"][0].Question)
}

func TestFindQuestionByTag(t *testing.T) {
	router := NewQuestionRouter(newTestSource())
	router.shuffle = noShuffle

	q, ok := router.FindQuestionByTag("stl", nil)
	require.True(t, ok)
	assert.Equal(t, "cpp-001", q.ID, "first match in file order")

	q, ok = router.FindQuestionByTag("STL", model.NewIDSet([]string{"cpp-001"}))
	require.True(t, ok)
	assert.Equal(t, "cpp-002", q.ID)

	q, ok = router.FindQuestionByTag("trees", nil)
	require.True(t, ok)
	assert.Equal(t, "dsa-002", q.ID, "first topic in visiting order wins")

	_, ok = router.FindQuestionByTag("Kubernetes", nil)
	assert.False(t, ok)
}

func TestFindQuestionByTagSkipsBrokenTopics(t *testing.T) {
	source := newTestSource()
	source.order = []string{"missing", "cpp"}
	router := NewQuestionRouter(source)
	router.shuffle = noShuffle

	q, ok := router.FindQuestionByTag("STL", nil)
	require.True(t, ok)
	assert.Equal(t, "cpp-001", q.ID)
}

func TestFindQuestionByTagDoesNotReorderSource(t *testing.T) {
	source := newTestSource()
	router := NewQuestionRouter(source)

	for i := 0; i < 10; i++ {
		router.FindQuestionByTag("Arrays", nil)
	}
	assert.Equal(t, []string{"dsa", "cpp"}, source.order)
}
