package service

import (
	"context"
	"strings"
	"sync"

	"mockview_backend/internal/util"
)

// stubGenerator 按 prompt 中的关键字返回预设响应
type stubGenerator struct {
	mu        sync.Mutex
	responses map[string]string
	err       error
	prompts   []string
}

func newStubGenerator(responses map[string]string) *stubGenerator {
	return &stubGenerator{responses: responses}
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.respond(prompt)
}

func (g *stubGenerator) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	return g.respond(prompt)
}

func (g *stubGenerator) Model() string {
	return "stub"
}

func (g *stubGenerator) respond(prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	for key, resp := range g.responses {
		if strings.Contains(prompt, key) {
			return resp, nil
		}
	}
	return "", util.ErrAIUnavailable
}

func (g *stubGenerator) count(substr string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, p := range g.prompts {
		if strings.Contains(p, substr) {
			n++
		}
	}
	return n
}
