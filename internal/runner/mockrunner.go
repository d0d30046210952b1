package runner

import (
	"context"
	"strings"
	"time"
)

type MockCommand struct {
	Name    string
	Args    []string
	Timeout time.Duration
	Mode    Mode
}

type MockResponse struct {
	Output []byte
	Error  error
}

type MockRunner struct {
	Commands  []MockCommand
	Responses map[string]MockResponse
}

func NewMockRunner() *MockRunner {
	return &MockRunner{Responses: make(map[string]MockResponse)}
}

func (m *MockRunner) Run(
	_ context.Context,
	timeout time.Duration,
	mode Mode,
	name string,
	args ...string,
) ([]byte, error) {
	m.Commands = append(m.Commands, MockCommand{
		Name:    name,
		Args:    args,
		Timeout: timeout,
		Mode:    mode,
	})

	if resp, ok := m.Responses[cmdKey(name, args...)]; ok {
		return resp.Output, resp.Error
	}
	return []byte{}, nil
}

func (m *MockRunner) AddResponse(key string, output []byte, err error) {
	m.Responses[key] = MockResponse{Output: output, Error: err}
}

func cmdKey(name string, args ...string) string {
	return name + " " + strings.Join(args, " ")
}
