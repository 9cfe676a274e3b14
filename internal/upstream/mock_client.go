package upstream

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

type fixtureFile struct {
	Events []map[string]any `yaml:"events"`
}

// MockClient serves events from fixtures with the same wire format as the API
type MockClient struct {
	events []json.RawMessage
	ids    []string
}

// NewMockClient creates a mock client over the embedded fixtures
func NewMockClient() (*MockClient, error) {
	return NewMockClientFromYAML(defaultFixtures)
}

// NewMockClientFromYAML creates a mock client from a fixtures document
func NewMockClientFromYAML(data []byte) (*MockClient, error) {
	var f fixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}

	m := &MockClient{
		events: make([]json.RawMessage, 0, len(f.Events)),
		ids:    make([]string, 0, len(f.Events)),
	}
	for i, ev := range f.Events {
		raw, err := json.Marshal(ev)
		if err != nil {
			return nil, fmt.Errorf("fixture %d: %w", i, err)
		}
		m.events = append(m.events, raw)
		m.ids = append(m.ids, fixtureKey(ev))
	}
	return m, nil
}

// Name returns the client name
func (m *MockClient) Name() string {
	return string(ModeMock)
}

// ListEvents slices the fixtures by offset and limit
func (m *MockClient) ListEvents(ctx context.Context, offset, limit int) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if offset < 0 || limit <= 0 {
		return &Response{
			StatusCode: http.StatusUnprocessableEntity,
			Body:       []byte(`{"detail":[{"loc":["query","limit"],"msg":"offset must be >= 0 and limit > 0"}]}`),
		}, nil
	}

	page := []json.RawMessage{}
	if offset < len(m.events) {
		end := min(offset+limit, len(m.events))
		page = m.events[offset:end]
	}

	body, err := json.Marshal(map[string]any{"eventos": page})
	if err != nil {
		return nil, err
	}
	return &Response{StatusCode: http.StatusOK, Body: body}, nil
}

// GetEvent looks a fixture up by hashid, falling back to id
func (m *MockClient) GetEvent(ctx context.Context, hashID string) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, id := range m.ids {
		if id == hashID {
			return &Response{StatusCode: http.StatusOK, Body: m.events[i]}, nil
		}
	}
	return &Response{
		StatusCode: http.StatusNotFound,
		Body:       []byte(`{"detail":"Event not found"}`),
	}, nil
}

func fixtureKey(ev map[string]any) string {
	for _, key := range []string{"hashid", "hashId", "id"} {
		if s, ok := ev[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
