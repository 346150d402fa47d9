// Package tools exposes Taskdeck operations as named, JSON-argument tools.
// The registry is the integration surface for automation callers; each tool
// is a thin pass-through to one client method.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/deckhand/deckhand/internal/metrics"
)

// Handler executes a tool with raw JSON arguments.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// Tool is a registered operation.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	handler Handler
}

// Registry holds the registered tools.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*Tool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*Tool)}
}

// Register adds a tool. Re-registering a name replaces the previous tool.
func (r *Registry) Register(name, description string, handler Handler) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("tool name is required")
	}
	if handler == nil {
		return fmt.Errorf("tool %s: handler is required", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[name] = &Tool{Name: name, Description: description, handler: handler}
	return nil
}

// List returns the registered tools sorted by name.
func (r *Registry) List() []*Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		list = append(list, tool)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Invoke runs the named tool with the given arguments.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (any, error) {
	r.mu.RLock()
	tool, ok := r.tools[strings.TrimSpace(name)]
	r.mu.RUnlock()

	if !ok {
		metrics.RecordUnknownTool()
		return nil, &UnknownToolError{Name: name}
	}

	start := time.Now()
	out, err := tool.handler(ctx, args)
	metrics.RecordToolInvocation(tool.Name, err == nil, time.Since(start))
	return out, err
}

// UnknownToolError reports an invocation of an unregistered tool.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}

// decodeArgs unmarshals tool arguments into a typed struct. Empty
// arguments decode to the zero value.
func decodeArgs[T any](args json.RawMessage) (T, error) {
	var decoded T
	if len(args) == 0 {
		return decoded, nil
	}
	if err := json.Unmarshal(args, &decoded); err != nil {
		return decoded, &ArgumentError{Err: err}
	}
	return decoded, nil
}

// ArgumentError reports malformed tool arguments.
type ArgumentError struct {
	Err error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid tool arguments: %v", e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}
