package command

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"
)

// Registry maps command names to handlers. Built-ins are the bot's own
// commands; modules are registered on top and win over a built-in with the
// same name. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	builtins map[string]Handler
	modules  map[string]Handler
}

// NewRegistry returns a registry holding only the help built-in.
func NewRegistry() *Registry {
	r := &Registry{
		builtins: make(map[string]Handler),
		modules:  make(map[string]Handler),
	}
	r.builtins["help"] = helpHandler{registry: r}
	return r
}

// RegisterCommand adds a module handler under name.
func (r *Registry) RegisterCommand(name string, h Handler) error {
	return r.register(r.modules, name, h)
}

// RegisterBuiltin adds a built-in handler under name.
func (r *Registry) RegisterBuiltin(name string, h Handler) error {
	return r.register(r.builtins, name, h)
}

func (r *Registry) register(into map[string]Handler, name string, h Handler) error {
	key, err := normalizeName(name)
	if err != nil {
		return err
	}
	if h == nil {
		return fmt.Errorf("registering command %q: nil handler", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	into[key] = h
	return nil
}

// Lookup finds the handler for a parsed keyword.
func (r *Registry) Lookup(keyword string) (Handler, bool) {
	if !strings.HasPrefix(keyword, Sentinel) {
		return nil, false
	}
	name := strings.TrimPrefix(keyword, Sentinel)

	r.mu.RLock()
	defer r.mu.RUnlock()
	if h, ok := r.modules[name]; ok {
		return h, true
	}
	h, ok := r.builtins[name]
	return h, ok
}

// Names lists every reachable command name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{}, len(r.builtins)+len(r.modules))
	for name := range r.builtins {
		seen[name] = struct{}{}
	}
	for name := range r.modules {
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// normalizeName lowercases name and rejects anything the parser could
// never produce as a keyword.
func normalizeName(name string) (string, error) {
	switch {
	case name == "":
		return "", fmt.Errorf("registering command: empty name")
	case strings.HasPrefix(name, Sentinel):
		return "", fmt.Errorf("registering command %q: name must not start with %q", name, Sentinel)
	case strings.IndexFunc(name, unicode.IsSpace) >= 0:
		return "", fmt.Errorf("registering command %q: name must be a single token", name)
	}
	return strings.ToLower(name), nil
}
