// Package register collects setup hooks that packages contribute from init,
// such as the cron jobs of serve mode, grouped under a key type.
package register

import (
	"fmt"
	"sync"
)

// Hook is one named setup function for a provider of type T.
type Hook[T any] struct {
	Name  string
	Setup func(T)
}

type registry struct {
	mu    sync.Mutex
	hooks map[any][]any
	names map[any]map[string]struct{}
}

var reg = &registry{
	hooks: make(map[any][]any),
	names: make(map[any]map[string]struct{}),
}

// Add registers setup under key. Names are unique per key; a duplicate is a
// programming error and panics, like a second driver registration would.
func Add[T any](key any, name string, setup func(T)) {
	if setup == nil {
		panic("register: nil setup for " + name)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if reg.names[key] == nil {
		reg.names[key] = make(map[string]struct{})
	}
	if _, exist := reg.names[key][name]; exist {
		panic(fmt.Sprintf("register: duplicate hook %q for %T", name, key))
	}
	reg.names[key][name] = struct{}{}
	reg.hooks[key] = append(reg.hooks[key], Hook[T]{Name: name, Setup: setup})
}

// Resolve returns the hooks registered under key for providers of type T, in
// registration order. Hooks for other provider types are skipped.
func Resolve[T any](key any) []Hook[T] {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	var result []Hook[T]
	for _, v := range reg.hooks[key] {
		if h, ok := v.(Hook[T]); ok {
			result = append(result, h)
		}
	}
	return result
}
