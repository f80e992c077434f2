package docgen

import (
	"context"
	"sort"
	"sync"

	"github.com/teranos/autobuild/config"
	"github.com/teranos/autobuild/errors"
)

// ResetHook clears cached state before each command's help is captured.
type ResetHook func(ctx context.Context) error

var (
	hooksMu sync.RWMutex
	hooks   = map[string]ResetHook{}
)

func init() {
	RegisterResetHook("config", func(context.Context) error {
		config.Reset()
		return nil
	})
}

// RegisterResetHook makes hook available to docs.reset_hook under name.
func RegisterResetHook(name string, hook ResetHook) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	hooks[name] = hook
}

// LookupResetHook returns the hook registered under name. An empty name
// returns a nil hook.
func LookupResetHook(name string) (ResetHook, error) {
	if name == "" {
		return nil, nil
	}
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	hook, ok := hooks[name]
	if !ok {
		return nil, errors.WithHintf(
			errors.Wrapf(errors.ErrInvalidConfig, "unknown docs.reset_hook %q", name),
			"registered hooks: %v", hookNames(),
		)
	}
	return hook, nil
}

// ResetHookNames lists the registered hooks, sorted.
func ResetHookNames() []string {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return hookNames()
}

func hookNames() []string {
	names := make([]string, 0, len(hooks))
	for name := range hooks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
