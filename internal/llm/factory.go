package llm

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/nulzo/chat-relay/internal/config"
)

type Factory func(cfg config.ProviderConfig) (Adapter, error)

var (
	mu        sync.RWMutex
	factories = make(map[ProviderName]Factory)
)

// Register makes an adapter factory available under name. It is called from
// the init function of each adapter package.
func Register(name ProviderName, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("provider factory %s already registered", name))
	}
	factories[name] = f
}

// Get looks up the factory for a provider identifier.
func Get(name string) (Factory, error) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := factories[ProviderName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrInvalidProvider, name, strings.Join(names(), ", "))
	}
	return f, nil
}

// Registered returns the registered provider identifiers in sorted order.
func Registered() []string {
	mu.RLock()
	defer mu.RUnlock()
	return names()
}

func names() []string {
	out := make([]string, 0, len(factories))
	for name := range factories {
		out = append(out, string(name))
	}
	sort.Strings(out)
	return out
}
