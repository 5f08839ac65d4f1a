package llm

import (
	"errors"
	"testing"

	"github.com/nulzo/chat-relay/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_Unknown(t *testing.T) {
	_, err := Get("cohere")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidProvider))
	assert.Contains(t, err.Error(), "cohere")
}

func TestRegister_DuplicatePanics(t *testing.T) {
	name := ProviderName("test-duplicate")
	f := func(cfg config.ProviderConfig) (Adapter, error) { return nil, nil }

	Register(name, f)
	t.Cleanup(func() {
		mu.Lock()
		delete(factories, name)
		mu.Unlock()
	})

	assert.Panics(t, func() { Register(name, f) })

	got, err := Get(string(name))
	require.NoError(t, err)
	assert.NotNil(t, got)
}
