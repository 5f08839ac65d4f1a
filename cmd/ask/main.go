package main

import (
	"os"

	"github.com/nulzo/chat-relay/internal/cli"

	_ "github.com/nulzo/chat-relay/internal/llm/anthropic"
	_ "github.com/nulzo/chat-relay/internal/llm/google"
	_ "github.com/nulzo/chat-relay/internal/llm/ollama"
	_ "github.com/nulzo/chat-relay/internal/llm/openai"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		cli.Dim.Fprintf(os.Stderr, "%s %v\n", cli.CrossMark(), err)
		os.Exit(1)
	}
}
