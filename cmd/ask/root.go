package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nulzo/chat-relay/internal/cli"
	"github.com/nulzo/chat-relay/internal/config"
	"github.com/nulzo/chat-relay/internal/llm"
)

type options struct {
	provider string
	model    string
	dryRun   bool
	quiet    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "ask [message]",
		Short: "Send one customer message through the configured provider",
		Long: `ask sends a single message to the configured LLM provider using the
same system prompt and generation settings as the relay server.

Examples:
  ask "Where is my order?"
  ask --provider openai --model gpt-4o-mini "Do you ship to Canada?"
  ask --dry-run "Hello"`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVarP(&opts.provider, "provider", "p", "", "Override API_PROVIDER")
	cmd.Flags().StringVarP(&opts.model, "model", "m", "", "Override PROVIDER_MODEL")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the upstream request without sending it")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Print only the reply")

	return cmd
}

func run(cmd *cobra.Command, opts *options, message string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if opts.provider != "" {
		cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(opts.provider))
	}
	if opts.model != "" {
		cfg.LLM.Model = opts.model
	}

	dispatcher, err := llm.NewDispatcher(cfg.Provider(), llm.WithTimeout(cfg.LLM.Timeout))
	if err != nil {
		return err
	}

	prompt := llm.Prompt{System: cfg.SystemPrompt, Message: message}
	out := cmd.OutOrStdout()

	if opts.dryRun {
		req, err := dispatcher.Build(prompt)
		if err != nil {
			return err
		}
		cli.Title.Fprintf(out, "%s %s\n", req.Method, redactKey(req.URL))
		fmt.Fprintln(out, cli.PrettyFormat(req.Body))
		return nil
	}

	var sp *cli.Spinner
	if !opts.quiet {
		sp = cli.NewSpinner(os.Stderr, fmt.Sprintf("Asking %s (%s)...", dispatcher.Provider(), dispatcher.Model()))
		sp.Start()
	}

	reply, err := dispatcher.Chat(cmd.Context(), prompt)
	if sp != nil {
		if err != nil {
			sp.Fail("request failed")
		} else {
			sp.Stop()
		}
	}
	if err != nil {
		return err
	}

	if !opts.quiet {
		cli.Title.Fprintf(out, "%s ", cli.Arrow())
	}
	fmt.Fprintln(out, reply)
	return nil
}

// redactKey hides query-string credentials when echoing a request URL.
func redactKey(u string) string {
	if i := strings.Index(u, "key="); i >= 0 {
		return u[:i] + "key=REDACTED"
	}
	return u
}
