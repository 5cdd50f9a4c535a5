package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	logpkg "github.com/kailas-cloud/ragchat/internal/logger"
	"github.com/kailas-cloud/ragchat/internal/tui"
	"github.com/kailas-cloud/ragchat/internal/version"
	"github.com/kailas-cloud/ragchat/internal/widget"
)

const (
	defaultServerURL = "http://localhost:8080"
	serverURLEnv     = "RAGCHAT_URL"
)

// errFetch marks a failed ask; the message was already printed.
var errFetch = errors.New("fetch failed")

type clientOptions struct {
	serverURL string
	timeout   time.Duration
	verbose   bool
}

func newRootCommand() *cobra.Command {
	opts := &clientOptions{}

	rootCmd := &cobra.Command{
		Use:           "ragchat",
		Short:         "Ask questions against a ragchat server",
		Long:          "Interactive terminal widget for the ragchat /api/chat endpoint.\nRun without a subcommand to open the widget.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInteractive(cmd, opts)
		},
	}

	defaultURL := os.Getenv(serverURLEnv)
	if defaultURL == "" {
		defaultURL = defaultServerURL
	}
	rootCmd.PersistentFlags().StringVar(&opts.serverURL, "url", defaultURL, "Server base URL (env "+serverURLEnv+")")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", widget.DefaultTimeout, "Per-question timeout")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log fetch errors to stderr")

	rootCmd.AddCommand(newAskCommand(opts), newVersionCommand())
	return rootCmd
}

func newAskCommand(opts *clientOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask one question and print the answer",
		Example: `  ragchat ask "What is RAG?"
  ragchat --url https://rag.example.com ask "How do I reset my password?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := newWidget(opts)
			w.SetQuestion(strings.Join(args, " "))

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			w.Submit(ctx)

			if w.LastError() != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), w.Answer())
				return errFetch
			}
			fmt.Fprintln(cmd.OutOrStdout(), w.Answer())
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show client version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "ragchat", version.String())
		},
	}
}

func runInteractive(cmd *cobra.Command, opts *clientOptions) error {
	w := newWidget(opts)
	p := tea.NewProgram(tui.New(w, opts.timeout), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run terminal widget: %w", err)
	}
	return nil
}

func newWidget(opts *clientOptions) *widget.Widget {
	return widget.New(opts.serverURL, &http.Client{Timeout: opts.timeout}).
		WithLogger(logpkg.NewCLILogger(opts.verbose))
}
