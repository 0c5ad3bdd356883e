package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/liuzifengxjj1028/chat-app-ai-summary/internal/claude"
	"github.com/liuzifengxjj1028/chat-app-ai-summary/internal/config"
	"github.com/liuzifengxjj1028/chat-app-ai-summary/internal/logger"
	"github.com/liuzifengxjj1028/chat-app-ai-summary/internal/parser"
	"github.com/liuzifengxjj1028/chat-app-ai-summary/internal/server"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type rootOptions struct {
	logLevel  string
	logFormat string
	envFile   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "chat-summary-proxy",
		Short: "Claude API proxy for the chat summary app",
		Long: `chat-summary-proxy accepts chat text extracted by the web client,
forwards it to the Claude Messages API with the server-held API key and
relays the response.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(opts.logLevel, opts.logFormat)
			slog.Debug("Log level set", "level", opts.logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info",
		"Set the logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "json",
		"Log output format (json, text)")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env",
		"Optional dotenv file loaded before reading the environment")

	rootCmd.AddCommand(newServeCmd(opts), newVersionCmd())
	return rootCmd
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(opts)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "chat-summary-proxy %s\n", version)
		},
	}
}

func serve(opts *rootOptions) error {
	cfg, err := config.LoadConfig(opts.envFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	credentials := config.NewEnvCredentials(cfg.Claude.APIKeyEnv)
	if credentials.APIKey() == "" {
		slog.Warn("Claude API key is not configured; parse requests will fail until it is set",
			"env", cfg.Claude.APIKeyEnv)
	}

	p := parser.New(claude.NewClient(cfg.Claude), credentials, cfg.Claude)

	srv := server.New(*cfg, p)
	slog.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port, "model", cfg.Claude.Model)
	if err := srv.Run(); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
