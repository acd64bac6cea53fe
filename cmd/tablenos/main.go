package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tomduck/pandoc-tablenos/internal/api"
	"github.com/tomduck/pandoc-tablenos/internal/filter"
	"github.com/tomduck/pandoc-tablenos/internal/markdown"
	"github.com/tomduck/pandoc-tablenos/internal/report"
)

const version = "3.0.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "tablenos: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var pandocVersion string

	root := &cobra.Command{
		Use:     "tablenos [FORMAT]",
		Short:   "Number tables and resolve table references in pandoc documents",
		Long: `tablenos reads a JSON-encoded pandoc document on stdin, numbers its
labeled tables, resolves @tbl: references, and writes the transformed
document to stdout. Invoke it as a pandoc filter:

  pandoc --filter tablenos ...`,
		Version: version,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := ""
			if len(args) > 0 {
				format = args[0]
			}
			return runFilter(cmd, format, pandocVersion)
		},
		SilenceUsage: true,
	}
	root.Flags().StringVar(&pandocVersion, "pandoc-version", "", "pandoc version producing the input, for documents without an API version")

	root.AddCommand(newMarkdownCmd())
	root.AddCommand(newServeCmd())
	return root
}

func runFilter(cmd *cobra.Command, format, pandocVersion string) error {
	input, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	rep := report.New(report.LevelSome, os.Stderr)
	out, err := filter.Run(input, filter.Options{Format: format, PandocVersion: pandocVersion}, rep)
	if err != nil {
		return err
	}

	if _, err := cmd.OutOrStdout().Write(out); err != nil {
		return err
	}
	rep.Flush()
	return nil
}

func newMarkdownCmd() *cobra.Command {
	var to string
	var raw bool

	cmd := &cobra.Command{
		Use:   "markdown [FILE]",
		Short: "Convert Markdown to a filtered pandoc document",
		Long: `markdown parses a Markdown file (or stdin), runs the table-numbering
transform on it, and writes the resulting pandoc JSON to stdout. This
is a convenience path for previewing without a pandoc install.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var src []byte
			var err error
			if len(args) > 0 {
				src, err = os.ReadFile(args[0])
			} else {
				src, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}

			doc, err := markdown.Convert(src)
			if err != nil {
				return fmt.Errorf("parse markdown: %w", err)
			}
			encoded, err := doc.Encode()
			if err != nil {
				return err
			}
			if raw {
				_, err = cmd.OutOrStdout().Write(encoded)
				return err
			}

			rep := report.New(report.LevelSome, os.Stderr)
			out, err := filter.Run(encoded, filter.Options{Format: to}, rep)
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(out); err != nil {
				return err
			}
			rep.Flush()
			return nil
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&to, "to", "html", "target writer the transform renders references for")
	cmd.Flags().BoolVar(&raw, "raw", false, "emit the converted document without transforming it")
	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP transform service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
		SilenceUsage: true,
	}
	return cmd
}

func serve() error {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	port := getenv("TABLENOS_PORT", "8080")
	cfg := api.Settings{
		APIKey:       os.Getenv("TABLENOS_API_KEY"),
		MaxBodyBytes: getenvInt64("TABLENOS_MAX_BODY_BYTES", 32<<20),
		WarningLevel: int(getenvInt64("TABLENOS_WARNING_LEVEL", report.LevelSome)),
	}

	srv := api.NewServer(log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting tablenos", "port", port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
