package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mohiawrai2609/commant-center/config"
	"github.com/mohiawrai2609/commant-center/pipeline"
	"github.com/mohiawrai2609/commant-center/server"
	sig "github.com/mohiawrai2609/commant-center/signal"
)

type bootFunc func() (*app, func(), error)

func serveCmd(boot bootFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP relay API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := boot()
			if err != nil {
				return err
			}
			defer cleanup()
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(parent context.Context) error {
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	handler := server.New(a.relay, a.discovery,
		server.WithLogger(a.logger),
		server.WithObserver(a.metrics),
		server.WithMetricsHandler(a.metrics.Handler()),
	).Handler()

	// Hot reload of the model registry from the project config, when present.
	if path := config.NewLoader(a.logger).FindProjectConfig(); path != "" {
		watcher, err := config.NewWatcher(config.WatcherConfig{
			Path:     path,
			Registry: a.registry,
			Logger:   a.logger,
		})
		if err != nil {
			a.logger.Warn("Config watcher unavailable", "error", err)
		} else {
			if err := watcher.Start(ctx); err != nil {
				a.logger.Warn("Config watcher failed to start", "path", path, "error", err)
			}
			defer watcher.Stop()
		}
	}

	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP API listening", "addr", a.cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func scanCmd(boot bootFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Run the daily signal scan",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := boot()
			if err != nil {
				return err
			}
			defer cleanup()

			signals, err := a.scanner.DailyScan(cmd.Context(), a.session)
			if err != nil {
				return err
			}
			a.reportIngested(signals)
			return nil
		},
	}
}

func topicCmd(boot bootFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "topic <topic>",
		Short: "Scan for signals on a specific topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := boot()
			if err != nil {
				return err
			}
			defer cleanup()

			signals, err := a.scanner.TopicScan(cmd.Context(), a.session, args[0])
			if err != nil {
				return err
			}
			a.reportIngested(signals)
			return nil
		},
	}
}

func pasteCmd(boot bootFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "paste [file]",
		Short: "Extract signals from pasted research (file or stdin)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text []byte
			var err error
			if len(args) == 1 && args[0] != "-" {
				text, err = os.ReadFile(args[0])
			} else {
				text, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			a, cleanup, err := boot()
			if err != nil {
				return err
			}
			defer cleanup()

			signals, err := a.scanner.IngestPaste(cmd.Context(), a.session, string(text))
			if err != nil {
				return err
			}
			a.reportIngested(signals)
			return nil
		},
	}
}

func fetchCmd(boot bootFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <url>",
		Short: "Fetch an article URL and extract signals from it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := boot()
			if err != nil {
				return err
			}
			defer cleanup()

			signals, err := a.scanner.IngestURL(cmd.Context(), a.session, args[0])
			if err != nil {
				return err
			}
			a.reportIngested(signals)
			return nil
		},
	}
}

func articleCmd(boot bootFunc) *cobra.Command {
	var day string
	var outDir string

	cmd := &cobra.Command{
		Use:   "article <signal-index>",
		Short: "Generate the full article for a stored signal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := boot()
			if err != nil {
				return err
			}
			defer cleanup()

			selected, err := a.signalAt(cmd.Context(), day, args[0])
			if err != nil {
				return err
			}

			gen := pipeline.NewGenerator(a.relay,
				pipeline.WithGeneratorLogger(a.logger),
				pipeline.WithStatusFunc(func(st pipeline.Status) {
					fmt.Fprintf(cmd.ErrOrStderr(), "\rphase=%s elapsed=%s ", st.Phase, st.Elapsed.Round(time.Second))
				}),
			)

			art, err := gen.Run(cmd.Context(), a.session, selected)
			fmt.Fprintln(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a.metrics.ArticleBuilt()

			if err := os.MkdirAll(outDir, 0755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			path := filepath.Join(outDir, art.Filename())
			if err := os.WriteFile(path, []byte(art.HTML), 0644); err != nil {
				return fmt.Errorf("write article: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Article written to %s (%s)\n", path, art.Duration.Round(time.Second))
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Day key (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&outDir, "out", ".", "Output directory for the HTML file")
	return cmd
}

func postCmd(boot bootFunc) *cobra.Command {
	var day string

	cmd := &cobra.Command{
		Use:   "post <signal-index>",
		Short: "Draft a LinkedIn post for a stored signal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := boot()
			if err != nil {
				return err
			}
			defer cleanup()

			selected, err := a.signalAt(cmd.Context(), day, args[0])
			if err != nil {
				return err
			}

			post, err := a.outreach.DraftPost(cmd.Context(), a.session, selected)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), post)
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Day key (YYYY-MM-DD, default today)")
	return cmd
}

func outreachCmd(boot bootFunc) *cobra.Command {
	var day string

	cmd := &cobra.Command{
		Use:   "outreach <signal-index>",
		Short: "Find contacts for a signal and draft messages to each",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := boot()
			if err != nil {
				return err
			}
			defer cleanup()

			selected, err := a.signalAt(cmd.Context(), day, args[0])
			if err != nil {
				return err
			}

			contacts, err := a.outreach.FindContacts(cmd.Context(), a.session, selected)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, c := range contacts {
				fmt.Fprintf(out, "[%d] %s, %s at %s\n", i, c.Name, c.Title, c.Company)
				msg, err := a.outreach.DraftMessage(cmd.Context(), a.session, c, selected)
				if err != nil {
					fmt.Fprintf(out, "    draft failed: %v\n\n", err)
					continue
				}
				fmt.Fprintf(out, "%s\n\n", msg)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Day key (YYYY-MM-DD, default today)")
	return cmd
}

func archiveCmd(boot bootFunc) *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "archive [day]",
		Short: "List archived days, or dump one day's signals as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := boot()
			if err != nil {
				return err
			}
			defer cleanup()

			if len(args) == 0 {
				if remove {
					return errors.New("--delete requires a day argument")
				}
				days, err := a.scanner.Archive(cmd.Context())
				if err != nil {
					return err
				}
				for _, d := range days {
					fmt.Fprintln(cmd.OutOrStdout(), d)
				}
				return nil
			}

			if remove {
				if err := a.store.DeleteDay(cmd.Context(), dayKeyArg(args[0])); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", dayKeyArg(args[0]))
				return nil
			}

			signals, err := a.scanner.Day(cmd.Context(), dayKeyArg(args[0]))
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(signals)
		},
	}

	cmd.Flags().BoolVar(&remove, "delete", false, "Delete the day's bucket instead of dumping it")
	return cmd
}

// signalAt loads the given day's signal list and returns the entry at index.
func (a *app) signalAt(ctx context.Context, day, indexArg string) (sig.Signal, error) {
	index, err := strconv.Atoi(indexArg)
	if err != nil || index < 0 {
		return sig.Signal{}, fmt.Errorf("signal index must be a non-negative integer, got %q", indexArg)
	}

	var signals []sig.Signal
	if day == "" {
		signals, err = a.scanner.Today(ctx)
	} else {
		signals, err = a.scanner.Day(ctx, dayKeyArg(day))
	}
	if err != nil {
		return sig.Signal{}, err
	}
	if len(signals) == 0 {
		return sig.Signal{}, errors.New("no signals stored for that day, run a scan first")
	}
	if index >= len(signals) {
		return sig.Signal{}, fmt.Errorf("signal index %d out of range (%d signals)", index, len(signals))
	}
	return signals[index], nil
}

// dayKeyArg accepts both bare dates and full day keys.
func dayKeyArg(arg string) string {
	if len(arg) == len("2006-01-02") {
		return "day:" + arg
	}
	return arg
}

// reportIngested counts the batch for the scrape endpoint and prints it.
func (a *app) reportIngested(signals []sig.Signal) {
	a.metrics.SignalsStored(len(signals))
	printSignals(signals)
}

func printSignals(signals []sig.Signal) {
	if len(signals) == 0 {
		fmt.Println("No signals found.")
		return
	}
	for i, s := range signals {
		fmt.Printf("[%d] T%d %-11s %s\n", i, s.Tier, s.Tier.Label(), s.Title)
		fmt.Printf("    %s | %s | relevance %d/10\n", s.Category, s.Geo, s.RPIRelevance)
		if len(s.Companies) > 0 {
			fmt.Printf("    companies: %v\n", s.Companies)
		}
	}
	fmt.Printf("%d signal(s) stored.\n", len(signals))
}
