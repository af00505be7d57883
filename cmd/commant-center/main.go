// Package main provides the commant-center binary entry point.
// Commant Center is a workforce intelligence daemon and CLI: it scans for
// workforce-automation signals, generates tiered intelligence articles, and
// drafts outreach to affected organizations.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	// Register LLM providers via init()
	_ "github.com/mohiawrai2609/commant-center/llm/providers"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "commant-center"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
		credential string
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Workforce intelligence command center",
		Long: `Commant Center detects workforce-automation signals and turns them into
tiered intelligence content.

It provides:
- Daily and topic scans that extract structured signals from model output
- A four-phase article pipeline (metrics, research, editorial, intelligence)
- Contact discovery and LinkedIn outreach drafting
- An HTTP relay API for the browser UI`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&credential, "credential", "", "API key override (env vars take precedence)")

	boot := func() (*app, func(), error) {
		return newApp(configPath, logLevel, credential)
	}

	cmd.AddCommand(
		serveCmd(boot),
		scanCmd(boot),
		topicCmd(boot),
		pasteCmd(boot),
		fetchCmd(boot),
		articleCmd(boot),
		postCmd(boot),
		outreachCmd(boot),
		archiveCmd(boot),
		versionCmd(),
	)

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}
