// Package cli wires the spatialflow commands.
package cli

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/p-blackswan/spatialflow/internal/config"
)

// Version is reported by --version.
const Version = "0.1.0"

// options are the flags shared by every command.
type options struct {
	schedulePath string
	imagePath    string
	week         int
	profilePath  string
	backendURL   string
	delayType    string
}

type app struct {
	logger zerolog.Logger
	opts   options
	cfg    *config.Config
}

// NewRootCommand builds the command tree. Rendered views go to the command's output;
// logs go to logger.
func NewRootCommand(logger zerolog.Logger) *cobra.Command {
	a := &app{logger: logger}

	root := &cobra.Command{
		Use:           "spatialflow",
		Short:         "Construction site logistics planning dashboard",
		Long:          `spatialflow turns a project schedule and site plan into weekly temporary layouts, answers site questions, and replans around disruptions.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.opts.schedulePath, "schedule", "", "schedule file (text or CSV)")
	pf.StringVar(&a.opts.imagePath, "image", "", "site plan image")
	pf.IntVar(&a.opts.week, "week", 1, "week to plan for")
	pf.StringVar(&a.opts.profilePath, "profile", "", "project profile (YAML)")
	pf.StringVar(&a.opts.backendURL, "backend", "", "planning backend URL (overrides BACKEND_URL)")

	root.AddCommand(
		a.serveCommand(),
		a.layoutCommand(),
		a.queryCommand(),
		a.replanCommand(),
		a.weekCommand(),
	)
	return root
}

// Execute runs the root command.
func Execute(logger zerolog.Logger, args []string, out io.Writer) error {
	root := NewRootCommand(logger)
	root.SetArgs(args)
	root.SetOut(out)
	return root.Execute()
}

func (a *app) loadConfig() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.opts.profilePath != "" {
		p, err := config.LoadProfile(a.opts.profilePath)
		if err != nil {
			return err
		}
		cfg.ApplyProfile(p)
	}
	if a.opts.backendURL != "" {
		cfg.BackendURL = a.opts.backendURL
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	if cfg.IsDevelopment() {
		a.logger = a.logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		log.Logger = a.logger
	}
	a.cfg = cfg
	return nil
}
