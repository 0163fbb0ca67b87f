// Package cli is the blueprint command tree.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"blueprint/config"
	"blueprint/history"
	"blueprint/job"
	"blueprint/materialize"
	"blueprint/preset"
)

var version = "0.1.0"

// app holds what every command needs once flags and config are resolved.
type app struct {
	configPath string
	presetFile string
	recentFile string
	logLevel   string

	cfg     *config.Config
	logger  *slog.Logger
	presets *preset.Manager
	recent  *history.History
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.presetFile != "" {
		cfg.PresetFile = a.presetFile
	}
	if a.recentFile != "" {
		cfg.RecentFile = a.recentFile
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg
	a.logger = cfg.NewLogger(cmd.ErrOrStderr())
	a.presets = preset.NewManager(cfg.PresetFile, a.logger)

	a.recent, err = history.Open(cfg.RecentFile, a.logger)
	if err != nil {
		return fmt.Errorf("failed to open recent projects: %w", err)
	}
	return nil
}

// jobManager wires the registry, history and configured permissions into a
// job.Manager.
func (a *app) jobManager() *job.Manager {
	dirMode, _ := a.cfg.DirMode()
	fileMode, _ := a.cfg.FileMode()
	return job.NewManager(a.presets,
		job.WithHistory(a.recent),
		job.WithLogger(a.logger),
		job.WithMaterializeOptions(materialize.WithDirPerm(dirMode), materialize.WithFilePerm(fileMode)),
	)
}

func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "blueprint",
		Short:         "Create project skeletons from presets",
		Long:          `blueprint creates directory and empty-file skeletons from named presets, and manages the preset registry.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", config.DefaultPath, "Config file")
	root.PersistentFlags().StringVar(&a.presetFile, "presets", "", "Preset store (overrides config)")
	root.PersistentFlags().StringVar(&a.recentFile, "recent", "", "Recent projects file (overrides config)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(
		newServeCmd(a),
		newCreateCmd(a),
		newPresetsCmd(a),
		newRecentCmd(a),
		newCheckCmd(a),
		newVersionCmd(),
	)
	return root
}

func Execute() error {
	return NewRootCmd().Execute()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "blueprint version %s\n", version)
		},
	}
}
