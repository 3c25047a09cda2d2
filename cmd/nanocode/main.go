package main

import (
	"fmt"
	"os"

	"github.com/petasbytes/nanocode/internal/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfg    config.Config
	logger zerolog.Logger

	configPath string
	flagProv   string
	flagModel  string
	noThink    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "nanocode",
		Short: "Minimal coding agent in the terminal",
		Long: `nanocode is an interactive coding assistant. The model can read, write
and edit files, search the tree, run shell commands and look things up on
the web; results are fed back until it answers.

Commands inside a session:
  /c        clear the conversation
  /skills   list loaded skills
  /q, exit  quit

Examples:
  nanocode
  nanocode -p openrouter -m minimax/minimax-m2.1
  nanocode --no-think`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, explicit := configPath, configPath != ""
			if !explicit {
				path = config.DefaultPath()
			}
			var err error
			if cfg, err = config.Load(path, explicit); err != nil {
				return err
			}
			if cmd.Flags().Changed("provider") {
				cfg.Provider = flagProv
			}
			if cmd.Flags().Changed("model") {
				cfg.Model = flagModel
			}
			if noThink {
				cfg.Thinking = false
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			level, err := zerolog.ParseLevel(cfg.LogLevel)
			if err != nil || level == zerolog.NoLevel {
				level = zerolog.WarnLevel
			}
			logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).
				With().
				Timestamp().
				Logger()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: "+config.DefaultPath()+")")
	rootCmd.Flags().StringVarP(&flagProv, "provider", "p", "anthropic", "API provider: anthropic, openrouter")
	rootCmd.Flags().StringVarP(&flagModel, "model", "m", "", "model to use (default: the provider's default model)")
	rootCmd.Flags().BoolVar(&noThink, "no-think", false, "disable extended thinking")

	rootCmd.AddCommand(authCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
