package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"packforge/internal/catalog"
	"packforge/internal/paths"
	"packforge/internal/pipeline"
	"packforge/tui"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var verbosity int

	root := &cobra.Command{
		Use:           "packforge",
		Short:         "Assemble the starter pack from downloaded archives",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogger(verbosity)
		},
	}
	root.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity")
	root.AddCommand(buildCmd())
	return root
}

func buildCmd() *cobra.Command {
	var catalogPath string
	var plain bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Wipe the destination and rebuild the pack from the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load(catalogPath)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			builder := &pipeline.Builder{
				Catalog: cat,
				Paths: paths.Paths{
					Base:        cat.Pack.Base,
					Dist:        cat.Pack.Dist,
					CoreVersion: cat.MustGet(cat.Roles.Core).Version,
				},
				Logger: log.With().Str("component", "pipeline").Logger(),
			}

			if plain {
				return runPlain(builder.Run(ctx))
			}
			model := tui.New(builder.StepNames(), builder.Run(ctx))
			final, err := tea.NewProgram(model).Run()
			if err != nil {
				return err
			}
			if m, ok := final.(tui.Model); ok {
				return m.Err()
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&catalogPath, "catalog", "catalog.toml", "path to the component catalog")
	cmd.Flags().BoolVar(&plain, "plain", false, "log events instead of the progress view")
	return cmd
}

func runPlain(events <-chan pipeline.Event) error {
	var failed error
	for ev := range events {
		switch ev.State {
		case pipeline.StateDone:
			log.Info().Str("step", ev.Step).Msg("done")
		case pipeline.StateFailed:
			failed = ev.Err
		}
	}
	return failed
}

func setupLogger(verbosity int) {
	switch verbosity {
	case 0:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case 1:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	}).With().Timestamp().Logger()
}
