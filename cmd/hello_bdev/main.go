// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command hello_bdev writes a pattern to a block device, reads it back and
// compares, on one or more independent reactors.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/spdk"
	"code.hybscloud.com/spdk/bdev"
	"code.hybscloud.com/spdk/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	configPath string
	reactors   int
)

var rootCmd = &cobra.Command{
	Use:   "hello_bdev",
	Short: "Write a pattern to a block device and read it back",
	Long: "hello_bdev opens a block device on each reactor, writes a pattern over its\n" +
		"first blocks, reads them back and compares.\n\n" + config.Description(),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("reactors") {
			if reactors < 1 {
				return fmt.Errorf("--reactors must be positive, got %d", reactors)
			}
			cfg.Reactors = reactors
		}
		loggerSetup(!cfg.Log.JSON, cfg.LogLevel())

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return run(ctx, cfg)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to configuration file")
	rootCmd.Flags().IntVar(&reactors, "reactors", 1, "number of independent reactors")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("hello_bdev failed")
		os.Exit(1)
	}
}

func loggerSetup(pretty bool, level zerolog.Level) {
	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	zerolog.SetGlobalLevel(level)
}

// run starts cfg.Reactors reactors in parallel, each with its own device.
// The first failure or ctx cancellation stops the others.
func run(ctx context.Context, cfg *config.Config) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := range cfg.Reactors {
		g.Go(func() error {
			name := fmt.Sprintf("%s%d", cfg.Name, i)
			logger := log.Logger.With().Int("core", i).Logger()
			sub := bdev.NewSubsystem(logger, cfg.BdevConfig())
			n, err := spdk.BlockOn(spdk.AppOpts{
				Name:       name,
				Logger:     logger,
				Subsystems: []spdk.Subsystem{newStopOnDone(gctx), sub},
			}, func(*spdk.Executor) kont.Eff[uint64] {
				return hello(logger, sub, cfg.Bdev.Name, cfg.Blocks)
			})
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			logger.Info().Str("reactor", name).Uint64("bytes", n).Msg("completed")
			return nil
		})
	}
	return g.Wait()
}
