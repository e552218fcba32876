package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dshills/odin75/internal/sim"
)

var errNoTerminal = errors.New("odinsim run needs an interactive terminal; use replay for scripts")

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the keyboard interactively in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
				return errNoTerminal
			}

			cfg, path, err := opts.load()
			if err != nil {
				return err
			}
			// The terminal belongs to the panel, so logs are dropped
			// unless a file is configured.
			log, closer, err := logger(cfg, io.Discard)
			if err != nil {
				return err
			}
			defer closer.Close()

			s, err := sim.New(sim.Options{
				Config:     cfg,
				ConfigPath: path,
				Logger:     log,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			if err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}
