package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/odin75/internal/settings"
	"github.com/dshills/odin75/internal/sim"
)

func newReplayCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "replay SCRIPT...",
		Short: "Replay key scripts headlessly and check their expectations",
		Long: `replay runs each script against a fresh keyboard on a manual clock.
Every millisecond of script time runs one keyboard task, so results do not
depend on the speed of the machine. Scripts stop at the first failing line.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}
			log, closer, err := logger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closer.Close()

			out := cmd.OutOrStdout()
			for _, name := range args {
				var storage settings.Storage = &settings.MemoryStore{}
				if cfg.Storage.EEPROM != "" {
					storage = settings.NewYAMLStore(cfg.Storage.EEPROM)
				}
				h, err := sim.NewHarness(storage, out, log)
				if err != nil {
					return err
				}
				if err := replayFile(h, name); err != nil {
					return err
				}
				fmt.Fprintf(out, "ok   %s (%dms)\n", name, h.Clock.Now())
			}
			return nil
		},
	}
}

func replayFile(h *sim.Harness, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return h.Run(f, name)
}
