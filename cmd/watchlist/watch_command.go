package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"watchlist/internal/api"
	"watchlist/internal/syncagent"
)

const clearScreen = "\x1b[H\x1b[2J"

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch <list-id>",
		Short: "Keep a watchlist on screen and redraw it when it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			redraw := func(evt syncagent.Event) {
				if evt.Type != syncagent.EventUpdated {
					return
				}
				if ctx.jsonOutput() {
					_ = writeJSON(cmd, api.FromList(evt.List))
					return
				}
				if colorize {
					fmt.Fprint(out, clearScreen)
				}
				fmt.Fprint(out, renderList(evt.List, false, colorize))
				fmt.Fprintf(out, "updated %s\n", time.Now().Format(time.Kitchen))
			}

			opts := []syncagent.Option{syncagent.WithOnEvent(redraw)}
			if interval > 0 {
				opts = append(opts, syncagent.WithInterval(interval))
			}
			return ctx.withAgent(runCtx, args[0], opts, func(agent *syncagent.Agent) error {
				err := agent.Run(runCtx)
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "Polling interval (defaults to client.poll_interval_seconds)")
	return cmd
}
