package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type daemonStatus struct {
	APIURL    string `json:"apiUrl"`
	Reachable bool   `json:"reachable"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that watchlistd answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			c, err := ctx.newClient()
			if err != nil {
				return err
			}
			if err := c.Health(cmd.Context()); err != nil {
				return ctx.explain(err)
			}
			status := daemonStatus{APIURL: cfg.Client.APIURL, Reachable: true}
			if ctx.jsonOutput() {
				return writeJSON(cmd, status)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "watchlistd is up at %s\n", status.APIURL)
			return nil
		},
	}
}
