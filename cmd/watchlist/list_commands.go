package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"watchlist/internal/api"
	"watchlist/internal/syncagent"
)

func newCreateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "create [name]",
		Short: "Create a new watchlist",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := ctx.newClient()
			if err != nil {
				return err
			}
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			list, err := c.CreateList(cmd.Context(), name, ctx.password())
			if err != nil {
				return ctx.explain(err)
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, list)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created %q\n", list.Name)
			fmt.Fprintf(out, "List id: %s\n", list.ID)
			if list.Protected {
				fmt.Fprintln(out, "Share the password with everyone who should see it.")
			}
			return nil
		},
	}
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <list-id>",
		Short: "Show a watchlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := ctx.newClient()
			if err != nil {
				return err
			}
			list, err := c.GetList(cmd.Context(), args[0])
			if err != nil {
				return ctx.explain(err)
			}
			return printList(cmd, ctx, list)
		},
	}
}

func newListsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "List every watchlist id known to the daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := ctx.newClient()
			if err != nil {
				return err
			}
			ids, err := c.ListIDs(cmd.Context())
			if err != nil {
				return ctx.explain(err)
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, api.ListIDsResponse{IDs: ids})
			}
			out := cmd.OutOrStdout()
			if len(ids) == 0 {
				fmt.Fprintln(out, "No watchlists.")
				return nil
			}
			for _, id := range ids {
				fmt.Fprintln(out, id)
			}
			return nil
		},
	}
}

func newRenameCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <list-id> <name>",
		Short: "Rename a watchlist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withAgent(cmd.Context(), args[0], nil, func(agent *syncagent.Agent) error {
				if err := agent.Rename(cmd.Context(), args[1]); err != nil {
					return ctx.explain(err)
				}
				return printAgent(cmd, ctx, agent)
			})
		},
	}
}

func newPasswordCommand(ctx *commandContext) *cobra.Command {
	var clearPassword bool
	cmd := &cobra.Command{
		Use:   "password <list-id> [new-password]",
		Short: "Set, change, or clear a watchlist password",
		Long: "Set, change, or clear a watchlist password.\n\n" +
			"The current password (if any) is passed with --password.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			next := ""
			switch {
			case clearPassword && len(args) == 2:
				return fmt.Errorf("pass either a new password or --clear, not both")
			case !clearPassword && len(args) == 1:
				return fmt.Errorf("a new password is required (or use --clear)")
			case len(args) == 2:
				next = args[1]
			}
			c, err := ctx.newClient()
			if err != nil {
				return err
			}
			list, err := c.SetPassword(cmd.Context(), args[0], next)
			if err != nil {
				return ctx.explain(err)
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, list)
			}
			if list.Protected {
				fmt.Fprintln(cmd.OutOrStdout(), "Password set.")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Password removed.")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearPassword, "clear", false, "Remove password protection")
	return cmd
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <list-id>",
		Short: "Delete a watchlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("deleting a watchlist cannot be undone; re-run with --yes")
			}
			c, err := ctx.newClient()
			if err != nil {
				return err
			}
			if err := c.DeleteList(cmd.Context(), args[0]); err != nil {
				return ctx.explain(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm deletion")
	return cmd
}

func printList(cmd *cobra.Command, ctx *commandContext, list api.List) error {
	if ctx.jsonOutput() {
		return writeJSON(cmd, list)
	}
	out := cmd.OutOrStdout()
	fmt.Fprint(out, renderList(api.ToList(list), list.Protected, shouldColorize(out)))
	return nil
}

func printAgent(cmd *cobra.Command, ctx *commandContext, agent *syncagent.Agent) error {
	list, _ := agent.Snapshot()
	dto := api.FromList(list)
	dto.Protected = agent.Protected()
	return printList(cmd, ctx, dto)
}

