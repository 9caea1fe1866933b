package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWrongMsgCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wrongmsg",
		Short: "Manage the global wrong answer comments",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list <path>",
		Short: "List the comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := rt.openEditor(args[0])
			if err != nil {
				return err
			}
			msgs := e.Settings().WrongMsg
			out := cmd.OutOrStdout()
			if len(msgs) == 0 {
				fmt.Fprintln(out, "No global wrong answer comments.")
				return nil
			}
			for i, msg := range msgs {
				fmt.Fprintf(out, "%d. %s\n", i+1, msg)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <path> <text>",
		Short: "Add a comment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := rt.openEditor(args[0])
			if err != nil {
				return err
			}
			if err := e.AddWrongMsg(args[1]); err != nil {
				return err
			}
			return persist(cmd.OutOrStdout(), e)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "edit <path> <number> <text>",
		Short: "Replace a comment",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := parseNumber(args[1])
			if err != nil {
				return err
			}
			e, err := rt.openEditor(args[0])
			if err != nil {
				return err
			}
			if err := e.EditWrongMsg(i, args[2]); err != nil {
				return err
			}
			return persist(cmd.OutOrStdout(), e)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <path> <number>",
		Short: "Delete a comment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := parseNumber(args[1])
			if err != nil {
				return err
			}
			e, err := rt.openEditor(args[0])
			if err != nil {
				return err
			}
			if err := e.DeleteWrongMsg(i); err != nil {
				return err
			}
			return persist(cmd.OutOrStdout(), e)
		},
	})
	return cmd
}
