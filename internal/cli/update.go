package cli

import (
	"fmt"
	"net/http"

	"github.com/gamingwithevets/quizprog-gui/internal/update"
	"github.com/spf13/cobra"
)

func newUpdateCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Check for a newer release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := &http.Client{Timeout: rt.cfg.Update.Timeout}
			res, err := update.Wait(cmd.Context(), update.Check(cmd.Context(), client, rt.cfg.Update.URL, version))
			if err != nil {
				return err
			}
			if res.Err != nil {
				return fmt.Errorf("update check failed: %w", res.Err)
			}
			out := cmd.OutOrStdout()
			if res.Newer {
				fmt.Fprintf(out, "A new version is available: %s (you have %s)\n%s\n", res.Latest, version, res.URL)
				return nil
			}
			fmt.Fprintf(out, "You are up to date (%s).\n", version)
			return nil
		},
	}
}
