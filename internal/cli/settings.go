package cli

import (
	"fmt"
	"io"

	"github.com/gamingwithevets/quizprog-gui/internal/app"
	"github.com/spf13/cobra"
)

func newSettingsCmd(rt *runtime) *cobra.Command {
	var (
		lives     int
		randomize bool
		showCount bool
		fail      string
		finish    string
		reset     bool
	)
	cmd := &cobra.Command{
		Use:   "settings <path>",
		Short: "Show or change the quiz settings",
		Long: `Without flags the current settings are printed. Settings left at their
default value are not written to the file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := rt.openEditor(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			current := e.OpenSettings()

			flags := cmd.Flags()
			if reset {
				e.ResetSettings()
				current = e.Settings()
			}
			if flags.Changed("lives") {
				current.Lives = lives
			}
			if flags.Changed("randomize") {
				current.Randomize = randomize
			}
			if flags.Changed("showcount") {
				current.ShowCount = showCount
			}
			if err := e.ApplySettings(current.Lives, current.Randomize, current.ShowCount); err != nil {
				return err
			}
			if flags.Changed("fail") {
				e.SetFail(fail)
			}
			if flags.Changed("finish") {
				e.SetFinish(finish)
			}

			printSettings(out, e.Settings())
			if !e.Modified() {
				return nil
			}
			e.CloseSettings()
			return persist(out, e)
		},
	}
	cmd.Flags().IntVar(&lives, "lives", 0, "number of lives, 0 for unlimited")
	cmd.Flags().BoolVar(&randomize, "randomize", false, "shuffle the question order on every run")
	cmd.Flags().BoolVar(&showCount, "showcount", true, "show the question number and total")
	cmd.Flags().StringVar(&fail, "fail", "", "text shown on game over")
	cmd.Flags().StringVar(&finish, "finish", "", "text shown when the quiz is completed")
	cmd.Flags().BoolVar(&reset, "reset", false, "restore every setting to its default first")
	return cmd
}

func printSettings(out io.Writer, s app.Settings) {
	lives := "unlimited"
	if s.Lives > 0 {
		lives = fmt.Sprint(s.Lives)
	}
	fmt.Fprintf(out, "Lives:       %s\n", lives)
	fmt.Fprintf(out, "Randomize:   %t\n", s.Randomize)
	fmt.Fprintf(out, "Show count:  %t\n", s.ShowCount)
	fmt.Fprintf(out, "Wrong msgs:  %d\n", len(s.WrongMsg))
	if s.Fail != "" {
		fmt.Fprintf(out, "Fail text:   %s\n", s.Fail)
	}
	if s.Finish != "" {
		fmt.Fprintf(out, "Finish text: %s\n", s.Finish)
	}
}
