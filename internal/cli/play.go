package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gamingwithevets/quizprog-gui/internal/app"
	"github.com/gamingwithevets/quizprog-gui/internal/domain"
	"github.com/gamingwithevets/quizprog-gui/internal/infra/memory"
	"github.com/spf13/cobra"
)

func newPlayCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "play <path>",
		Short: "Play a quiz in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := app.NewStore(rt.fs, rt.log, rt.cfg.Document.Indent)
			if _, err := store.OpenFile(args[0]); err != nil {
				return err
			}
			svc := app.NewPlaybackService(memory.NewSessionStore(), nil, rt.log)
			ctx := cmd.Context()
			id, err := svc.StartSession(ctx, *store.Document())
			if err != nil {
				return err
			}
			defer svc.End(ctx, id)
			return runPlay(ctx, svc, id, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// runPlay drives one session from the terminal until the player quits or
// input runs out.
func runPlay(ctx context.Context, svc *app.PlaybackService, id string, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	readLine := func() (string, bool) {
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return "", false
		}
		return strings.TrimSpace(line), true
	}

	snap, err := svc.Current(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s\n", snap.Title)
	if snap.Description != "" {
		fmt.Fprintf(out, "\n%s\n", snap.Description)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		snap, err := svc.Current(ctx, id)
		if err != nil {
			return err
		}

		switch snap.State {
		case app.StateNotStarted:
			fmt.Fprint(out, "\nPress Enter to start.")
			if _, ok := readLine(); !ok {
				return nil
			}
			if _, err := svc.Advance(ctx, id); err != nil {
				return err
			}

		case app.StateShowing:
			printQuestion(out, snap)
			line, ok := readLine()
			if !ok {
				return nil
			}
			outcome, err := svc.Answer(ctx, id, line)
			if errors.Is(err, domain.ErrInvalidChoice) {
				fmt.Fprintln(out, "\nInvalid input. Please enter a letter A-D.")
				continue
			}
			if err != nil {
				return err
			}
			switch outcome.Kind {
			case app.OutcomeCorrect, app.OutcomeComplete:
				fmt.Fprintln(out, "\nCorrect!")
			default:
				fmt.Fprintf(out, "\n%s\n", outcome.Message)
			}

		case app.StateExplaining:
			fmt.Fprintf(out, "\n%s\n\nPress Enter to continue.", snap.Explanation)
			if _, ok := readLine(); !ok {
				return nil
			}
			if _, err := svc.Advance(ctx, id); err != nil {
				return err
			}

		case app.StateWon, app.StateLost:
			if snap.State == app.StateWon {
				fmt.Fprintln(out, "\nCongratulations! You completed the quiz.")
			} else {
				fmt.Fprintln(out, "\nGAME OVER")
			}
			if snap.Closing != "" {
				fmt.Fprintf(out, "\n%s\n", snap.Closing)
			}
			fmt.Fprint(out, "\nPlay again? (y/N) ")
			line, ok := readLine()
			if !ok || !strings.EqualFold(line, "y") {
				return nil
			}
			if _, err := svc.Restart(ctx, id); err != nil {
				return err
			}
		}
	}
}

func printQuestion(out io.Writer, snap app.Snapshot) {
	fmt.Fprintln(out)
	if snap.ShowCount {
		fmt.Fprintf(out, "Question %d of %d", snap.Number, snap.Total)
	} else {
		fmt.Fprint(out, "Question")
	}
	if !snap.Unlimited {
		fmt.Fprintf(out, " | Lives: %d", snap.Lives)
	}
	fmt.Fprintf(out, "\n\n%s\n\n", snap.Question.Question)
	fmt.Fprintf(out, "A) %s\nB) %s\nC) %s\nD) %s\n\n> ", snap.Question.A, snap.Question.B, snap.Question.C, snap.Question.D)
}
