package cli

import (
	"fmt"
	"strings"

	"github.com/gamingwithevets/quizprog-gui/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type questionFlags struct {
	question, a, b, c, d, correct string
}

func (f *questionFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.question, "question", "", "question text")
	fs.StringVar(&f.a, "a", "", "answer A")
	fs.StringVar(&f.b, "b", "", "answer B")
	fs.StringVar(&f.c, "c", "", "answer C")
	fs.StringVar(&f.d, "d", "", "answer D")
	fs.StringVar(&f.correct, "correct", "", "correct answer: a, b, c, d or all")
}

// apply overwrites the fields of q whose flags were given.
func (f *questionFlags) apply(fs *pflag.FlagSet, q domain.Question) domain.Question {
	if fs.Changed("question") {
		q.Question = f.question
	}
	if fs.Changed("a") {
		q.A = f.a
	}
	if fs.Changed("b") {
		q.B = f.b
	}
	if fs.Changed("c") {
		q.C = f.c
	}
	if fs.Changed("d") {
		q.D = f.d
	}
	if fs.Changed("correct") {
		q.Correct = strings.ToLower(strings.TrimSpace(f.correct))
	}
	return q
}

func newQuestionCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "question",
		Short: "Manage the questions of a quiz",
	}
	cmd.AddCommand(
		newQuestionListCmd(rt),
		newQuestionAddCmd(rt),
		newQuestionEditCmd(rt),
		newQuestionRemoveCmd(rt),
		newQuestionMoveCmd(rt),
		newQuestionExplainCmd(rt),
		newQuestionWrongMsgCmd(rt),
	)
	return cmd
}

func newQuestionListCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "list <path>",
		Short: "List the questions with their answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := rt.openEditor(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, q := range e.Store().Document().Questions {
				fmt.Fprintf(out, "%d. %s\n", i+1, q.Question)
				for _, letter := range domain.Choices {
					text, _ := q.Answer(letter)
					mark := " "
					if q.IsCorrect(letter) {
						mark = "*"
					}
					fmt.Fprintf(out, "   %s %s) %s\n", mark, strings.ToUpper(letter), text)
					if msg := q.WrongMsg[letter]; msg != "" {
						fmt.Fprintf(out, "        wrong: %s\n", msg)
					}
				}
				if q.Explanation != "" {
					fmt.Fprintf(out, "   explanation: %s\n", q.Explanation)
				}
			}
			return nil
		},
	}
}

func newQuestionAddCmd(rt *runtime) *cobra.Command {
	var qf questionFlags
	cmd := &cobra.Command{
		Use:   "add <path>",
		Short: "Append a question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := rt.openEditor(args[0])
			if err != nil {
				return err
			}
			if err := e.AddQuestion(qf.apply(cmd.Flags(), domain.Question{})); err != nil {
				return err
			}
			return persist(cmd.OutOrStdout(), e)
		},
	}
	qf.register(cmd.Flags())
	return cmd
}

func newQuestionEditCmd(rt *runtime) *cobra.Command {
	var qf questionFlags
	cmd := &cobra.Command{
		Use:   "edit <path> <number>",
		Short: "Change the text, answers or correct answer of a question",
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
			questions := e.Store().Document().Questions
			if i >= len(questions) {
				return domain.ErrQuestionIndex
			}
			if err := e.UpdateQuestion(i, qf.apply(cmd.Flags(), questions[i])); err != nil {
				return err
			}
			return persist(cmd.OutOrStdout(), e)
		},
	}
	qf.register(cmd.Flags())
	return cmd
}

func newQuestionRemoveCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <path> <number>",
		Short: "Remove a question",
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
			if err := e.RemoveQuestion(i); err != nil {
				return err
			}
			return persist(cmd.OutOrStdout(), e)
		},
	}
}

func newQuestionMoveCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "move <path> <from> <to>",
		Short: "Move a question to another position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseNumber(args[1])
			if err != nil {
				return err
			}
			to, err := parseNumber(args[2])
			if err != nil {
				return err
			}
			e, err := rt.openEditor(args[0])
			if err != nil {
				return err
			}
			if err := e.MoveQuestion(from, to); err != nil {
				return err
			}
			return persist(cmd.OutOrStdout(), e)
		},
	}
}

func newQuestionExplainCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "explain <path> <number> <text>",
		Short: "Set the text shown after a correct answer (empty text removes it)",
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
			if err := e.SetExplanation(i, args[2]); err != nil {
				return err
			}
			return persist(cmd.OutOrStdout(), e)
		},
	}
}

func newQuestionWrongMsgCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "wrongmsg <path> <number> <letter> <text>",
		Short: "Set the comment for one wrong choice of a question (empty text removes it)",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := parseNumber(args[1])
			if err != nil {
				return err
			}
			e, err := rt.openEditor(args[0])
			if err != nil {
				return err
			}
			if err := e.SetQuestionWrongMsg(i, args[2], args[3]); err != nil {
				return err
			}
			return persist(cmd.OutOrStdout(), e)
		},
	}
}
