package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gamingwithevets/quizprog-gui/internal/app"
	"github.com/gamingwithevets/quizprog-gui/internal/domain"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (rt *runtime) newEditor() *app.Editor {
	return app.NewEditor(app.NewStore(rt.fs, rt.log, rt.cfg.Document.Indent))
}

func (rt *runtime) openEditor(path string) (*app.Editor, error) {
	e := rt.newEditor()
	if _, err := e.Open(path); err != nil {
		return nil, err
	}
	return e, nil
}

// persist writes the editor's changes back to the file it was opened from. A
// plain JSON file cannot take on native-only settings; those need save-as.
func persist(out io.Writer, e *app.Editor) error {
	if !e.Modified() {
		fmt.Fprintln(out, "No changes.")
		return nil
	}
	store := e.Store()
	if domain.IsPlainPath(store.Path()) && domain.UsesNativeFeatures(store.Document()) {
		return &domain.FormatRestrictionError{Path: store.Path()}
	}
	msg, err := e.Save()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, msg)
	return nil
}

// parseNumber turns a 1-based position argument into a 0-based index.
func parseNumber(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid number %q", arg)
	}
	return n - 1, nil
}

func newNewCmd(rt *runtime) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "new <path>",
		Short: "Create a quiz from the built-in template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if exists, _ := afero.Exists(rt.fs, path); exists && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			e := rt.newEditor()
			e.NewQuiz()
			msg, err := e.SaveAs(path)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newOpenCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "open <path>",
		Short: "Validate a quiz and print a summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := rt.newEditor()
			msg, err := e.Open(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, msg)
			printSummary(out, e)
			return nil
		},
	}
}

func printSummary(out io.Writer, e *app.Editor) {
	doc := e.Store().Document()
	settings := e.Settings()
	fmt.Fprintf(out, "Title:       %s\n", doc.Title)
	if doc.Description != "" {
		fmt.Fprintf(out, "Description: %s\n", doc.Description)
	}
	fmt.Fprintf(out, "Format:      %s\n", e.Store().Format())
	fmt.Fprintf(out, "Questions:   %d\n", len(doc.Questions))
	printSettings(out, settings)
	native := "no"
	if domain.UsesNativeFeatures(doc) {
		native = "yes"
	}
	fmt.Fprintf(out, "Needs %s:  %s\n", domain.NativeExt, native)
}

func newRenameCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <path> <title>",
		Short: "Change the quiz title",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := rt.openEditor(args[0])
			if err != nil {
				return err
			}
			if err := e.Rename(args[1]); err != nil {
				return err
			}
			return persist(cmd.OutOrStdout(), e)
		},
	}
}

func newDescribeCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <path> <text>",
		Short: "Set the quiz description (empty text removes it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := rt.openEditor(args[0])
			if err != nil {
				return err
			}
			e.SetDescription(args[1])
			return persist(cmd.OutOrStdout(), e)
		},
	}
}

func newSaveAsCmd(rt *runtime) *cobra.Command {
	var forcePlain bool
	cmd := &cobra.Command{
		Use:   "save-as <src> <dst>",
		Short: "Save a quiz under a new path; the extension picks the format",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := rt.openEditor(args[0])
			if err != nil {
				return err
			}
			var msg string
			if forcePlain {
				msg, err = e.Store().SaveAs(args[1], true)
			} else {
				msg, err = e.SaveAs(args[1])
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	cmd.Flags().BoolVar(&forcePlain, "force-plain", false, "write plain JSON even if native-only settings are set")
	return cmd
}

func newExportCmd(rt *runtime) *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Print a quiz as YAML or normalized JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := rt.openEditor(args[0])
			if err != nil {
				return err
			}
			data, err := exportDocument(e.Store().Document(), format, rt.cfg.Document.Indent)
			if err != nil {
				return err
			}
			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := afero.WriteFile(rt.fs, output, data, 0o644); err != nil {
				return &domain.IoError{Op: "save", Path: output, Err: err}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "output format: yaml or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}

func exportDocument(doc *domain.Quiz, format string, indent int) ([]byte, error) {
	switch format {
	case "json":
		data, err := domain.Encode(doc, indent)
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "yaml":
		normalized := doc.Clone()
		domain.StripDefaults(&normalized)
		return yaml.Marshal(&normalized)
	}
	return nil, fmt.Errorf("unknown export format %q", format)
}
