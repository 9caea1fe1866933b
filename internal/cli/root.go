package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gamingwithevets/quizprog-gui/internal/config"
	"github.com/gamingwithevets/quizprog-gui/internal/logger"
	"github.com/gamingwithevets/quizprog-gui/internal/update"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X .../internal/cli.version=...".
var version = "v1.0.2-beta"

// runtime is what every subcommand shares once the root has loaded config.
type runtime struct {
	configPath   string
	checkUpdates bool

	fs      afero.Fs
	cfg     config.Config
	log     *zap.Logger
	updates <-chan update.Result
}

// Execute runs the CLI until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return newRootCmd(afero.NewOsFs()).ExecuteContext(ctx)
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	rt := &runtime{fs: fs, log: zap.NewNop()}

	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = config.DefaultPath
	}

	cmd := &cobra.Command{
		Use:          "quizprog",
		Short:        "Create, edit and play multiple-choice quizzes",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			rt.finish(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&rt.configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().BoolVar(&rt.checkUpdates, "check-updates", false, "check for a newer release in the background")

	cmd.AddCommand(
		newNewCmd(rt),
		newOpenCmd(rt),
		newRenameCmd(rt),
		newDescribeCmd(rt),
		newSaveAsCmd(rt),
		newExportCmd(rt),
		newSettingsCmd(rt),
		newWrongMsgCmd(rt),
		newQuestionCmd(rt),
		newPlayCmd(rt),
		newServeCmd(rt),
		newMigrateCmd(rt),
		newLibraryCmd(rt),
		newUpdateCmd(rt),
	)
	return cmd
}

func (rt *runtime) init(cmd *cobra.Command) error {
	cfg, err := config.LoadFS(rt.fs, rt.configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	rt.cfg = cfg
	rt.log = log

	if (rt.checkUpdates || cfg.Update.Check) && cmd.Name() != "update" {
		client := &http.Client{Timeout: cfg.Update.Timeout}
		rt.updates = update.Check(cmd.Context(), client, cfg.Update.URL, version)
	}
	return nil
}

// finish reports a background update result if it has arrived by now.
func (rt *runtime) finish(cmd *cobra.Command) {
	defer rt.log.Sync()
	if rt.updates == nil {
		return
	}
	res, ok := update.Poll(rt.updates)
	if !ok {
		return
	}
	if res.Err != nil {
		rt.log.Debug("update check failed", zap.Error(res.Err))
		return
	}
	if res.Newer {
		fmt.Fprintf(cmd.ErrOrStderr(), "A new version of QuizProg is available: %s %s\n", res.Latest, res.URL)
	}
}
