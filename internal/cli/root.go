package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "REPOSITORY_DIST"

type RootConfig struct {
	ConfigFile string
	LogLevel   string
	Verbose    bool
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	root := newRootCommand()
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		code := exitCodeForError(err)
		reportError(root, err, code)
		os.Exit(code)
	}
}

func newRootCommand() *cobra.Command {
	cfg := RootConfig{}
	opts := actionOptions{}
	cmd := &cobra.Command{
		Use:   "repository-dist",
		Short: "Enable or disable the vendor APT repository and its signing key",
		Long: "repository-dist manages the vendor signing key in the APT trust store\n" +
			"and the matching sources list entry. Exactly one of --enable, --disable\n" +
			"or --refresh-keys selects the action.",
		Example: "  repository-dist --enable --repository stable\n" +
			"  repository-dist --enable --codename bookworm-testers --baseuri \"https://deb.example.org\"\n" +
			"  repository-dist --refresh-keys\n" +
			"  repository-dist --disable",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cfg.ConfigFile); err != nil {
				return err
			}
			level := viper.GetString("log_level")
			if cfg.Verbose {
				level = "debug"
			}
			setupLogging(level)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAction(cmd.Context(), cmd, opts)
		},
	}
	cmd.PersistentFlags().StringVar(&cfg.ConfigFile, "config", "", "Config file path")
	cmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", "info", "Log level")
	cmd.PersistentFlags().BoolVar(&cfg.Verbose, "verbose", false, "Enable debug logging")
	_ = viper.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))

	cmd.Flags().BoolVar(&opts.Enable, "enable", false, "Trust the vendor key and write the sources list")
	cmd.Flags().BoolVar(&opts.Disable, "disable", false, "Remove the vendor key and the sources list")
	cmd.Flags().BoolVar(&opts.RefreshKeys, "refresh-keys", false, "Re-export the vendor key if it is already trusted")
	cmd.Flags().StringVar(&opts.Codename, "codename", "", "Distribution codename written to the sources list")
	cmd.Flags().StringVar(&opts.Repository, "repository", "", "Repository channel: "+channelList())
	cmd.Flags().StringVar(&opts.BaseURI, "baseuri", "", "Space separated repository base URIs")

	cmd.AddCommand(newStatusCommand())
	return cmd
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.DefaultContextLogger = &log.Logger
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// reportError prints the top level diagnostic for a failed invocation.
func reportError(root *cobra.Command, err error, code int) {
	log.Error().
		Err(err).
		Str("command", strings.Join(os.Args, " ")).
		Int("exit_code", code).
		Msg(errorMessage(err))

	switch errbuilder.CodeOf(err) {
	case errbuilder.CodeInvalidArgument:
		fmt.Fprintf(root.ErrOrStderr(), "See '%s --help' for usage.\n", root.Name())
	default:
		fmt.Fprintf(root.ErrOrStderr(), "Re-run with --verbose and report a bug if the problem persists.\n")
	}
}

func exitCodeForError(err error) int {
	switch errbuilder.CodeOf(err) {
	case errbuilder.CodeInvalidArgument, errbuilder.CodeAlreadyExists:
		return 2
	case errbuilder.CodePermissionDenied:
		return 3
	case errbuilder.CodeFailedPrecondition:
		return 4
	case errbuilder.CodeNotFound, errbuilder.CodeInternal:
		return 5
	default:
		return 1
	}
}

func errorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}
