package cli

import (
	"context"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report the current key and sources list state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd.Context(), cmd)
		},
	}
}

func runStatus(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := buildConfig(cmd, actionOptions{})
	if err != nil {
		return err
	}
	status, err := newAppService(cfg).Status(ctx, cfg)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(status)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode status").
			WithCause(err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
