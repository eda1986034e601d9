package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"repository-dist/internal/app"
	"repository-dist/internal/types"
)

var newAppService = app.NewService

func runAction(ctx context.Context, cmd *cobra.Command, opts actionOptions) error {
	cfg, err := buildConfig(cmd, opts)
	if err != nil {
		return err
	}
	service := newAppService(cfg)
	result, err := service.Run(ctx, cfg)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	switch result.Action {
	case types.ActionEnable:
		fmt.Fprintf(out, "enabled: %s (%s)\n", result.Codename, strings.Join(result.BaseURIs, " "))
		fmt.Fprintln(out, "run 'apt-get update' to fetch the repository index")
	case types.ActionDisable:
		fmt.Fprintln(out, "disabled")
	case types.ActionRefreshKeys:
		fmt.Fprintln(out, "keys refreshed")
	}
	return nil
}
