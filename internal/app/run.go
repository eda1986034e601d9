package app

import (
	"context"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"repository-dist/internal/types"
)

// Run performs one enable, disable or refresh-keys transition and flushes
// the result to disk. Every step is idempotent, so an interrupted run is
// repaired by running it again.
func (s Service) Run(ctx context.Context, cfg types.Config) (RunResult, error) {
	plan, err := s.Plan(ctx, cfg)
	if err != nil {
		return RunResult{}, err
	}
	if s.FileSync == nil {
		return RunResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("service requires a file sync port")
	}
	logger := log.Ctx(ctx).With().Str("action", string(plan.Action)).Logger()
	ctx = logger.WithContext(ctx)

	keys := s.keyReconciler(cfg)
	sources := s.sourcesList(cfg)
	switch plan.Action {
	case types.ActionEnable:
		assert.NotEmpty(ctx, plan.Codename, "codename must be resolved before enable")
		if err := keys.AddKeys(ctx); err != nil {
			return RunResult{}, err
		}
		if err := sources.Enable(ctx, plan.Codename, plan.BaseURIs); err != nil {
			return RunResult{}, err
		}
	case types.ActionDisable:
		keys.RemoveLegacy(ctx)
		if err := keys.RemoveKeys(ctx); err != nil {
			return RunResult{}, err
		}
		if err := sources.Disable(ctx); err != nil {
			return RunResult{}, err
		}
	case types.ActionRefreshKeys:
		if err := keys.RefreshKeys(ctx); err != nil {
			return RunResult{}, err
		}
		if err := sources.Refresh(ctx); err != nil {
			return RunResult{}, err
		}
	}

	if err := s.FileSync.Sync(); err != nil {
		return RunResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to flush filesystem").
			WithCause(err)
	}
	logger.Info().Msg("done")
	return RunResult{
		Action:        plan.Action,
		Codename:      plan.Codename,
		BaseURIs:      plan.BaseURIs,
		TargetKeyring: cfg.Paths.TargetKeyring,
		SourcesList:   cfg.Paths.SourcesList,
	}, nil
}
