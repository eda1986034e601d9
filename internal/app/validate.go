package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"repository-dist/internal/core"
	"repository-dist/internal/types"
)

// Plan validates cfg and resolves everything an action needs before any
// file is touched. Configuration errors surface here and nowhere later.
func (s Service) Plan(ctx context.Context, cfg types.Config) (Plan, error) {
	if err := validatePaths(cfg); err != nil {
		return Plan{}, err
	}
	switch cfg.Action {
	case types.ActionDisable, types.ActionRefreshKeys:
		return Plan{Action: cfg.Action}, nil
	case types.ActionEnable:
	case types.ActionNone:
		return Plan{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("an action is required: enable, disable or refresh-keys")
	default:
		return Plan{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unsupported action: " + string(cfg.Action))
	}

	uris := core.CleanBaseURIs(cfg.BaseURIs)
	if len(uris) == 0 {
		return Plan{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("at least one base uri is required")
	}
	codename, err := s.resolveCodename(ctx, cfg)
	if err != nil {
		return Plan{}, err
	}
	return Plan{Action: cfg.Action, Codename: codename, BaseURIs: uris}, nil
}

func (s Service) resolveCodename(ctx context.Context, cfg types.Config) (string, error) {
	if strings.TrimSpace(cfg.Codename) != "" {
		return core.SelectCodename(cfg.Codename, "", "")
	}
	channel := types.Channel(strings.TrimSpace(string(cfg.Channel)))
	if channel == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("either a codename or a repository channel is required")
	}
	if !core.ValidChannel(channel) {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unsupported repository channel: " + string(channel))
	}
	base := strings.TrimSpace(cfg.BaseCodename)
	if base == "" {
		if s.OSRelease == nil {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("base codename is not configured and cannot be detected")
		}
		detected, err := s.OSRelease.Codename(cfg.Paths.OSRelease)
		if err != nil {
			return "", err
		}
		log.Ctx(ctx).Debug().Str("codename", detected).Str("os_release", cfg.Paths.OSRelease).Msg("detected base codename")
		base = detected
	}
	return core.SelectCodename("", base, channel)
}

func validatePaths(cfg types.Config) error {
	required := map[string]string{
		"source key":         cfg.Paths.SourceKey,
		"target keyring":     cfg.Paths.TargetKeyring,
		"legacy keyring":     cfg.Paths.LegacyKeyring,
		"sources list":       cfg.Paths.SourcesList,
		"legacy fingerprint": cfg.LegacyFingerprint,
	}
	for _, name := range []string{"source key", "target keyring", "legacy keyring", "sources list", "legacy fingerprint"} {
		if strings.TrimSpace(required[name]) == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(name + " must be set")
		}
	}
	return nil
}
