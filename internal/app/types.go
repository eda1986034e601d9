package app

import "repository-dist/internal/types"

// Plan is the validated, fully resolved form of a Config.
type Plan struct {
	Action   types.Action
	Codename string
	BaseURIs []string
}

type RunResult struct {
	Action        types.Action
	Codename      string
	BaseURIs      []string
	TargetKeyring string
	SourcesList   string
}
