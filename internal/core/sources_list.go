package core

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"repository-dist/internal/ports"
	"repository-dist/internal/shared"
	"repository-dist/internal/types"
)

const (
	sourcesListHeader = `## This file has been generated by repository-dist.
## Manual changes will be overwritten the next time repository-dist runs.
## Use "repository-dist --help" to change the configured repository.
`
	sourcesListFooter = `## End of file generated by repository-dist.
`
)

// SourcesListGenerator owns the APT sources list file of the vendor
// repository. The file is always rewritten whole or deleted.
type SourcesListGenerator struct {
	Files     ports.FileWriterPort
	Path      string
	Component string
}

func NewSourcesListGenerator(files ports.FileWriterPort, path string) SourcesListGenerator {
	return SourcesListGenerator{
		Files:     files,
		Path:      path,
		Component: types.DefaultComponent,
	}
}

func (g SourcesListGenerator) Enable(ctx context.Context, codename string, uris []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if g.Files == nil || strings.TrimSpace(g.Path) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("sources list generator requires a file port and path")
	}
	content, err := RenderSourcesList(codename, uris, g.Component)
	if err != nil {
		return err
	}
	if err := g.Files.WriteFile(g.Path, []byte(content), 0644); err != nil {
		return err
	}
	log.Ctx(ctx).Info().Str("path", g.Path).Str("codename", codename).Int("uris", len(uris)).Msg("sources list written")
	return nil
}

func (g SourcesListGenerator) Disable(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	exists, err := shared.FileExists(g.Path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to inspect sources list").
			WithCause(err)
	}
	if !exists {
		log.Ctx(ctx).Debug().Str("path", g.Path).Msg("sources list already absent")
		return nil
	}
	if err := os.Remove(g.Path); err != nil && !os.IsNotExist(err) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to remove sources list").
			WithCause(err)
	}
	if still, _ := shared.FileExists(g.Path); still {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("sources list still present after removal: " + g.Path)
	}
	log.Ctx(ctx).Info().Str("path", g.Path).Msg("sources list removed")
	return nil
}

// Refresh leaves the sources list alone; refreshing only touches keys.
func (g SourcesListGenerator) Refresh(ctx context.Context) error {
	log.Ctx(ctx).Debug().Str("path", g.Path).Msg("sources list unchanged by key refresh")
	return ctx.Err()
}

// RenderSourcesList produces the complete sources list content. Output is
// a pure function of its arguments, so repeated runs are byte-identical.
func RenderSourcesList(codename string, uris []string, component string) (string, error) {
	codename = strings.TrimSpace(codename)
	if codename == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("codename is empty")
	}
	if strings.TrimSpace(component) == "" {
		component = types.DefaultComponent
	}
	cleaned := CleanBaseURIs(uris)
	if len(cleaned) == 0 {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("at least one base uri is required")
	}

	var b strings.Builder
	b.WriteString(sourcesListHeader)
	for _, uri := range cleaned {
		b.WriteString("\n")
		fmt.Fprintf(&b, "deb %s %s %s\n", uri, codename, component)
		fmt.Fprintf(&b, "#deb-src %s %s %s\n", uri, codename, component)
	}
	b.WriteString("\n")
	b.WriteString(sourcesListFooter)
	return b.String(), nil
}

// CleanBaseURIs splits whitespace separated entries and drops blanks
// while preserving order.
func CleanBaseURIs(uris []string) []string {
	var cleaned []string
	for _, entry := range uris {
		cleaned = append(cleaned, strings.Fields(entry)...)
	}
	return cleaned
}
