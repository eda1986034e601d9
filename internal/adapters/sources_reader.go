package adapters

import (
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"repository-dist/internal/ports"
	"repository-dist/internal/types"
)

type SourcesListReaderAdapter struct{}

func NewSourcesListReaderAdapter() SourcesListReaderAdapter {
	return SourcesListReaderAdapter{}
}

// ReadRepositories parses the active entries of a one-line-style sources
// list. Comments and blank lines are skipped.
func (a SourcesListReaderAdapter) ReadRepositories(path string) ([]types.RepositoryEntry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("sources list not found").
			WithCause(err)
	}
	var entries []types.RepositoryEntry
	for _, line := range strings.Split(string(content), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		entry, err := parseRepositoryLine(trimmed)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseRepositoryLine(line string) (types.RepositoryEntry, error) {
	if idx := strings.Index(line, "#"); idx >= 0 {
		line = strings.TrimSpace(line[:idx])
	}
	fields := strings.Fields(line)
	if len(fields) == 0 || (fields[0] != "deb" && fields[0] != "deb-src") {
		return types.RepositoryEntry{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid sources list entry: " + line)
	}
	entry := types.RepositoryEntry{Type: fields[0]}
	rest := fields[1:]
	if len(rest) > 0 && strings.HasPrefix(rest[0], "[") {
		end := -1
		for i, field := range rest {
			if strings.HasSuffix(field, "]") {
				end = i
				break
			}
		}
		if end < 0 {
			return types.RepositoryEntry{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("unterminated options in sources list entry: " + line)
		}
		options := strings.Fields(strings.Trim(strings.Join(rest[:end+1], " "), "[]"))
		entry.Options = options
		rest = rest[end+1:]
	}
	// A suite ending in "/" is an exact path and takes no components.
	if len(rest) < 2 || (len(rest) < 3 && !strings.HasSuffix(rest[1], "/")) {
		return types.RepositoryEntry{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("incomplete sources list entry: " + line)
	}
	entry.URI = rest[0]
	entry.Suite = rest[1]
	entry.Components = rest[2:]
	return entry, nil
}

var _ ports.SourcesListReaderPort = SourcesListReaderAdapter{}
