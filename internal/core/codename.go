package core

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"repository-dist/internal/types"
)

var channelSuffixes = map[types.Channel]string{
	types.ChannelStable:                "",
	types.ChannelStableProposedUpdates: "-proposed-updates",
	types.ChannelTesters:               "-testers",
	types.ChannelDevelopers:            "-developers",
}

// ResolveCodename maps a repository channel onto the distribution
// codename used in the sources list.
func ResolveCodename(base string, channel types.Channel) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("base codename is empty")
	}
	suffix, ok := channelSuffixes[types.Channel(strings.TrimSpace(string(channel)))]
	if !ok {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unsupported repository channel: " + string(channel))
	}
	return base + suffix, nil
}

// SelectCodename returns the explicit codename when one was given and
// otherwise derives it from the channel.
func SelectCodename(explicit string, base string, channel types.Channel) (string, error) {
	if codename := strings.TrimSpace(explicit); codename != "" {
		if strings.ContainsAny(codename, " \t\n") {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("codename must not contain whitespace")
		}
		return codename, nil
	}
	if strings.TrimSpace(string(channel)) == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("either a codename or a repository channel is required")
	}
	return ResolveCodename(base, channel)
}

// ValidChannel reports whether channel has a codename mapping.
func ValidChannel(channel types.Channel) bool {
	_, ok := channelSuffixes[channel]
	return ok
}
