package adapters

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/joho/godotenv"

	"repository-dist/internal/ports"
)

// codenameKeys are tried in order. Derivatives that rebrand
// VERSION_CODENAME usually keep the upstream one in DEBIAN_CODENAME.
var codenameKeys = []string{"VERSION_CODENAME", "DEBIAN_CODENAME", "UBUNTU_CODENAME"}

type OSReleaseAdapter struct{}

func NewOSReleaseAdapter() OSReleaseAdapter {
	return OSReleaseAdapter{}
}

func (a OSReleaseAdapter) Codename(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("os-release path is empty")
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read os-release").
			WithCause(err)
	}
	for _, key := range codenameKeys {
		if codename := strings.TrimSpace(values[key]); codename != "" {
			return codename, nil
		}
	}
	return "", errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg("os-release does not declare a codename")
}

var _ ports.OSReleasePort = OSReleaseAdapter{}
