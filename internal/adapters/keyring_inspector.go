package adapters

import (
	"bytes"
	"encoding/hex"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"golang.org/x/crypto/openpgp" //nolint:staticcheck // read-only keyring parsing

	"repository-dist/internal/ports"
)

// KeyringInspectorAdapter parses OpenPGP keyrings natively. It is used to
// sanity check gpg output and to report fingerprints without spawning gpg.
type KeyringInspectorAdapter struct{}

func NewKeyringInspectorAdapter() KeyringInspectorAdapter {
	return KeyringInspectorAdapter{}
}

func (a KeyringInspectorAdapter) Fingerprints(data []byte) ([]string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("key material is empty")
	}
	entities, err := openpgp.ReadKeyRing(bytes.NewReader(data))
	if err != nil || len(entities) == 0 {
		armored, armorErr := openpgp.ReadArmoredKeyRing(bytes.NewReader(data))
		if armorErr != nil {
			if err == nil {
				err = armorErr
			}
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to parse OpenPGP key material").
				WithCause(err)
		}
		entities = armored
	}
	if len(entities) == 0 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("no OpenPGP keys found")
	}
	fingerprints := make([]string, 0, len(entities))
	for _, entity := range entities {
		fingerprints = append(fingerprints, strings.ToUpper(hex.EncodeToString(entity.PrimaryKey.Fingerprint[:])))
	}
	return fingerprints, nil
}

var _ ports.KeyringInspectorPort = KeyringInspectorAdapter{}
