package ports

import "context"

// GPGPort runs keyring operations with an explicit GnuPG home so the
// caller's real keyring is never consulted.
type GPGPort interface {
	Import(ctx context.Context, home string, keyFile string) error
	Export(ctx context.Context, home string) ([]byte, error)
	ListFingerprints(ctx context.Context, home string, keyring string) ([]string, error)
	DeleteKey(ctx context.Context, home string, keyring string, fingerprint string) error
}
