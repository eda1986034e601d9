package ports

// KeyringInspectorPort reads OpenPGP key material without gpg.
type KeyringInspectorPort interface {
	// Fingerprints accepts binary or ASCII-armored key material and
	// returns the upper-case hex fingerprints of its primary keys.
	Fingerprints(data []byte) ([]string, error)
}
