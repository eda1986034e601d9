package types

const (
	DefaultSourceKey         = "/usr/share/repository-dist/derivative-distribution-signing-key.asc"
	DefaultTargetKeyring     = "/etc/apt/trusted.gpg.d/derivative.gpg"
	DefaultLegacyKeyring     = "/etc/apt/trusted.gpg"
	DefaultSourcesList       = "/etc/apt/sources.list.d/derivative.list"
	DefaultOSRelease         = "/etc/os-release"
	DefaultLegacyFingerprint = "916B8D99C38EAF5E8ADC7A2A8D66066A2EEACCDA"
	DefaultGPGBinary         = "gpg"
	DefaultComponent         = "main"
)

// DefaultBaseURIs returns the clearnet and onion endpoints of the
// vendor repository.
func DefaultBaseURIs() []string {
	return []string{
		"https://deb.kicksecure.com",
		"tor+http://deb.w5j6stm77zs6652pgsij4awcjeel3eco7kvipheu6mtr623eyyehj4yd.onion",
	}
}

// Paths holds every filesystem location the tool reads or owns.
// Only TargetKeyring and SourcesList are fully owned; LegacyKeyring is
// shared with other tools and only the legacy fingerprint is ever
// removed from it.
type Paths struct {
	SourceKey     string `yaml:"source_key"`
	TargetKeyring string `yaml:"target_keyring"`
	LegacyKeyring string `yaml:"legacy_keyring"`
	SourcesList   string `yaml:"sources_list"`
	WorkspaceRoot string `yaml:"workspace_root"`
	OSRelease     string `yaml:"os_release"`
}

func DefaultPaths() Paths {
	return Paths{
		SourceKey:     DefaultSourceKey,
		TargetKeyring: DefaultTargetKeyring,
		LegacyKeyring: DefaultLegacyKeyring,
		SourcesList:   DefaultSourcesList,
		OSRelease:     DefaultOSRelease,
	}
}

// Config is built once from flags and configuration and then passed by
// value into every operation.
type Config struct {
	Action            Action
	Codename          string
	Channel           Channel
	BaseCodename      string
	BaseURIs          []string
	LegacyFingerprint string
	GPGBinary         string
	Paths             Paths
}
