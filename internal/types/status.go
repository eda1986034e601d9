package types

// TrustStatus is the read-only report produced by the status command.
type TrustStatus struct {
	LegacyKeyring      string   `yaml:"legacy_keyring"`
	LegacyEntryPresent bool     `yaml:"legacy_entry_present"`
	SourceKey          string   `yaml:"source_key"`
	SourceFingerprints []string `yaml:"source_fingerprints"`
	TargetKeyring      string   `yaml:"target_keyring"`
	TargetPresent      bool     `yaml:"target_present"`
	TargetFingerprints []string `yaml:"target_fingerprints,omitempty"`
	TargetCurrent      bool     `yaml:"target_current"`
	SourcesList        string   `yaml:"sources_list"`
	SourcesListPresent bool     `yaml:"sources_list_present"`
	Repositories       []string `yaml:"repositories,omitempty"`
}
