package cli

import (
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"repository-dist/internal/types"
)

func initConfig(configFile string) error {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read config file").
				WithCause(err)
		}
		return nil
	}

	viper.SetConfigName("repository-dist")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/repository-dist")
	viper.AddConfigPath("$HOME/.config/repository-dist")
	if err := viper.ReadInConfig(); err != nil {
		return nil
	}
	return nil
}

type actionOptions struct {
	Enable      bool
	Disable     bool
	RefreshKeys bool
	Codename    string
	Repository  string
	BaseURI     string
}

func (o actionOptions) action() (types.Action, error) {
	var selected []types.Action
	if o.Enable {
		selected = append(selected, types.ActionEnable)
	}
	if o.Disable {
		selected = append(selected, types.ActionDisable)
	}
	if o.RefreshKeys {
		selected = append(selected, types.ActionRefreshKeys)
	}
	switch len(selected) {
	case 0:
		return types.ActionNone, nil
	case 1:
		return selected[0], nil
	default:
		return types.ActionNone, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("only one of --enable, --disable or --refresh-keys may be given")
	}
}

// buildConfig merges flags, environment and the config file into the
// immutable record handed to the app layer.
func buildConfig(cmd *cobra.Command, opts actionOptions) (types.Config, error) {
	action, err := opts.action()
	if err != nil {
		return types.Config{}, err
	}
	explicit := []struct {
		name  string
		value string
	}{
		{name: "codename", value: opts.Codename},
		{name: "repository", value: opts.Repository},
	}
	for _, flag := range explicit {
		if flagChanged(cmd, flag.name) && strings.TrimSpace(flag.value) == "" {
			return types.Config{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("--" + flag.name + " must not be empty")
		}
	}
	if action != types.ActionEnable && (opts.Codename != "" || opts.Repository != "" || opts.BaseURI != "") {
		return types.Config{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("--codename, --repository and --baseuri only apply to --enable")
	}

	defaults := types.DefaultPaths()
	cfg := types.Config{
		Action:            action,
		Codename:          strings.TrimSpace(resolveString(cmd, opts.Codename, "codename", "codename")),
		Channel:           types.Channel(strings.TrimSpace(resolveString(cmd, opts.Repository, "repository", "repository"))),
		BaseCodename:      strings.TrimSpace(viper.GetString("base_codename")),
		BaseURIs:          types.DefaultBaseURIs(),
		LegacyFingerprint: stringOr("legacy_fingerprint", types.DefaultLegacyFingerprint),
		GPGBinary:         stringOr("gpg_binary", types.DefaultGPGBinary),
		Paths: types.Paths{
			SourceKey:     stringOr("source_key", defaults.SourceKey),
			TargetKeyring: stringOr("target_keyring", defaults.TargetKeyring),
			LegacyKeyring: stringOr("legacy_keyring", defaults.LegacyKeyring),
			SourcesList:   stringOr("sources_list", defaults.SourcesList),
			WorkspaceRoot: stringOr("workspace_root", os.TempDir()),
			OSRelease:     stringOr("os_release", defaults.OSRelease),
		},
	}
	if flagChanged(cmd, "repository") && !flagChanged(cmd, "codename") {
		// A channel on the command line overrides a configured codename.
		cfg.Codename = ""
	}
	if flagChanged(cmd, "baseuri") {
		cfg.BaseURIs = strings.Fields(opts.BaseURI)
	} else if configured := viper.GetStringSlice("base_uris"); len(configured) > 0 {
		cfg.BaseURIs = configured
	}
	return cfg, nil
}

func stringOr(key string, fallback string) string {
	if value := strings.TrimSpace(viper.GetString(key)); value != "" {
		return value
	}
	return fallback
}

func channelList() string {
	names := make([]string, 0, len(types.Channels()))
	for _, channel := range types.Channels() {
		names = append(names, string(channel))
	}
	return strings.Join(names, ", ")
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
