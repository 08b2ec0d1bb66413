package scan

import "strings"

const (
	defaultRootPathConstant        = "."
	defaultNotifyMethodConstant    = "terminal"
	defaultReportFormatConstant    = "table"
	defaultRemoteNameConstant      = "origin"
	configurationRootsKeyConstant  = "tools.scan.roots"
	configurationNotifyKeyConstant = "tools.scan.notify"
	configurationFormatKeyConstant = "tools.scan.format"
	configurationRemoteKeyConstant = "tools.scan.remote"
	configurationFetchKeyConstant  = "tools.scan.fetch"
	configurationDebugKeyConstant  = "tools.scan.debug"
)

// CommandConfiguration captures configuration values for the scan command.
type CommandConfiguration struct {
	Roots       []string `mapstructure:"roots"`
	Notify      string   `mapstructure:"notify"`
	Format      string   `mapstructure:"format"`
	RemoteName  string   `mapstructure:"remote"`
	FetchRemote bool     `mapstructure:"fetch"`
	Debug       bool     `mapstructure:"debug"`
}

// DefaultCommandConfiguration provides baseline configuration values for repository scans.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Roots:       []string{defaultRootPathConstant},
		Notify:      defaultNotifyMethodConstant,
		Format:      defaultReportFormatConstant,
		RemoteName:  defaultRemoteNameConstant,
		FetchRemote: true,
		Debug:       false,
	}
}

// DefaultConfigurationValues exposes scan defaults keyed for the configuration loader.
func DefaultConfigurationValues() map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationRootsKeyConstant:  defaults.Roots,
		configurationNotifyKeyConstant: defaults.Notify,
		configurationFormatKeyConstant: defaults.Format,
		configurationRemoteKeyConstant: defaults.RemoteName,
		configurationFetchKeyConstant:  defaults.FetchRemote,
		configurationDebugKeyConstant:  defaults.Debug,
	}
}

// sanitize trims configuration values and restores defaults for blank entries.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.Roots = sanitizeRoots(configuration.Roots)
	sanitized.Notify = strings.ToLower(strings.TrimSpace(configuration.Notify))
	sanitized.Format = strings.ToLower(strings.TrimSpace(configuration.Format))
	sanitized.RemoteName = strings.TrimSpace(configuration.RemoteName)

	if len(sanitized.Notify) == 0 {
		sanitized.Notify = defaultNotifyMethodConstant
	}
	if len(sanitized.Format) == 0 {
		sanitized.Format = defaultReportFormatConstant
	}

	return sanitized
}

func sanitizeRoots(raw []string) []string {
	sanitized := make([]string, 0, len(raw))
	for _, candidate := range raw {
		trimmed := strings.TrimSpace(candidate)
		if len(trimmed) == 0 {
			continue
		}
		sanitized = append(sanitized, trimmed)
	}
	return sanitized
}
