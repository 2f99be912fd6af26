package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/tomsentry/tax-savings-tool/internal/domain"
)

// AddrEnvVar overrides the HTTP listen address from settings
const AddrEnvVar = "TAXSAVE_ADDR"

// Settings holds user preferences for the taxsave CLI and server.
type Settings struct {
	Output OutputSettings `toml:"output"`
	Server ServerSettings `toml:"server"`
	Tax    TaxSettings    `toml:"tax"`
}

// OutputSettings holds report output preferences.
type OutputSettings struct {
	Format string `toml:"format"`
}

// ServerSettings holds HTTP host settings.
type ServerSettings struct {
	Addr string `toml:"addr"`
}

// TaxSettings replaces the default bracket schedule when Brackets is non-empty.
type TaxSettings struct {
	Brackets domain.BracketSchedule `toml:"brackets,omitempty"`
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	return Settings{
		Output: OutputSettings{Format: "console"},
		Server: ServerSettings{Addr: ":8080"},
	}
}

// SettingsDir returns the XDG-compliant config directory.
func SettingsDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "taxsave")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "taxsave")
}

// SettingsPath returns the full path to the settings file.
func SettingsPath() string {
	return filepath.Join(SettingsDir(), "config.toml")
}

// LoadSettings reads the settings file, returning defaults if it doesn't exist.
func LoadSettings() (Settings, error) {
	cfg := DefaultSettings()

	data, err := os.ReadFile(SettingsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading settings: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing settings: %w", err)
	}
	if len(cfg.Tax.Brackets) > 0 {
		if err := cfg.Tax.Brackets.Validate(); err != nil {
			return cfg, fmt.Errorf("settings tax.brackets: %w", err)
		}
	}

	return cfg, nil
}

// SaveSettings writes the settings to disk.
func SaveSettings(cfg Settings) error {
	dir := SettingsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(SettingsPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating settings file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// ListenAddr returns the HTTP listen address, env var first, then settings.
func (s Settings) ListenAddr() string {
	if addr := os.Getenv(AddrEnvVar); addr != "" {
		return addr
	}
	if s.Server.Addr != "" {
		return s.Server.Addr
	}
	return DefaultSettings().Server.Addr
}
