// Package config handles logger setup and the optional settings file of the
// regdesc command.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/OpenTraceLab/regdesc/pkg/cheader"
	"github.com/OpenTraceLab/regdesc/pkg/svd"
	"github.com/retroenv/retrogolib/log"
	"gopkg.in/yaml.v3"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Output = os.Stderr // stdout carries generated output
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// Settings are the values that can be stored in a settings file. Command
// line flags override them.
type Settings struct {
	Data         string      `yaml:"data"`          // chip folder
	HeaderDir    string      `yaml:"header_dir"`    // C header output directory
	OnlyVerified bool        `yaml:"only_verified"` // headers: verified registers only
	SVD          SVDSettings `yaml:"svd"`
}

// SVDSettings holds the device metadata of generated SVD files.
type SVDSettings struct {
	Vendor           string `yaml:"vendor"`
	VendorID         string `yaml:"vendor_id"`
	Version          string `yaml:"version"`
	Description      string `yaml:"description"`
	DerivedRegisters bool   `yaml:"derived_registers"`
}

// DefaultSettings returns the settings used without a settings file.
func DefaultSettings() *Settings {
	def := svd.DefaultConfig()
	return &Settings{
		Data:      ".",
		HeaderDir: cheader.DefaultDir,
		SVD: SVDSettings{
			Vendor:           def.Vendor,
			VendorID:         def.VendorID,
			Version:          def.Version,
			Description:      def.Description,
			DerivedRegisters: def.DerivedRegisters,
		},
	}
}

// LoadSettings reads a settings file on top of the defaults. An empty path
// returns the defaults. Keys missing from the file keep their default.
func LoadSettings(path string) (*Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: settings file %s not found", path)
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return settings, nil
}

// SVDConfig converts the SVD settings into a generator configuration.
func (s *Settings) SVDConfig() *svd.Config {
	return &svd.Config{
		Vendor:           s.SVD.Vendor,
		VendorID:         s.SVD.VendorID,
		Version:          s.SVD.Version,
		Description:      s.SVD.Description,
		DerivedRegisters: s.SVD.DerivedRegisters,
	}
}

// HeaderOptions converts the settings into C header generator options.
func (s *Settings) HeaderOptions() cheader.Options {
	return cheader.Options{OnlyVerified: s.OnlyVerified}
}
