package svd

import "errors"

const defaultDescription = "To be added"

// Config controls the device metadata and derivation behavior of the SVD
// generator.
type Config struct {
	// Device metadata. The source data carries none of it, so these are
	// placeholders until the vendor files do.
	Vendor      string
	VendorID    string
	Version     string
	Description string

	// DerivedRegisters attaches the register list to derived peripherals too
	// instead of leaving it to be inherited through derivedFrom.
	DerivedRegisters bool
}

// DefaultConfig returns a Config with the Bouffalo Lab vendor metadata.
func DefaultConfig() *Config {
	return &Config{
		Vendor:           "Bouffalo Lab",
		VendorID:         "bouffalolab",
		Version:          "0.1",
		Description:      defaultDescription,
		DerivedRegisters: false,
	}
}

// Validate checks the configuration for errors. It does not modify c.
func (c *Config) Validate() error {
	if c.Vendor == "" {
		return errors.New("svd: vendor must not be empty")
	}
	if c.Version == "" {
		return errors.New("svd: version must not be empty")
	}
	return nil
}
