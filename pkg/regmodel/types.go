package regmodel

import (
	"errors"
	"fmt"
)

// RegisterWidth is the only register size, in bytes, the generators support.
const RegisterWidth = 4

// ErrFieldsetNotFound is returned when a register names a fieldset that the
// register file does not define.
var ErrFieldsetNotFound = errors.New("fieldset not found")

// Register is one memory-mapped word within a peripheral's address range.
type Register struct {
	Name        string `yaml:"name"`
	OffsetBytes uint32 `yaml:"offset_bytes"`
	SizeBytes   uint32 `yaml:"size_bytes"`
	Description string `yaml:"description"`
	Fieldset    string `yaml:"fieldset"`
	Verified    bool   `yaml:"verified"`
}

// End returns the first byte offset past the register.
func (r Register) End() uint32 {
	return r.OffsetBytes + r.SizeBytes
}

// Field is a bit range within a register.
type Field struct {
	Name        string `yaml:"name"`
	OffsetBits  uint32 `yaml:"offset_bits"`
	SizeBits    uint32 `yaml:"size_bits"`
	Access      string `yaml:"access"`
	Description string `yaml:"description"`
}

// Fieldset is a named, reusable set of fields. Registers refer to it by name.
type Fieldset struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Fields      []Field `yaml:"fields"`
}

// RegisterFile is the register layout of one peripheral type.
type RegisterFile struct {
	Registers []Register `yaml:"registers"`
	Fieldsets []Fieldset `yaml:"fieldsets"`
}

// Fieldset resolves a fieldset by name. A missing fieldset is an input error,
// fields are never synthesized.
func (rf *RegisterFile) Fieldset(name string) (*Fieldset, error) {
	for i := range rf.Fieldsets {
		if rf.Fieldsets[i].Name == name {
			return &rf.Fieldsets[i], nil
		}
	}
	return nil, fmt.Errorf("regmodel: %q: %w", name, ErrFieldsetNotFound)
}

// PeripheralInstance places a peripheral type at a base address.
type PeripheralInstance struct {
	Name        string  `yaml:"name"`
	Peripheral  string  `yaml:"peripheral"` // type identifier, e.g. "uart"
	Address     uint64  `yaml:"address"`
	Size        *uint64 `yaml:"size"`
	Description string  `yaml:"description"`
}

// ChipDescription is a chip and its peripheral instances in source order.
type ChipDescription struct {
	Name        string               `yaml:"name"`
	Peripherals []PeripheralInstance `yaml:"peripherals"`
}

// InstancesOf returns the instances of the given peripheral type.
func (c *ChipDescription) InstancesOf(peripheral string) []PeripheralInstance {
	var out []PeripheralInstance
	for _, p := range c.Peripherals {
		if p.Peripheral == peripheral {
			out = append(out, p)
		}
	}
	return out
}
