// Package loader reads chip and register-file descriptions from a vendor data
// folder and caches register files for the duration of one generation run.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/OpenTraceLab/regdesc/pkg/regmodel"
	"github.com/retroenv/retrogolib/log"
	"gopkg.in/yaml.v3"
)

// ErrNoRegisterFile signals that a peripheral type has no register-file
// description on disk. It is not a failure: the peripheral is simply not
// modeled.
var ErrNoRegisterFile = errors.New("no register file")

const (
	chipsDir       = "chips"
	peripheralsDir = "peripherals"
)

// Stats reports cache activity of a Loader.
type Stats struct {
	Hits        int // lookups served from the cache
	Misses      int // lookups that went to disk
	FilesParsed int // register-file documents decoded
}

// Loader resolves descriptions below a chip folder:
//
//	<folder>/chips/<chip>.yaml
//	<folder>/peripherals/<type>.yaml or <type>_reg.yaml
//
// A Loader is the cache of one run. Create a new one for every run instead of
// sharing it.
type Loader struct {
	folder string
	logger *log.Logger

	// nil values record types without a register file
	files map[string]*regmodel.RegisterFile
	stats Stats
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// New returns a Loader for the given chip folder.
func New(folder string, opts ...Option) *Loader {
	l := &Loader{
		folder: folder,
		files:  make(map[string]*regmodel.RegisterFile),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = log.NewWithConfig(log.DefaultConfig())
	}
	return l
}

// Folder returns the chip folder the loader reads from.
func (l *Loader) Folder() string {
	return l.folder
}

// Stats returns the cache counters.
func (l *Loader) Stats() Stats {
	return l.stats
}

// LoadChip reads the chip description <folder>/chips/<name>.yaml.
func (l *Loader) LoadChip(name string) (*regmodel.ChipDescription, error) {
	path := filepath.Join(l.folder, chipsDir, name+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read chip %s: %w", name, err)
	}

	var chip regmodel.ChipDescription
	if err := decode(data, &chip); err != nil {
		return nil, fmt.Errorf("loader: decode %s: %w", path, err)
	}
	if chip.Name == "" {
		chip.Name = name
	}

	l.logger.Debug("Loaded chip",
		log.String("chip", chip.Name),
		log.Int("peripherals", len(chip.Peripherals)))
	return &chip, nil
}

// RegisterFile returns the register file of a peripheral type. The primary
// file name is tried first, then the legacy "_reg" suffixed one. If neither
// exists the returned error wraps ErrNoRegisterFile. Results, including
// absence, are cached per type.
func (l *Loader) RegisterFile(peripheral string) (*regmodel.RegisterFile, error) {
	if rf, ok := l.files[peripheral]; ok {
		l.stats.Hits++
		if rf == nil {
			return nil, notFound(peripheral)
		}
		return rf, nil
	}
	l.stats.Misses++

	if peripheral == "" {
		l.files[peripheral] = nil
		return nil, notFound(peripheral)
	}

	for _, name := range candidateNames(peripheral) {
		path := filepath.Join(l.folder, peripheralsDir, name)
		rf, err := l.LoadRegisterFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}

		l.files[peripheral] = rf
		l.logger.Debug("Loaded register file",
			log.String("peripheral", peripheral),
			log.String("path", path),
			log.Int("registers", len(rf.Registers)))
		return rf, nil
	}

	l.files[peripheral] = nil
	l.logger.Debug("No register file", log.String("peripheral", peripheral))
	return nil, notFound(peripheral)
}

// LoadRegisterFile decodes a single register-file document. It bypasses the
// cache; a missing file returns an error wrapping fs.ErrNotExist.
func (l *Loader) LoadRegisterFile(path string) (*regmodel.RegisterFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}
	rf, err := ParseRegisterFile(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("loader: decode %s: %w", path, err)
	}
	l.stats.FilesParsed++
	return rf, nil
}

// ParseRegisterFile decodes a register-file document from r.
func ParseRegisterFile(r io.Reader) (*regmodel.RegisterFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var rf regmodel.RegisterFile
	if err := decode(data, &rf); err != nil {
		return nil, err
	}
	return &rf, nil
}

func candidateNames(peripheral string) []string {
	return []string{peripheral + ".yaml", peripheral + "_reg.yaml"}
}

func notFound(peripheral string) error {
	return fmt.Errorf("loader: peripheral %q: %w", peripheral, ErrNoRegisterFile)
}

// decode unmarshals a YAML document. An empty document leaves v untouched.
func decode(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
