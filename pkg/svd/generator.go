package svd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/OpenTraceLab/regdesc/pkg/loader"
	"github.com/OpenTraceLab/regdesc/pkg/regmodel"
	"github.com/retroenv/retrogolib/log"
)

const (
	schemaVersion  = "1.1"
	xmlnsXS        = "http://www.w3.org/2001/XMLSchema-instance"
	schemaLocation = "CMSIS-SVD.xsd"
)

// RegisterFiles resolves the register file of a peripheral type. An error
// wrapping loader.ErrNoRegisterFile marks a peripheral without registers.
type RegisterFiles interface {
	RegisterFile(peripheral string) (*regmodel.RegisterFile, error)
}

// Generator builds SVD documents for the chips of a vendor data folder.
type Generator struct {
	folder string
	cfg    Config
	logger *log.Logger
}

// New returns a generator reading from the given chip folder. A nil cfg
// selects DefaultConfig, a nil logger the default logger.
func New(folder string, cfg *Config, logger *log.Logger) (*Generator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := *cfg
	if c.Description == "" {
		c.Description = defaultDescription
	}
	if logger == nil {
		logger = log.NewWithConfig(log.DefaultConfig())
	}
	return &Generator{
		folder: folder,
		cfg:    c,
		logger: logger,
	}, nil
}

// GenerateFor builds the SVD document of a chip and writes it to outputPath.
// Every call uses a fresh register file cache. The file is only written once
// the whole document has been built.
func (g *Generator) GenerateFor(chipName, outputPath string) error {
	ld := loader.New(g.folder, loader.WithLogger(g.logger))

	chip, err := ld.LoadChip(chipName)
	if err != nil {
		return err
	}

	dev, err := g.Build(chip, ld)
	if err != nil {
		return err
	}

	data, err := Encode(dev)
	if err != nil {
		return err
	}
	if err := WriteFile(outputPath, data); err != nil {
		return err
	}

	stats := ld.Stats()
	g.logger.Debug("Wrote SVD",
		log.String("chip", chip.Name),
		log.String("path", outputPath),
		log.Int("peripherals", len(dev.Peripherals)),
		log.Int("register_files", stats.FilesParsed))
	return nil
}

// Build converts a chip description into an SVD device tree.
func (g *Generator) Build(chip *regmodel.ChipDescription, files RegisterFiles) (*Device, error) {
	dev := &Device{
		SchemaVersion:  schemaVersion,
		XMLNSXS:        xmlnsXS,
		SchemaLocation: schemaLocation,

		Vendor:      g.cfg.Vendor,
		VendorID:    g.cfg.VendorID,
		Name:        chip.Name,
		Version:     g.cfg.Version,
		Description: g.cfg.Description,

		AddressUnitBits: 8,
		Width:           32,
		Size:            32,
		Access:          "read-write",
		ResetValue:      "0x00000000",
		ResetMask:       "0xFFFFFFFF",
	}

	// peripheral type -> first instance seen of that type
	derivedFrom := make(map[string]string)

	for _, inst := range chip.Peripherals {
		p, err := g.buildPeripheral(inst, derivedFrom, files)
		if err != nil {
			return nil, fmt.Errorf("svd: peripheral %s: %w", inst.Name, err)
		}
		dev.Peripherals = append(dev.Peripherals, p)
	}
	return dev, nil
}

func (g *Generator) buildPeripheral(inst regmodel.PeripheralInstance,
	derivedFrom map[string]string, files RegisterFiles) (*Peripheral, error) {

	groupName := strings.ToUpper(inst.Peripheral)
	p := &Peripheral{
		Name:        strings.ToUpper(inst.Name),
		Description: inst.Description,
		GroupName:   groupName,
		BaseAddress: hex(inst.Address, 8),
	}
	if inst.Size != nil {
		p.AddressBlock = &AddressBlock{
			Offset: 0,
			Size:   hex(*inst.Size, 8),
			Usage:  "registers",
		}
	}

	if groupName != "" {
		if source, ok := derivedFrom[groupName]; ok {
			p.DerivedFrom = source
			p.AddressBlock = nil
		} else {
			derivedFrom[groupName] = p.Name
		}
	}

	if p.DerivedFrom != "" && !g.cfg.DerivedRegisters {
		return p, nil
	}

	rf, err := files.RegisterFile(inst.Peripheral)
	if errors.Is(err, loader.ErrNoRegisterFile) {
		return p, nil
	}
	if err != nil {
		return nil, err
	}

	registers, err := g.buildRegisters(p.Name, rf)
	if err != nil {
		return nil, err
	}
	p.Registers = &Registers{Register: registers}
	return p, nil
}

func (g *Generator) buildRegisters(peripheral string, rf *regmodel.RegisterFile) ([]*Register, error) {
	registers := make([]*Register, 0, len(rf.Registers))
	for _, r := range rf.Registers {
		reg := &Register{
			Name:          r.Name,
			Description:   r.Description,
			AddressOffset: hex(uint64(r.OffsetBytes), 2),
			Size:          r.SizeBytes * 8,
		}

		if r.Fieldset != "" {
			fs, err := rf.Fieldset(r.Fieldset)
			if err != nil {
				return nil, fmt.Errorf("register %s: %w", r.Name, err)
			}
			fields := make([]*Field, 0, len(fs.Fields))
			for _, f := range fs.Fields {
				fields = append(fields, g.buildField(peripheral, r.Name, f))
			}
			reg.Fields = &Fields{Field: fields}
		}

		registers = append(registers, reg)
	}
	return registers, nil
}

func (g *Generator) buildField(peripheral, register string, f regmodel.Field) *Field {
	access := regmodel.ParseAccess(f.Access)
	if access == regmodel.AccessUnknown {
		g.logger.Warn("Unknown field access",
			log.String("peripheral", peripheral),
			log.String("register", register),
			log.String("field", f.Name),
			log.String("access", f.Access))
	}
	value, _ := access.SVD()

	return &Field{
		Name:        f.Name,
		Description: f.Description,
		BitOffset:   f.OffsetBits,
		BitWidth:    f.SizeBits,
		Access:      value,
	}
}

// hex formats v as 0x-prefixed upper case hex, zero padded to width digits.
func hex(v uint64, width int) string {
	return fmt.Sprintf("0x%0*X", width, v)
}
