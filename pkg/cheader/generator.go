package cheader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/OpenTraceLab/regdesc/pkg/regmodel"
)

var (
	// ErrUnsupportedSize is returned for registers that are not one word wide.
	ErrUnsupportedSize = errors.New("unsupported register size")
	// ErrMisaligned is returned for registers not on a word boundary.
	ErrMisaligned = errors.New("register offset not word aligned")
	// ErrOverlap is returned when two registers share bytes.
	ErrOverlap = errors.New("registers overlap")
)

// DefaultDir is the directory headers are written to when none is given.
const DefaultDir = "c-output"

// Options controls header generation.
type Options struct {
	OnlyVerified bool // drop registers without the verified flag
}

// Member is one entry of the generated struct.
type Member struct {
	Name        string
	Offset      uint32 // byte offset from the peripheral base
	Words       uint32 // 32-bit words covered
	Reserved    bool   // synthesized gap filler
	Description string
}

// Size returns the member size in bytes.
func (m Member) Size() uint32 {
	return m.Words * regmodel.RegisterWidth
}

// Generator renders register files as C struct headers.
type Generator struct {
	opts Options
}

// New returns a header generator.
func New(opts Options) *Generator {
	return &Generator{opts: opts}
}

// Layout computes the struct members for a register file: registers sorted by
// offset with reserved fillers covering every gap, starting at offset 0.
func (g *Generator) Layout(rf *regmodel.RegisterFile) ([]Member, error) {
	regs := make([]regmodel.Register, 0, len(rf.Registers))
	for _, reg := range rf.Registers {
		if g.opts.OnlyVerified && !reg.Verified {
			continue
		}
		regs = append(regs, reg)
	}
	sort.SliceStable(regs, func(i, j int) bool {
		return regs[i].OffsetBytes < regs[j].OffsetBytes
	})

	members := make([]Member, 0, len(regs))
	var prev *regmodel.Register
	for i := range regs {
		reg := &regs[i]
		if reg.SizeBytes != regmodel.RegisterWidth {
			return nil, fmt.Errorf("cheader: register %s has %d bytes: %w",
				reg.Name, reg.SizeBytes, ErrUnsupportedSize)
		}
		if reg.OffsetBytes%regmodel.RegisterWidth != 0 {
			return nil, fmt.Errorf("cheader: register %s at 0x%X: %w",
				reg.Name, reg.OffsetBytes, ErrMisaligned)
		}

		var end uint32
		if prev != nil {
			end = prev.End()
		}
		if end > reg.OffsetBytes {
			return nil, fmt.Errorf("cheader: %s and %s: %w", prev.Name, reg.Name, ErrOverlap)
		}
		if end != reg.OffsetBytes {
			members = append(members, Member{
				Name:     ReservedName(end),
				Offset:   end,
				Words:    (reg.OffsetBytes - end) / regmodel.RegisterWidth,
				Reserved: true,
			})
		}

		members = append(members, Member{
			Name:        reg.Name,
			Offset:      reg.OffsetBytes,
			Words:       1,
			Description: reg.Description,
		})
		prev = reg
	}
	return members, nil
}

// Generate renders the header text for a peripheral.
func (g *Generator) Generate(rf *regmodel.RegisterFile, peripheral string) (string, error) {
	members, err := g.Layout(rf)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, 2*len(members))
	for _, m := range members {
		if m.Reserved {
			lines = append(lines, "// Reserved")
			lines = append(lines, fmt.Sprintf("uint32_t %s[%d];", m.Name, m.Words))
			continue
		}
		comments := commentLines(m.Description)
		offset := fmt.Sprintf("Offset: 0x%x", m.Offset)
		if n := len(comments); n > 0 {
			comments[n-1] += ", " + offset
		} else {
			comments = append(comments, offset)
		}
		for _, c := range comments {
			lines = append(lines, "// "+c)
		}
		lines = append(lines, fmt.Sprintf("uint32_t %s;", m.Name))
	}

	guard := GuardMacro(peripheral)
	var b strings.Builder
	fmt.Fprintf(&b, "#ifndef %s\n#define %s\n\n", guard, guard)
	b.WriteString("typedef struct {\n")
	for _, line := range lines {
		b.WriteString("  " + line + "\n")
	}
	fmt.Fprintf(&b, "} %s;\n\n#endif\n", StructName(peripheral))
	return b.String(), nil
}

// WriteFile renders the header and writes it to <dir>/<peripheral>.h. Nothing
// is written if rendering fails.
func (g *Generator) WriteFile(dir string, rf *regmodel.RegisterFile, peripheral string) (string, error) {
	text, err := g.Generate(rf, peripheral)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cheader: create %s: %w", dir, err)
	}
	path := filepath.Join(dir, peripheral+".h")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("cheader: write %s: %w", path, err)
	}
	return path, nil
}

// commentLines splits a description into the lines of a // comment. Blank
// lines are dropped, a line comment cannot span a line break.
func commentLines(description string) []string {
	var lines []string
	for _, line := range strings.Split(description, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// ReservedName returns the filler member name for a gap starting at offset.
func ReservedName(offset uint32) string {
	return fmt.Sprintf("_rsvd%X", offset)
}

// GuardMacro returns the include guard of a peripheral header.
func GuardMacro(peripheral string) string {
	return "__PERI_" + strings.ToUpper(peripheral) + "_H_"
}

// StructName returns the typedef name of a peripheral's register struct.
func StructName(peripheral string) string {
	return peripheral + "_regs"
}
