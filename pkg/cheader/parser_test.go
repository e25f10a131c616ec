package cheader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OpenTraceLab/regdesc/pkg/regmodel"
	"github.com/retroenv/retrogolib/assert"
)

func TestParseGeneratedHeader(t *testing.T) {
	rf := &regmodel.RegisterFile{Registers: []regmodel.Register{
		{Name: "CTRL", OffsetBytes: 0x4, SizeBytes: 4, Description: "Control, with comma"},
		reg("STATUS", 0x10),
	}}
	text, err := New(Options{}).Generate(rf, "spi")
	assert.NoError(t, err)

	parser, err := NewParser()
	assert.NoError(t, err)
	hdr, err := parser.ParseString(text)
	assert.NoError(t, err)

	assert.Equal(t, "__PERI_SPI_H_", hdr.Guard)
	assert.Equal(t, "spi_regs", hdr.Struct.Name)
	assert.Equal(t, 4, len(hdr.Struct.Members))
	assert.Equal(t, "_rsvd0", hdr.Struct.Members[0].Name)
	assert.Equal(t, 1, hdr.Struct.Members[0].Elements())
	assert.Equal(t, "_rsvd8", hdr.Struct.Members[2].Name)
	assert.Equal(t, 2, hdr.Struct.Members[2].Elements())

	ranges, err := hdr.Ranges()
	assert.NoError(t, err)
	assert.Equal(t, 0x14, ranges[len(ranges)-1].End)
	assert.Equal(t, 0x10, ranges[3].Start)

	assert.Equal(t, 0, len(Check(hdr)))
}

func TestParseMultiLineDescription(t *testing.T) {
	rf := &regmodel.RegisterFile{Registers: []regmodel.Register{
		{Name: "CTRL", OffsetBytes: 0x0, SizeBytes: 4, Description: "Control register.\nBit 0 enables the block\n"},
		{Name: "CFG", OffsetBytes: 0x8, SizeBytes: 4, Description: "Config\r\n\n  second line"},
	}}
	text, err := New(Options{}).Generate(rf, "blk")
	assert.NoError(t, err)
	assert.True(t, strings.Contains(text,
		"  // Control register.\n  // Bit 0 enables the block, Offset: 0x0\n  uint32_t CTRL;\n"), text)
	assert.True(t, strings.Contains(text,
		"  // Config\n  // second line, Offset: 0x8\n  uint32_t CFG;\n"), text)

	parser, err := NewParser()
	assert.NoError(t, err)
	hdr, err := parser.ParseString(text)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(hdr.Struct.Members))
	assert.Equal(t, 0, len(Check(hdr)))
}

func TestParseBlockComments(t *testing.T) {
	input := `
/* generated */
#ifndef __PERI_T_H_
#define __PERI_T_H_
typedef struct {
  uint32_t A; /* first */
  uint32_t _rsvd4[3];
} t_regs;
#endif
`
	parser, err := NewParser()
	assert.NoError(t, err)
	hdr, err := parser.ParseString(input)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(Check(hdr)))
}

func TestParseRejectsGarbage(t *testing.T) {
	parser, err := NewParser()
	assert.NoError(t, err)
	_, err = parser.ParseString("#ifndef X\nstruct {};")
	assert.True(t, err != nil, "expected an error")
}

func TestCheckFindsIssues(t *testing.T) {
	input := `
#ifndef __PERI_UART_H_
#define __PERI_UART_H
typedef struct {
  uint32_t A;
  uint16_t HALF;
  uint32_t _rsvd4[0];
  uint32_t A;
} uart_regs;
#endif
`
	parser, err := NewParser()
	assert.NoError(t, err)
	hdr, err := parser.ParseString(input)
	assert.NoError(t, err)

	var messages []string
	for _, issue := range Check(hdr) {
		messages = append(messages, issue.String())
	}
	joined := strings.Join(messages, "\n")
	assert.True(t, strings.Contains(joined, "does not match define"))
	assert.True(t, strings.Contains(joined, "HALF @0x4: member is 2 bytes wide"))
	assert.True(t, strings.Contains(joined, "empty reserved filler"))
	assert.True(t, strings.Contains(joined, "reserved filler should be named _rsvd6"))
	assert.True(t, strings.Contains(joined, "duplicate member"))
}

func TestCheckUnsupportedType(t *testing.T) {
	input := "#ifndef G\n#define G\ntypedef struct { float F; } x;\n#endif\n"
	parser, err := NewParser()
	assert.NoError(t, err)
	hdr, err := parser.ParseString(input)
	assert.NoError(t, err)

	issues := Check(hdr)
	assert.Equal(t, 1, len(issues))
	assert.True(t, strings.Contains(issues[0].Message, "unsupported type float"))
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	rf := &regmodel.RegisterFile{Registers: []regmodel.Register{reg("A", 0x0)}}
	path, err := New(Options{}).WriteFile(dir, rf, "glb")
	assert.NoError(t, err)

	parser, err := NewParser()
	assert.NoError(t, err)
	hdr, err := parser.ParseFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "glb_regs", hdr.Struct.Name)

	_, err = parser.ParseFile(filepath.Join(dir, "missing.h"))
	assert.True(t, err != nil, "expected an error")
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}
