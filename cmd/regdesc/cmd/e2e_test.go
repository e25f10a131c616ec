package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OpenTraceLab/regdesc/pkg/svd"
	"github.com/retroenv/retrogolib/assert"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const testChip = "../../../testdata/bl702"

// resetFlags restores every flag to its default so that state from a
// previous Execute does not leak into the next test.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// run executes the root command with args and returns its output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append(args, "--quiet"))
	err := rootCmd.Execute()
	return buf.String(), err
}

// TestHeaderE2E tests the header command end-to-end
func TestHeaderE2E(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantContain []string
		wantMissing []string
	}{
		{
			name: "legacy register file name",
			args: []string{"header", "glb", "-d", testChip, "--stdout"},
			wantContain: []string{
				"#ifndef __PERI_GLB_H_",
				"  // Clock configuration 0, Offset: 0x0\n  uint32_t clk_cfg0;",
				"  // Reserved\n  uint32_t _rsvd4[1];",
				"  // Clock configuration 2, Offset: 0x8\n  uint32_t clk_cfg2;",
				"} glb_regs;\n\n#endif\n",
			},
		},
		{
			name: "only verified registers",
			args: []string{"header", "uart", "-d", testChip, "--stdout", "--only-verified"},
			wantContain: []string{
				"uint32_t utx_config;",
				"uint32_t _rsvd4[9];",
				"uint32_t uart_int_clear;",
			},
			wantMissing: []string{"urx_config"},
		},
		{
			name: "explicit register file",
			args: []string{"header", "glb", "--file", filepath.Join(testChip, "peripherals", "uart.yaml"), "--stdout"},
			wantContain: []string{
				"__PERI_GLB_H_",
				"uint32_t urx_config;",
				"} glb_regs;",
			},
		},
		{
			name:    "unknown peripheral",
			args:    []string{"header", "spi", "-d", testChip, "--stdout"},
			wantErr: true,
		},
		{
			name:    "missing argument",
			args:    []string{"header", "-d", testChip},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := run(t, tt.args...)
			if tt.wantErr {
				assert.True(t, err != nil, "expected an error")
				return
			}
			assert.NoError(t, err, output)
			for _, want := range tt.wantContain {
				assert.True(t, strings.Contains(output, want), want)
			}
			for _, missing := range tt.wantMissing {
				assert.False(t, strings.Contains(output, missing), "unexpected "+missing)
			}
		})
	}
}

func TestHeaderWriteAndCheckE2E(t *testing.T) {
	dir := t.TempDir()

	output, err := run(t, "header", "glb", "-d", testChip, "--out", dir)
	assert.NoError(t, err)
	path := filepath.Join(dir, "glb.h")
	assert.True(t, strings.Contains(output, "Wrote "+path))

	first, err := os.ReadFile(path)
	assert.NoError(t, err)

	// regenerating yields the identical file
	_, err = run(t, "header", "glb", "-d", testChip, "--out", dir)
	assert.NoError(t, err)
	second, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	output, err = run(t, "check", path)
	assert.NoError(t, err)
	assert.True(t, strings.Contains(output, path+": OK"), path+": OK")
}

func TestCheckE2EReportsIssues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.h")
	bad := `#ifndef __PERI_BAD_H_
#define __PERI_BAD_H_

typedef struct {
  uint32_t ctrl;
  uint8_t status;
  uint32_t _rsvd8[2];
} bad_regs;

#endif
`
	assert.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

	output, err := run(t, "check", path)
	assert.True(t, err != nil, "expected an error")
	assert.True(t, strings.Contains(output, "status @0x4: member is 1 bytes wide"))
	assert.True(t, strings.Contains(output, "_rsvd8 @0x5: reserved filler should be named _rsvd5"))
}

func TestSVDE2E(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "bl702.svd")

	output, err := run(t, "svd", "bl702", "-d", testChip, "-o", path)
	assert.NoError(t, err)
	assert.True(t, strings.Contains(output, "Wrote "+path))

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, "<?xml"))
	assert.True(t, strings.Contains(text, "<vendorID>bouffalolab</vendorID>"))
	assert.True(t, strings.Contains(text, `<peripheral derivedFrom="UART0">`))

	dev, err := svd.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
	assert.Equal(t, "BL702", dev.Name)
	assert.Equal(t, 4, len(dev.Peripherals))

	uart0, ok := dev.Peripheral("UART0")
	assert.True(t, ok)
	assert.Equal(t, 3, uart0.RegisterCount())
	assert.Equal(t, "0x4000A000", uart0.BaseAddress)

	uart1, ok := dev.Peripheral("UART1")
	assert.True(t, ok)
	assert.Equal(t, "UART0", uart1.DerivedFrom)
	assert.True(t, uart1.Registers == nil)
	assert.True(t, uart1.AddressBlock == nil)

	cks, ok := dev.Peripheral("CKS")
	assert.True(t, ok)
	assert.True(t, cks.Registers == nil)

	intClear := uart0.Registers.Register[2]
	assert.Equal(t, "uart_int_clear", intClear.Name)
	assert.Equal(t, "0x28", intClear.AddressOffset)
	assert.Equal(t, "", intClear.Fields.Field[0].Access)
	assert.Equal(t, "read-only", intClear.Fields.Field[1].Access)
}

func TestSVDE2EDerivedRegisters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bl702.svd")

	_, err := run(t, "svd", "bl702", "-d", testChip, "-o", path, "--derived-registers", "--vendor", "Acme")
	assert.NoError(t, err)

	f, err := os.Open(path)
	assert.NoError(t, err)
	defer f.Close()
	dev, err := svd.Decode(f)
	assert.NoError(t, err)
	assert.Equal(t, "Acme", dev.Vendor)

	uart1, ok := dev.Peripheral("UART1")
	assert.True(t, ok)
	assert.Equal(t, "UART0", uart1.DerivedFrom)
	assert.Equal(t, 3, uart1.RegisterCount())
}

func TestSVDE2ESettingsFile(t *testing.T) {
	dir := t.TempDir()
	settingsPath := filepath.Join(dir, "regdesc.yaml")
	content := "data: " + testChip + "\nsvd:\n  vendor: Example Corp\n  version: \"1.2\"\n"
	assert.NoError(t, os.WriteFile(settingsPath, []byte(content), 0o644))

	path := filepath.Join(dir, "bl702.svd")
	_, err := run(t, "svd", "bl702", "--config", settingsPath, "-o", path)
	assert.NoError(t, err)

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "<vendor>Example Corp</vendor>"))
	assert.True(t, strings.Contains(string(data), "<version>1.2</version>"))
	assert.True(t, strings.Contains(string(data), "<vendorID>bouffalolab</vendorID>"))
}

func TestSVDE2EErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{"missing chip", []string{"svd", "bl999", "-d", testChip, "-o", filepath.Join(dir, "x.svd")}},
		{"output with several chips", []string{"svd", "bl702", "bl702", "-d", testChip, "-o", filepath.Join(dir, "y.svd")}},
		{"missing settings file", []string{"svd", "bl702", "--config", filepath.Join(dir, "none.yaml")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.True(t, err != nil, "expected an error")
		})
	}

	entries, err := os.ReadDir(dir)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(entries))
}

func TestInfoE2E(t *testing.T) {
	output, err := run(t, "info", "bl702", "-d", testChip, "--json")
	assert.NoError(t, err)

	var info ChipInfo
	assert.NoError(t, json.Unmarshal([]byte(output), &info))
	assert.Equal(t, "BL702", info.Name)
	assert.Equal(t, 4, info.PeripheralCount)
	assert.Equal(t, 2, info.RegisterFiles)
	assert.Equal(t, 4, len(info.Peripherals))

	glb := info.Peripherals[0]
	assert.Equal(t, "GLB", glb.Name)
	assert.Equal(t, "0x40000000", glb.BaseAddress)
	assert.Equal(t, "0x1000", glb.Size)
	assert.Equal(t, 2, glb.Registers)

	uart1 := info.Peripherals[2]
	assert.Equal(t, "UART0", uart1.DerivedFrom)
	assert.Equal(t, 3, uart1.Registers)

	cks := info.Peripherals[3]
	assert.False(t, cks.Modeled)

	assert.Equal(t, 3, len(info.Types))
	assert.Equal(t, "uart", info.Types[1].Type)
	assert.Equal(t, "UART0, UART1", strings.Join(info.Types[1].Instances, ", "))

	output, err = run(t, "info", "bl702", "-d", testChip)
	assert.NoError(t, err)
	assert.True(t, strings.Contains(output, "Chip: BL702"))
	assert.True(t, strings.Contains(output, "UART1"))
}

func TestInfoE2EVerbose(t *testing.T) {
	output, err := run(t, "info", "bl702", "-d", testChip, "-v")
	assert.NoError(t, err)
	assert.True(t, strings.Contains(output, "Types:"), output)
	assert.True(t, strings.Contains(output, "UART0, UART1"), output)
	assert.True(t, strings.Contains(output, `CKS: no register file for type "cks"`), output)
}

func TestHeaderE2EMissingRegisterFile(t *testing.T) {
	_, err := run(t, "header", "spi", "-d", testChip, "--stdout")
	assert.True(t, err != nil, "expected an error")
	assert.Equal(t, `no register file for peripheral "spi" in `+testChip, err.Error())
}
