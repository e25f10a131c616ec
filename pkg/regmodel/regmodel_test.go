package regmodel

import (
	"errors"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestParseAccess(t *testing.T) {
	tests := []struct {
		in     string
		want   Access
		svd    string
		svdSet bool
	}{
		{in: "r", want: AccessReadOnly, svd: "read-only", svdSet: true},
		{in: "w", want: AccessWriteOnly, svd: "write-only", svdSet: true},
		{in: "rw", want: AccessReadWrite, svd: "read-write", svdSet: true},
		{in: "r/w", want: AccessReadWrite, svd: "read-write", svdSet: true},
		{in: "rsvd", want: AccessReadOnly, svd: "read-only", svdSet: true},
		{in: "w1c", want: AccessNotModeled},
		{in: "w1p", want: AccessNotModeled},
		{in: "otp", want: AccessNotModeled},
		{in: "", want: AccessUnspecified},
		{in: "rwx", want: AccessUnknown},
		{in: "R", want: AccessUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseAccess(tt.in)
			assert.Equal(t, tt.want, got)

			svd, ok := got.SVD()
			assert.Equal(t, tt.svdSet, ok)
			assert.Equal(t, tt.svd, svd)
		})
	}
}

func TestRegisterFileFieldset(t *testing.T) {
	rf := &RegisterFile{
		Registers: []Register{{Name: "CTRL", OffsetBytes: 0, SizeBytes: 4, Fieldset: "CTRL"}},
		Fieldsets: []Fieldset{{Name: "CTRL", Fields: []Field{{Name: "EN", SizeBits: 1, Access: "rw"}}}},
	}

	fs, err := rf.Fieldset("CTRL")
	assert.NoError(t, err)
	assert.Equal(t, "EN", fs.Fields[0].Name)

	_, err = rf.Fieldset("STATUS")
	assert.True(t, err != nil, "expected an error")
	assert.True(t, errors.Is(err, ErrFieldsetNotFound))
	assert.True(t, err != nil && strings.Contains(err.Error(), `"STATUS"`))

	assert.Equal(t, uint32(4), rf.Registers[0].End())
}

func TestChipInstancesOf(t *testing.T) {
	chip := &ChipDescription{
		Name: "demo",
		Peripherals: []PeripheralInstance{
			{Name: "UART0", Peripheral: "uart"},
			{Name: "GLB", Peripheral: "glb"},
			{Name: "UART1", Peripheral: "uart"},
		},
	}

	uarts := chip.InstancesOf("uart")
	assert.Equal(t, 2, len(uarts))
	assert.Equal(t, "UART0", uarts[0].Name)
	assert.Equal(t, "UART1", uarts[1].Name)
	assert.Equal(t, 0, len(chip.InstancesOf("spi")))
}
