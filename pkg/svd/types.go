package svd

import "encoding/xml"

// Device is the root of a CMSIS-SVD document.
type Device struct {
	XMLName        xml.Name `xml:"device"`
	SchemaVersion  string   `xml:"schemaVersion,attr"`
	XMLNSXS        string   `xml:"xmlns:xs,attr,omitempty"`
	SchemaLocation string   `xml:"xs:noNamespaceSchemaLocation,attr,omitempty"`

	Vendor      string `xml:"vendor"`
	VendorID    string `xml:"vendorID"`
	Name        string `xml:"name"`
	Version     string `xml:"version"`
	Description string `xml:"description"`

	AddressUnitBits uint   `xml:"addressUnitBits"`
	Width           uint   `xml:"width"`
	Size            uint   `xml:"size"`
	Access          string `xml:"access"`
	ResetValue      string `xml:"resetValue"`
	ResetMask       string `xml:"resetMask"`

	Peripherals []*Peripheral `xml:"peripherals>peripheral"`
}

// Peripheral is one peripheral instance. A peripheral with DerivedFrom set
// inherits everything it does not restate from the named peripheral.
type Peripheral struct {
	DerivedFrom  string        `xml:"derivedFrom,attr,omitempty"`
	Name         string        `xml:"name"`
	Description  string        `xml:"description,omitempty"`
	GroupName    string        `xml:"groupName,omitempty"`
	BaseAddress  string        `xml:"baseAddress"`
	AddressBlock *AddressBlock `xml:"addressBlock"`
	Registers    *Registers    `xml:"registers"`
}

// AddressBlock is the address span a peripheral decodes.
type AddressBlock struct {
	Offset uint64 `xml:"offset"`
	Size   string `xml:"size"`
	Usage  string `xml:"usage"`
}

// Registers wraps the register list so an empty list still yields an
// element while a nil *Registers yields none.
type Registers struct {
	Register []*Register `xml:"register"`
}

// Register is one register of a peripheral.
type Register struct {
	Name          string  `xml:"name"`
	Description   string  `xml:"description,omitempty"`
	AddressOffset string  `xml:"addressOffset"`
	Size          uint32  `xml:"size"`
	Fields        *Fields `xml:"fields"`
}

// Fields wraps a register's field list.
type Fields struct {
	Field []*Field `xml:"field"`
}

// Field is a bit field of a register.
type Field struct {
	Name        string `xml:"name"`
	Description string `xml:"description,omitempty"`
	BitOffset   uint32 `xml:"bitOffset"`
	BitWidth    uint32 `xml:"bitWidth"`
	Access      string `xml:"access,omitempty"`
}

// Peripheral returns the peripheral with the given name.
func (d *Device) Peripheral(name string) (*Peripheral, bool) {
	for _, p := range d.Peripherals {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// RegisterCount returns the number of registers the peripheral states itself.
func (p *Peripheral) RegisterCount() int {
	if p.Registers == nil {
		return 0
	}
	return len(p.Registers.Register)
}
