package cheader

import (
	"strconv"
	"strings"
)

// HeaderFile is a parsed register header.
// Example:
//
//	#ifndef __PERI_UART_H_
//	#define __PERI_UART_H_
//	typedef struct { uint32_t DATA; } uart_regs;
//	#endif
type HeaderFile struct {
	Guard  string  `parser:"\"#ifndef\" @Ident"`
	Define string  `parser:"\"#define\" @Ident"`
	Struct *Struct `parser:"@@ \"#endif\""`
}

// Struct is the typedef'd register block.
type Struct struct {
	Members []*StructMember `parser:"\"typedef\" \"struct\" LBrace @@* RBrace"`
	Name    string          `parser:"@Ident Semicolon"`
}

// StructMember is one scalar or array member.
// Example: uint32_t _rsvd4[3];
type StructMember struct {
	Type  string `parser:"@Ident"`
	Name  string `parser:"@Ident"`
	Count *int   `parser:"( LBracket @Integer RBracket )? Semicolon"`
}

// Elements returns the array length, 1 for scalars.
func (m *StructMember) Elements() int {
	if m.Count == nil {
		return 1
	}
	return *m.Count
}

// ElementSize returns the byte width of fixed-width integer types such as
// uint32_t. ok is false for any other type.
func (m *StructMember) ElementSize() (size int, ok bool) {
	t := strings.TrimSuffix(m.Type, "_t")
	if t == m.Type {
		return 0, false
	}
	t = strings.TrimPrefix(strings.TrimPrefix(t, "u"), "int")
	bits, err := strconv.Atoi(t)
	if err != nil {
		return 0, false
	}
	switch bits {
	case 8, 16, 32, 64:
		return bits / 8, true
	default:
		return 0, false
	}
}
