// Package cheader renders a peripheral's register file as a flat C struct.
//
// Registers are sorted by offset and every address gap is filled with a
// reserved uint32_t array named after the offset it starts at, so that the
// struct layout matches the hardware layout byte for byte:
//
//	typedef struct {
//	  // Control register, Offset: 0x0
//	  uint32_t CTRL;
//	  // Reserved
//	  uint32_t _rsvd4[1];
//	  // Offset: 0x8
//	  uint32_t STATUS;
//	} uart_regs;
//
// Only 32-bit registers are supported. The package also contains a small
// participle grammar for reading generated headers back and checking their
// layout.
package cheader
