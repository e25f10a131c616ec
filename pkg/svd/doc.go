// Package svd builds CMSIS-SVD device descriptions from a chip's peripheral
// list and the register files of its peripheral types.
//
// The document is assembled as a typed tree (Device, Peripheral, Register,
// Field) and serialized in a separate step by Encode. Peripheral instances of
// a type that was already emitted reference the first instance through
// derivedFrom and do not restate their address block. Unless
// Config.DerivedRegisters is set they do not restate their registers either.
//
// Field access strings map as follows:
//
//	r, rsvd     read-only
//	w           write-only
//	rw, r/w     read-write
//	w1c, w1p    left out (not modeled yet)
//	otp         left out (not modeled yet)
//	""          left out
//	other       left out, a warning is logged
package svd
