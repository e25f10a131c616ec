// Package regmodel holds the canonical in-memory register model shared by the
// header and SVD generators.
//
// The model is decoded from vendor YAML descriptions:
//
//   - ChipDescription: one per chip, an ordered list of PeripheralInstance
//     placements (name, type, base address, optional span).
//   - RegisterFile: one per peripheral type, the list of 32-bit Registers plus
//     the Fieldsets they reference by name.
//
// Generators only read the model. Field access strings are kept as written
// in the source and classified on demand with ParseAccess.
package regmodel
