// SPDX-License-Identifier: MPL-2.0

// Package registry loads the reference tables a UTCS code is validated against.
//
// The standard's own tables are embedded as CUE and returned by Default. Custom
// registries are read from .cue files (same layout as the embedded one) or from
// .toml files using arrays of tables:
//
//	[[domains]]
//	code = "090101"
//	description = "Quantum · Quantum Navigation System"
//
//	[[variants]]
//	code = "BWBQ100"
//	name = "Blended Wing Body Quantum 100"
//	...
//
// Both formats are validated against registry_schema.cue and keep the entry order of
// the file, which drives suggestion order. Lint reports entries that load but can
// never be referenced by a well-formed code.
package registry
