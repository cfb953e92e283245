// SPDX-License-Identifier: MPL-2.0

// Package utcs parses and validates UTCS identification codes.
//
// A UTCS code has four blocks separated by a delimiter:
//
//	090101‑BWBQ100‑QNS‑[1‑10,17,54]
//	│      │       │   └─ D: installation/unit specifier (bracketed)
//	│      │       └───── C: system/technology trigram (3 letters)
//	│      └───────────── B: product variant (7 alphanumerics)
//	└──────────────────── A: classification (6 digits)
//
// The canonical delimiter is the non-breaking hyphen U+2011. A plain hyphen and the
// typographic en-dash U+2013 are accepted at every separator position, and a single code
// may mix them.
//
// The package is a set of pure functions. Parse, ExpandInstallation, ExtractCodes and
// CheckImmutable need no reference data. Validation, suggestions and content scanning go
// through an Engine, which holds an immutable *Registries snapshot:
//
//	eng := utcs.NewEngine(reg)
//	res := eng.Validate("090101-BWBQ100-QNS-[ALL]")
//	if !res.Valid {
//	    for _, e := range res.Errors {
//	        fmt.Println(e)
//	    }
//	}
//
// Malformed input is never reported through a Go error: every finding is part of the
// returned ValidationResult.
package utcs
