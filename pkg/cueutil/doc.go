// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides the shared CUE loading flow used by the registry and
// config packages:
//
//  1. Check the input size
//  2. Compile the embedded schema and the user data, then unify them
//  3. Validate, and optionally decode into a Go struct
//
// # Usage
//
//	//go:embed registry_schema.cue
//	var schema []byte
//
//	unified, err := cueutil.Unify(schema, data, "#Registry", cueutil.WithFilename(path))
//	if err != nil {
//	    return nil, err // carries the JSON path of the offending field
//	}
//
// Unify returns the cue.Value so callers can walk fields in source order, which
// Decode into a Go map would lose. ParseAndDecode is the shortcut for callers that
// only need a struct.
package cueutil
