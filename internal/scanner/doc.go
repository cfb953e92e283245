// SPDX-License-Identifier: MPL-2.0

// Package scanner finds UTCS codes in files and validates them in bulk.
//
// Targets are files, directories (walked recursively and filtered by extension) or
// doublestar glob patterns resolved against a base directory. Ignore patterns apply to
// every target kind. Files are scanned in parallel; results are always reported in path
// order so that output and reports are stable between runs.
package scanner
