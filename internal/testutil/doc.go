// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers build file trees for scanner and CLI tests (WriteTree,
// MustWriteFile) and isolate the user configuration directory
// (SetConfigHome).
package testutil
