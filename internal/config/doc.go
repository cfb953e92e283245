// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is read from the file given with --config, otherwise from utcs.cue in the
// platform config directory ($XDG_CONFIG_HOME/utcs on Linux, ~/Library/Application Support/utcs
// on macOS, %APPDATA%\utcs on Windows), otherwise from ./utcs.cue. Without a file the
// built-in defaults apply.
//
// Files are validated against the embedded config_schema.cue before being merged over the
// defaults. Environment variables prefixed with UTCS_ (UTCS_SCAN_JOBS, UTCS_SUGGEST_LIMIT, ...)
// override file values, and the CI variable JUNIT_OUTPUT sets scan.junit_output.
package config
