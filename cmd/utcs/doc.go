// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for utcs.
//
// Every command is built by a newXxxCommand(app) constructor and reads its
// services from the App composition root, so tests can run the full command
// tree against in-memory writers and custom providers.
package cmd
