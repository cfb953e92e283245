// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors for the utcs CLI.
//
// ActionableError carries the failed operation, the resource involved and a list of
// suggestions. It may link to a catalog Issue whose Markdown guidance is rendered with
// glamour when the user asks for more detail.
package issue
