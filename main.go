// SPDX-License-Identifier: MPL-2.0

// Command utcs validates, completes, and scans UTCS component codes.
package main

import cmd "github.com/ampel360/utcs/cmd/utcs"

func main() {
	cmd.Execute()
}
