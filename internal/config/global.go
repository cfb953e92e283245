// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride replaces the platform lookup in ConfigDir when set.
// os.UserHomeDir ignores HOME on some CI runners, so tests pin the
// directory here instead.
var configDirOverride string

// Reset drops the config directory override.
func Reset() {
	configDirOverride = ""
}

// SetConfigDirOverride makes ConfigDir return dir until Reset is called.
// It exists for tests and is not safe for concurrent use.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}
