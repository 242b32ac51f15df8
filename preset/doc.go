// Package preset assembles extension sets from configuration. A
// registry maps extension names to factories; a TOML config selects
// which extensions load, with what options and priority. The watcher
// rebuilds the set when the config file changes on disk.
package preset
