// Package config loads markupcore settings: the theme that styles syntax
// nodes, style cache behaviour and debug switches.
//
// Settings are read from TOML or YAML, picked by file extension:
//
//	# theme.toml
//	"@include" = ["palette.toml"]
//
//	[theme]
//	mergeMode = "overlay"
//
//	[theme.base]
//	foreground = "#abb2bf"
//	font = "Iosevka"
//	size = 13
//
//	[theme.nodes.header]
//	foreground = "#61afef"
//	bold = true
//	spacingBefore = 1
//
//	[cache]
//	capacity = 256
//
//	[debug]
//	validate = true
//	logLevel = "debug"
//
// Values missing from the file keep their defaults. Environment variables
// prefixed with MARKUPCORE_ override the file when WithEnv is given, and
// Watcher reloads the file whenever it changes on disk.
//
// # Sub-packages
//
//   - loader: file and environment loading into generic maps
//   - watcher: fsnotify-based file watching with debouncing
package config
