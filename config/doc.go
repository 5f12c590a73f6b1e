// Package config defines the tracker's configuration structures, their
// defaults and validation, and a loader for JSON or YAML config files.
//
// Configuration is entirely optional: the zero-config default runs the
// tracker over stdin/stdout with metrics disabled. When a file is given it
// is loaded first; command-line flags override individual fields on top.
package config
