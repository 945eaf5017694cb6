// Package config loads, normalizes, and validates mediascribe configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// MEDIASCRIBE_FFMPEG and OPENAI_API_KEY. ResolveRun layers command-line
// overrides on top and yields the immutable RunConfig a batch executes with.
//
// Executable locations are always explicit configuration. Nothing in this
// package, or anywhere else in mediascribe, rewrites the process PATH.
package config
