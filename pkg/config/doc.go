// Package config loads and validates the exporter's configuration.
//
// Configuration comes from up to three layers, later layers winning:
//
//  1. built-in defaults
//  2. an optional YAML config file
//  3. RENDER_EXPORTER_* environment variables (plus RENDER_API_KEY for the
//     credential itself)
//
// The exporter is deployable from environment variables alone; the config
// file exists for deployments that prefer declarative files. The constructed
// Config value is passed explicitly into the server, handler, and collectors;
// business logic never reads the environment.
package config
