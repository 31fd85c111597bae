// Package app contains the core application logic. It loads definition files,
// compiles the selected job and writes the resulting plan, decoupled from any
// specific entrypoint like a CLI.
package app
