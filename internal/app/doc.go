// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the generation lifecycle that turns the
// pathway data directory into published JSON artifacts, decoupled from any
// specific entrypoint like a CLI.
package app
