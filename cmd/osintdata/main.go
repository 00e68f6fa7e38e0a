// Package main provides the entry point for the osintdata CLI.
//
// osintdata loads the OSINT reference datasets (sensitive file names,
// disposable, free and breached email domains, admin panel paths and cloud
// provider fingerprints) from a directory, reports on them, and checks
// values against them.
//
// Usage:
//
//	osintdata check
//	osintdata lookup user@example.com https://host/.env
//	osintdata history
//
// See --help for all available options.
package main

// main is the entry point for osintdata.
func main() {
	Execute()
}
