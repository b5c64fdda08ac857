// ============================================================================
// Calculator - Expression Evaluation Toolkit
// ============================================================================
//
// Package:     version
// Description: Central version management for the calculator components
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package version

import "fmt"

// Version constants for the calculator components
const (
	// Platform version
	Platform = "1.0.0"

	// Component versions
	Engine = "1.0.0"
	Server = "1.0.0"
	TUI    = "1.0.0"
	CLI    = "1.0.0"

	// API is the gRPC package version served by the calculator service
	API = "v1"
)

// Build information, set via -ldflags
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "engine":
		return Engine
	case "server":
		return Server
	case "tui":
		return TUI
	case "cli":
		return CLI
	default:
		return Platform
	}
}

// String returns a one-line description of the build
func String() string {
	return fmt.Sprintf("calc %s (API %s, commit %s, built %s)", Platform, API, GitCommit, BuildDate)
}
