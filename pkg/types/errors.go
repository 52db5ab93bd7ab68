package types

import "errors"

// Domain errors shared across packages
var (
	// ErrNoConfig indicates no active configuration file was found
	ErrNoConfig = errors.New("no active configuration found")
	// ErrUnknownTool indicates a tool name that no adapter claims
	ErrUnknownTool = errors.New("unknown tool")
	// ErrUnknownPreset indicates a preset name that is not defined
	ErrUnknownPreset = errors.New("unknown preset")
	// ErrToolUnavailable indicates the external binary is not installed
	ErrToolUnavailable = errors.New("tool not found in PATH")
	// ErrParseFailure indicates tool output that could not be parsed
	ErrParseFailure = errors.New("failed to parse tool output")
)
