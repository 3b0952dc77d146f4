// Package cli provides shared helpers for the meetscribe command-line
// tool: structured output formatting (YAML, JSON), terminal styles, and
// human-readable value formatting.
package cli
