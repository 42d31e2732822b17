// Package shared holds utilities used across packages that belong to no
// single domain layer.
//
// The testutil subpackage provides a buffered slog handler and assertion
// helpers for tests that need to verify what a component logged. Code in
// this tree must not import other internal packages; it sits below all of
// them.
package shared
