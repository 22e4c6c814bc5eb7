// Package testutil provides deterministic aspect ratio generators for tests
// and benchmarks.
package testutil
