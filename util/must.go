package util

import "fmt"

// Must unwraps a value-error pair and panics on error. Reserve it for
// setup paths where failure is a programming mistake.
func Must[V any](v V, err error) V {
	if err != nil {
		panic(fmt.Errorf("util.Must: %w", err))
	}

	return v
}
