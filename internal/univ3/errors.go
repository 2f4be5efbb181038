package univ3

import "errors"

// Math-core errors. Callers match with errors.Is; strategy evaluators abort
// the day on any of these rather than substituting defaults.
var (
	// ErrInvalidInput marks a malformed price, tick, or amount.
	ErrInvalidInput = errors.New("univ3: invalid input")

	// ErrInvalidRange marks degenerate or inverted price bounds.
	ErrInvalidRange = errors.New("univ3: invalid price range")

	// ErrUnderdetermined marks a token-matching request where the known side
	// is ambiguous.
	ErrUnderdetermined = errors.New("univ3: underdetermined request")

	// ErrNoLiquidity marks a swap attempted against zero active liquidity.
	ErrNoLiquidity = errors.New("univ3: no active liquidity")

	// ErrIterationLimit marks a tick traversal that exceeded the caller's
	// iteration budget.
	ErrIterationLimit = errors.New("univ3: iteration limit exceeded")

	// ErrBoundaryExceeded marks a within-tick swap whose input would push the
	// price past the enclosing tick boundary.
	ErrBoundaryExceeded = errors.New("univ3: tick boundary exceeded")
)
