// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

package recommend

import "errors"

var (
	// ErrNotReady is returned while models are still being built.
	ErrNotReady = errors.New("models are still loading")

	// ErrBuildFailed wraps the cause of a failed model build.
	ErrBuildFailed = errors.New("model build failed")

	// ErrUnknownStrategy is returned for unrecognized strategy names.
	ErrUnknownStrategy = errors.New("unknown strategy")

	// ErrInvalidCount is returned when fewer than one result is requested.
	ErrInvalidCount = errors.New("result count must be positive")

	// ErrNoAlgorithm is returned when no algorithm is registered for a strategy.
	ErrNoAlgorithm = errors.New("no algorithm registered for strategy")

	// ErrNotBuilt is returned by engine queries before Build succeeded.
	ErrNotBuilt = errors.New("engine has not been built")
)
