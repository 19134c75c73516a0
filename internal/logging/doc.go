// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

// Package logging provides the process-wide zerolog logger for Newsrec.
//
// Call Init once from main with the configured level and format; before
// that, a JSON logger at info level writes to stderr so packages can log
// during initialization.
//
//	logging.Init(logging.Config{Level: "debug", Format: "console"})
//	logging.Info().Int("users", n).Msg("Dataset loaded")
//
// Request handlers log through Ctx so request and correlation IDs are
// attached automatically:
//
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("Recommendation failed")
//
// Components derive a tagged sub-logger with WithComponent. The suture
// supervisor logs through NewSlogLogger, which adapts log/slog to the same
// zerolog output.
//
// Terminate every event chain with Msg or Send; an unterminated event is
// never written.
package logging
