// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

// Command newsrec queries the recommendation models offline, without the
// HTTP server. It loads the same dataset and configuration as the server,
// builds the models once and prints JSON to stdout.
//
//	newsrec recommend --user 42 --method collaborative -n 5
//	newsrec popular -n 10
//	newsrec users --limit 20
//	newsrec info
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
