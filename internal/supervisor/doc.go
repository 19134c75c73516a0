// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

/*
Package supervisor runs the server's long-lived services under a suture
supervisor tree.

The tree has two layers:

	newsrec
	├── model-layer   WarmupService (optional eager model build)
	└── api-layer     APIService

Each layer is its own suture.Supervisor so a crashing warm-up cannot take
down the HTTP server. Failed services are restarted with suture's
threshold, decay and backoff policy. Supervisor events are logged through
sutureslog on top of the zerolog-backed slog handler from internal/logging.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddModelService(services.NewWarmupService(resource, logger))
	tree.AddAPIService(services.NewAPIService(server, services.APIServiceConfig{Addr: server.Addr, Models: resource}, logger))
	err = tree.Serve(ctx)
*/
package supervisor
