// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

/*
Package supervisor runs Trinity's long-lived services under a suture tree.

The tree has three layers so a failing background job cannot take down the
HTTP listener:

	trinity
	├── storage-layer     badger value log GC
	├── background-layer  TTL sweeper, event relay
	└── api-layer         HTTP server

Each layer restarts its own services with the configured failure threshold,
decay and backoff. Supervisor events are logged through sutureslog, which
writes to the zerolog logger via logging.NewSlogLogger.

Services live in the services subpackage and depend only on small interfaces,
so they can be tested without a store or a running server.
*/
package supervisor
