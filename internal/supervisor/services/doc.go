// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

/*
Package services adapts Trinity components to suture.Service.

  - HTTPServerService: http.Server lifecycle with graceful shutdown
  - SweeperService: periodic expiry of room caches past their TTL
  - ValueLogGCService: periodic badger value log garbage collection

Each wrapper depends on a one-method interface rather than the concrete
component, and implements fmt.Stringer so suture logs a readable name.

Example:

	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	tree.AddBackgroundService(services.NewSweeperService(manager, time.Minute))
	tree.AddStorageService(services.NewValueLogGCService(db, 0.5, 10*time.Minute))
*/
package services
