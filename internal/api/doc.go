// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

/*
Package api exposes the room cache over HTTP using the chi router.

Handlers are thin: they decode and validate the request, call the room cache
manager, and wrap the result in the models.APIResponse envelope. Domain errors
are mapped to stable error codes:

	MAX_BATCHES_EXCEEDED  409  room is at its batch cap
	CREATION_FAILED       503  not even the fallback set produced candidates
	ROOM_NOT_FOUND        404  room is neither in memory nor in the store
	ROOM_EXPIRED          410  room TTL has passed
	TTL_UPDATE_INCOMPLETE 503  the store stopped part-way through a TTL refresh
	VALIDATION_ERROR      400  malformed room ID, body or query parameter
	INTERNAL_ERROR        500  anything else

Routes:

	POST   /api/v1/rooms/{roomID}/cache     create the room cache
	GET    /api/v1/rooms/{roomID}/cache     cache status
	DELETE /api/v1/rooms/{roomID}/cache     clean up the room cache
	GET    /api/v1/rooms/{roomID}/next      next candidate
	POST   /api/v1/rooms/{roomID}/batches   load the next batch
	PUT    /api/v1/rooms/{roomID}/ttl       refresh the room TTL
	POST   /api/v1/rooms/{roomID}/shown     track shown content
	GET    /api/v1/rooms/{roomID}/excluded  exclusion set
	DELETE /api/v1/rooms/{roomID}/excluded  clear the exclusion set
	GET    /api/v1/diagnostics/requests     recent fallback attempts
	GET    /api/v1/diagnostics/breaker      circuit breaker state
	GET    /api/v1/health/live              liveness
	GET    /api/v1/health/ready             readiness (pings the store)
	GET    /metrics                         Prometheus
*/
package api
