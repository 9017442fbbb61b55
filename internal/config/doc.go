// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

/*
Package config loads Trinity configuration with koanf.

Sources are layered, later ones winning:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file: $CONFIG_PATH, else config.yaml, config.yml,
    /etc/trinity/config.yaml
 3. Environment variables listed in envMappings

Only mapped environment variables are read, so unrelated variables in the
process environment never leak into configuration.

Example config.yaml:

	content:
	  api_key: "tmdb-key"
	  language: es-ES
	breaker:
	  failure_threshold: 5
	  reset_timeout: 60s
	room_cache:
	  batch_size: 30
	  max_batches: 10
	  ttl: 24h
	store:
	  path: /data/trinity

Commonly used environment variables:

	TMDB_API_KEY           content.api_key (required)
	TMDB_BASE_URL          content.base_url
	BATCH_SIZE             room_cache.batch_size
	MAX_BATCHES            room_cache.max_batches
	ROOM_CACHE_TTL         room_cache.ttl
	BADGER_PATH            store.path
	HTTP_PORT              server.port
	LOG_LEVEL / LOG_FORMAT logging.level / logging.format
*/
package config
