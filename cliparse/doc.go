// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

The environment is read first with github.com/caarlos0/env struct tags;
those values become the flag defaults, so CLI flags take precedence.

# CLI Flags and Environment Variables

	-p                   PORT                    Server port (default 3318)
	-d                   DATABASE_URL            Database URL (required)
	-t                   DATABASE_TYPE           postgres or sqlite (default postgres)
	-jwt-secret          JWT_SECRET              Access token secret (required)
	-jwt-refresh-secret  JWT_REFRESH_SECRET      Refresh token secret (required)
	-access-ttl          JWT_EXPIRES_IN          Access token lifetime (default 1h)
	-refresh-ttl         JWT_REFRESH_EXPIRES_IN  Refresh token lifetime (default 168h)
	-request-timeout     REQUEST_TIMEOUT         Per-request timeout (default 15s)

# Validation

ParseFlags returns an error if a required value is missing, the two token
secrets are equal, or a duration is not positive.
*/
package cliparse
