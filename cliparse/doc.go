// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

The Config is built once in main and handed to every constructor. Nothing
below main reads the environment.

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: sqlite file/DSN or PostgreSQL connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - ClientID, ClientSecret: Alexa Skill Messaging credentials (required)
  - TokenURL, TokenTimeout: token endpoint and its bound (default 3s)
  - DataStoreURL, DataStoreTimeout: DataStore API base and its bound (default none)
  - Namespace, ObjectKey: DataStore object the widgets read
  - OTelEndpoint, ServiceName: tracing export (off when endpoint is empty)

# Sources

Values are resolved in this order, first match wins:

	CLI flag  →  process environment  →  .env file  →  default

The .env file is read with godotenv and never written into the process
environment. A missing file is not an error. Environment decoding uses
caarlos0/env struct tags.

# CLI Flags

	-p               Server port
	-d               Database URL
	-t               Database type
	-client-id       Alexa client id
	-client-secret   Alexa client secret
	-token-url       Token endpoint
	-datastore-url   DataStore API base URL
	-otel-endpoint   OTLP/HTTP endpoint
	-env-file        Dotenv file (default .env)
*/
package cliparse
