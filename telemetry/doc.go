// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package telemetry configures OpenTelemetry tracing.
//
// The skill dispatcher and the DataStore syncer start spans through the
// global tracer provider. Without an endpoint those spans go nowhere.
//
//	shutdown, err := telemetry.Setup(ctx, cfg.OTelEndpoint, cfg.ServiceName)
//	defer shutdown(context.Background())
package telemetry
