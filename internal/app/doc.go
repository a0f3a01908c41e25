// Package app is the composition root of the SDK.
//
// # Overview
//
// Open loads configuration and wires the collaborators every command needs:
//
//	┌──────────────┐
//	│   Open()     │
//	└──────┬───────┘
//	       ├─────> config.Load()        TOML config plus overrides
//	       ├─────> NewLogger()          slog text handler
//	       ├─────> storage.Open()       file, memory or redis backend
//	       ├─────> session.New()        login state over the store
//	       ├─────> dispatch.New()       notification hook, 1002 signs out
//	       ├─────> metrics.New()        request and code counters
//	       └─────> client.FromConfig()  HTTP client with device headers
//
// # Polling
//
// StartPoller re-fetches one target in the background for the watch view and
// records every outcome in a state.Store. The interval doubles with each
// consecutive failure and is capped at 30 seconds:
//
//	failures:  0   1   2    3    4+
//	wait:      2s  4s  8s   16s  30s
//
// A cancelled context stops the poller without recording a failure.
package app
