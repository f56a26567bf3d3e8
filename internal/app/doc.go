// Package app is the composition root for the client side of skyhigh.
//
// # Setup
//
// Setup is shared by the TUI and by the one-shot CLI commands (upload,
// message, files, resolve). It runs once per process:
//
//  1. config.Load reads ~/.config/skyhigh/config.toml, .env and the
//     SKYHIGH_* environment variables
//  2. logger.New opens the client log file
//  3. endpoint.Resolve picks the API base from api_url and origin, logging a
//     warning when a loopback URL is replaced by relative paths
//  4. skyhigh.NewClient builds the HTTP client, with origin as the base for
//     relative paths
//
// The resolved endpoint is fixed for the lifetime of the process; every
// submission receives it explicitly.
//
// # Run
//
// Run adds the TUI on top of Setup:
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> Setup()          config, logger, endpoint, client
//	       ├─────> prefs.Load()     theme and last uploaded path
//	       ├─────> refresh()        first poll before the first frame
//	       ├─────> StartPoller()    GET / and GET /files every interval
//	       └─────> ui.Run()         blocks until quit
//
// # Polling
//
// Each poll is bounded by a five second timeout. A failed poll keeps the last
// good data in the store. Only the first failure of a run is logged at warn
// level so an offline backend does not flood the log file; the recovery is
// logged at info.
//
// Polls are not retried early or backed off; the next tick is the retry.
package app
