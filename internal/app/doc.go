// Package app is rewake's composition root.
//
// # Overview
//
// Run wires configuration, logging, the Spindle client, the snapshot store,
// the poller, the refresh trigger and the UI:
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()        Read rewake config
//	       ├─────> logging.New()        zap logger on a rotating file
//	       ├─────> spindle.NewClient()  HTTP client
//	       ├─────> netwatch.New()       Probe/watch the API address
//	       ├─────> trigger.New()        Fetch = poller.Fetch
//	       ├─────> poller.OnFailure()   Failure => RequestNetworkWatch
//	       └─────> ui.Run()             Bubble Tea, focus => trigger
//
// # Refresh Sources
//
//   - poll: the poller's ticker, doubling per consecutive failure up to 30s
//   - trigger: the terminal regained focus after resume_delay, or the API
//     address became reachable again after a failed refresh
//   - manual: the "r" key
//
// Every source funnels into Poller.Kick, which coalesces concurrent requests
// into one pending refresh, so the trigger never runs HTTP calls on the UI
// goroutine.
//
// # Error Handling
//
// Fatal errors are returned from Run: invalid config, invalid log level,
// an unparseable API address. Refresh failures are recorded in the store,
// logged, and arm the network watch; polling continues.
package app
