// Package trigger decides when an owner should re-fetch its data in response
// to two independent signals: the host's foreground/background lifecycle and
// network reachability.
//
// # Components
//
//   - lifecycle.go: subscribes to a LifecycleSource and requests a fetch when
//     the host becomes Active after being away for at least the resume delay
//   - connectivity.go: on request, probes reachability and, only when the
//     network is down, subscribes to connectivity changes and requests a fetch
//     whenever a reachable type is reported
//   - controller.go: owns the fetch capability, the clock and the
//     subscription set; Mount and Unmount are idempotent
//
// # Usage
//
//	ctrl := trigger.New(trigger.Config{Fetch: poller.Fetch}, focusSource, watcher,
//		trigger.WithLogger(log))
//	ctrl.Mount()
//	defer ctrl.Unmount()
//
//	if err := refresh(ctx); err != nil {
//		ctrl.RequestNetworkWatch()
//	}
//
// # Resume Gating
//
// The first transition into Inactive records an inactivity mark. Background
// states count as inactive but only start the mark when the host was active.
// A later Active fetches when no mark exists or when the mark is at least
// ResumeDelay old. Brief absences (a system dialog, a glance at another
// window) therefore do not refetch.
//
// # Connectivity Watch
//
// At most one connectivity subscription exists per Controller. The rule is
// enforced when a probe resolves, not only when RequestNetworkWatch is called,
// so two overlapping probes that both see the network down register a single
// listener. Once armed, the watch stays attached until Unmount and fires on
// every change to a reachable type.
//
// # Errors
//
// Nothing is returned to the owner. A nil Fetch, a failed probe, a duplicate
// registration and an Unmount without Mount are all handled locally and logged
// at debug level.
package trigger
