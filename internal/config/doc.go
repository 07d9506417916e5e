// Package config loads rewake's TOML configuration.
//
// # Configuration Discovery
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/rewake/config.toml
//  3. If the file doesn't exist, fall back to Default()
//  4. Empty fields keep their defaults
//
// # TOML Format
//
//	api_bind = "127.0.0.1:7487"
//	poll_interval = "2s"
//
//	[trigger]
//	handle_app_state = true
//	resume_delay = "5m"      # "0s" refreshes on every focus regain
//
//	[network]
//	probe_timeout = "3s"
//	watch_interval = "5s"
//
//	[log]
//	file = "~/.local/state/rewake/rewake.log"
//	level = "info"
//
// Durations use time.ParseDuration syntax. Negative durations are rejected
// with ErrInvalid, as is a zero poll interval, probe timeout or watch
// interval.
package config
