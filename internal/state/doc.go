// Package state holds the snapshot shared by the refresh poller and the UI.
//
// The poller is the single writer (Store.Update); the UI reads copies
// (Store.Snapshot) under a read lock, so rendering never races a refresh.
// A failed refresh keeps the last good data and records the error alongside a
// consecutive failure count; two or more failures mark the snapshot offline.
package state
