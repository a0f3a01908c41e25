// Package state holds the latest result of a watched API call.
//
// # Overview
//
// The watch poller writes every outcome into a Store and the UI reads
// Snapshots on its own schedule. The Store is the only coordination point
// between the two goroutines.
//
//	Producer (poller):             Consumer (UI):
//	┌──────────────────┐          ┌──────────────────┐
//	│ FetchUntyped()   │          │                  │
//	│      ↓           │          │                  │
//	│ store.Update()   │─────────→│ store.Snapshot() │
//	│      ↓           │ (mutex)  │      ↓           │
//	│ wait (backoff)   │          │ render view      │
//	└──────────────────┘          └──────────────────┘
//
// # Update Semantics
//
//	// Success: replace message and data, reset failures
//	store.Update(&resp, nil)
//
//	// Failure: keep previous data, record error and envelope code
//	store.Update(nil, err)
//
// LastCode carries the transport or business code when the error came from
// the envelope decoder, and 0 for plain transport failures. IsOffline reports
// two or more consecutive failures.
//
// # Copying
//
// Snapshot returns a copy: the data object is cloned and the error is
// re-wrapped so callers never share the Store's values. The zero Store is
// ready to use.
package state
