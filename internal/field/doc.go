// Package field holds the editable field controller: a private draft of a
// multi-line text value plus the rules for when that draft is pushed to the
// shared state holder.
//
// Edits stay local until a commit trigger (focus loss or the apply
// accelerator) fires while the draft is dirty. Every push carries an Origin so
// the state holder can tell user commits, which schedule a rerun, from the
// one system push made at mount to seed a baseline.
package field
