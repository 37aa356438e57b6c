// Package host defines what the lo-fi modules consume from their
// surroundings: the parameter snapshot, the transport, and the noise asset
// provider.
//
// [Store] is the in-repo parameter store. Writers (UI, CLI, automation) call
// Set from any goroutine; the audio thread reads through the [Snapshot]
// interface without locks. [Values] is a plain copy of every parameter and
// is what the chain reads within one block so all modules see the same
// values.
package host
