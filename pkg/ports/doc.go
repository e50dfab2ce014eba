// Package ports defines the narrow interfaces through which the interview
// core consumes its collaborators: the message transport, the configuration
// store, thread administration, and the permission gate.
//
// The core owns these contracts; adapters implement them. Nothing in this
// package depends on a concrete backend.
package ports
