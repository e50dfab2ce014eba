// Package interview implements the scripted questionnaire conducted with a
// thread's recipient over DM, and the operator-facing flows that configure it.
//
// Each flow is a single goroutine that runs to completion, suspending only
// inside waiter.Wait. Flows for different threads are independent; the only
// shared state is the config store, which a running interview never writes.
package interview
