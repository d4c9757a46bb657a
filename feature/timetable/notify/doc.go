// Package notify fans out newly committed updates.
//
// The synchronization service invokes the configured Notifier exactly
// once per committed update, after the store commit succeeds. Failures
// are logged by the caller and never abort a cycle.
package notify
