// Package events publishes task lifecycle changes to in-process subscribers.
//
// The task service emits a TaskEvent after every successful mutation. The
// server registers a LogHandler so each change leaves a structured log
// record; tests register their own handlers to observe what was published.
package events
