// Package memory provides the in-process implementation of store.TaskStore.
//
// All tasks live in a single map guarded by one sync.RWMutex. Reads (Get,
// Snapshot, Count) share the read lock; every mutation holds the write lock
// only for the single task it changes, so a long bulk import never blocks
// readers for longer than one row.
package memory
