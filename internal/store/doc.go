// Package store defines the task repository contract and the errors shared by
// its implementations. The interface keeps the query, statistics and import
// logic independent of how tasks are held in memory.
package store
