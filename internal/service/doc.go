// Package service contains the application use cases for task tracking.
//
// TaskService orchestrates the repository (internal/store), the query
// engine, the statistics aggregator and the import reconciler. It logs each
// mutation and publishes a lifecycle event through an events.EventEmitter
// once the mutation has been committed.
//
// Error handling:
//   - store.ErrNotFound and domain validation/bad-request errors pass through
//     unchanged so callers can match them with errors.Is
//   - anything else is wrapped in a *TaskServiceError carrying the operation
//   - the API layer maps these to HTTP status codes
package service
