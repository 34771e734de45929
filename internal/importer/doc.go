// Package importer turns a batch of raw creation requests into tasks.
//
// Decoding (DecodeJSON, DecodeCSV) either yields an ordered slice of rows or
// fails as a whole with an error wrapping domain.ErrBadRequest, before any
// task is created. Reconcile then creates one task per valid row and records
// every failing row by index; one row never affects another, and nothing is
// rolled back.
package importer
