// Package query filters, sorts and paginates a snapshot of tasks.
//
// Run is a pure function: it never touches the store and never fails.
// Malformed parameters are rejected by the caller before they reach it;
// out-of-range values that have an obvious meaning (a page of 0, a per_page
// above MaxPerPage) are normalized instead.
package query
