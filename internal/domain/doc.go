// Package domain contains the core task entity, its value objects, and the
// pure normalization rules applied to them. It is independent of storage and
// transport: every entry point that accepts a title, a tag, or a priority
// funnels it through the functions defined here so canonicalization cannot
// drift between call sites.
package domain
