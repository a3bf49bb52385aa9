// Package catalog provides the canonical Phoenix-area node and contaminant
// benchmark tables. Both are fixed configuration data: the functions return
// fresh copies on every call so no caller can reach shared mutable state.
package catalog
