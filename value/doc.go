// Package value holds the composite payloads a store entry can own: a
// double-ended List, a Dict used for both hashes and sets, and a SortedSet.
//
// The store never looks inside these containers; the command layer mutates
// them through store.WithEntry. None of the types is safe for concurrent use.
package value
