// Package persist provides Container, a single value mirrored between an
// in-memory snapshot and one key of a durable kv.Repository.
//
// Readers always see the snapshot and never wait on storage. Writers publish
// to the snapshot first and persist afterwards; durable failures are recorded
// and exposed through LastError instead of being returned.
package persist
