// Package drafts implements the draft collection store: every draft entry of
// one namespace kept as a single collection value in the durable key/value
// store, with id allocation, merge-on-update and follow-up lookups.
//
// Two namespaces exist, one for plain form data and one for corrective-action
// forms. They share the schema and never share entries.
package drafts
