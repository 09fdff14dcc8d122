// Package store defines interfaces for todo persistence.
// These interfaces abstract the underlying database from the services and
// the summarization pipeline, which only ever read a snapshot of pending
// items through TodoStore.ListPending.
package store
