// Package domain contains the core business entities of the todo summary
// service: todo items, their priorities and the rules that keep them valid.
// It has no knowledge of storage, HTTP or the external services the
// summarization pipeline talks to.
package domain
