// Package service implements the application's use cases on top of the store,
// the language model and the chat notifier.
//
// SummaryService runs the summarize-and-notify pipeline. TodoService provides
// the CRUD operations behind the /todos endpoints.
package service
