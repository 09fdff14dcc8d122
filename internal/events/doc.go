// Package events publishes the outcome of each summary run to interested
// handlers (metrics, logging) without coupling the pipeline to them.
package events
