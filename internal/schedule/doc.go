// Package schedule triggers summary runs on a cron schedule.
//
// The Scheduler is optional: an empty cron expression yields a disabled
// scheduler whose Start and Stop are no-ops, so callers can wire it
// unconditionally.
package schedule
