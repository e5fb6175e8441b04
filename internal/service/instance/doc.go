// Package instance keeps a single alarm clock server per host: the scheduler
// tracks exactly one alarm, so a second server would ring independently.
package instance
