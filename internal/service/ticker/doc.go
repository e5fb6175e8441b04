// Package ticker drives the alarm scheduler with periodic wall-clock ticks.
package ticker
