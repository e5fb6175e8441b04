// Package scheduler implements the alarm state machine.
//
// A Scheduler owns the single alarm State and moves it between idle, armed,
// ringing and snoozed in response to SetAlarm, StopAlarm, SnoozeAlarm and the
// periodic Tick. Every transition is published as an event; renderers and
// other observers subscribe to those events and never touch the state.
package scheduler
