// Package clock abstracts wall-clock time, one-shot timers and tickers.
//
// Production code uses Real, which delegates to package time. Tests use Fake,
// a manually advanced clock that fires timers and ticks deterministically.
package clock
