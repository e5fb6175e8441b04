// Package events fans alarm events out to subscribers.
//
// Publishing never blocks: a subscriber that cannot keep up is unsubscribed
// and its channel closed, and it has to subscribe again.
package events
