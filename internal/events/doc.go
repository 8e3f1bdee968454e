// Package events provides in-process publish/subscribe delivery of task
// snapshots.
//
// Mutating components publish a complete snapshot of the task collection
// after every change; observers hold a Subscription and receive each
// snapshot on a channel. Delivery is conflating: a subscriber that falls
// behind is skipped forward to the latest snapshot instead of blocking the
// publisher or buffering without bound. Since every emission is a complete
// snapshot rather than a delta, skipping intermediate snapshots loses no
// information.
package events
