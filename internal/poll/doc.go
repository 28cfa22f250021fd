// Package poll keeps a consumer in sync with a remote source by fetching on
// a fixed period and publishing immutable snapshots.
//
// # Overview
//
// Two synchronizers share the same lifecycle:
//
//   - Handle polls a single source and publishes State values.
//   - FanOut polls one source per key (for example, one request per city)
//     and publishes a single FanOutState per round.
//
// Both are started with a fetch function, a period and a callback. Start
// publishes a loading state synchronously, initiates the first attempt in
// the background and returns. Each later attempt is driven by a fixed-rate
// ticker anchored at Start.
//
// # Ordering and overlap
//
// At most one attempt is outstanding per synchronizer. A tick that fires
// while an attempt is still running is skipped; the ticker keeps its phase.
// RefetchNow starts an out-of-band attempt, or joins the outstanding one.
//
// Every attempt carries a sequence number. A settlement is published only if
// it is newer than the last settled attempt and the synchronizer has not
// been stopped. Publications are serialized, so a consumer never sees two
// callbacks at once.
//
// # Failure handling
//
// A failed attempt records an ErrorInfo and leaves previously fetched data
// in place. There is no retry; the next tick is the next chance. FanOut
// omits failed keys from its data and only reports a batch error when every
// key failed, in which case the previous round's data stays visible.
//
// # Teardown
//
// Stop and cancellation of the Start context are equivalent. Neither waits
// for in-flight I/O, and no callback is delivered once Stop returns. A
// changed key set is handled by FanOut.Replace, which stops the current
// handle and starts a new one whose first state has empty data.
package poll
