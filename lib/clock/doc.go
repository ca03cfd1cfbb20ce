// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction for testability.
//
// Production code accepts a Clock instead of calling time.Now,
// time.After, or time.Sleep directly. In production, Real() provides
// the standard library behavior. In tests, Fake() provides a
// deterministic clock that advances only when Advance is called.
//
// The ingestion loop uses the clock for its read-error back-off, the
// link uses it for the inter-command pacing delay, and the event log
// uses it to stamp records. All three are exercised in tests with a
// FakeClock:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local))
//	go link.SendCommands(ctx, commands)
//	c.WaitForTimers(1)             // the first pacing sleep is registered
//	c.Advance(100 * time.Millisecond)
//
// # FakeClock Synchronization
//
// When a goroutine calls Sleep or After on a FakeClock, it registers a
// pending waiter. WaitForTimers blocks until a given number of waiters
// are registered, which removes the race between timer registration and
// time advancement that tests using time.Sleep would have.
package clock
