// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package reactor implements the poller-driven event loop that callback-based
// storage APIs are built on.
//
// A [Reactor] owns an ordered set of pollers. Each tick invokes every running
// poller once; a poller reports [Busy] when it made progress and [Idle]
// otherwise. Pollers can be paused and resumed at any time, which is how a
// suspended task stops being ticked until the operation it waits for
// completes.
//
// # Threading
//
// A Reactor is confined to the goroutine that calls [Reactor.Run] (or, in
// tests, [Reactor.Tick]). Register, Pause, Resume, Unregister and Fini must be
// called from that goroutine, including from inside pollers and native
// callbacks. Only [Reactor.Stop] is safe from other goroutines.
//
// # Native arguments
//
// Native-style calls take a callback and an [Arg]. The Arg is a non-owning
// alias of the caller's completion state and is valid from the call until the
// callback has run once.
package reactor
