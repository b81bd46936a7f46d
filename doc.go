// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package spdk runs effectful computations on a callback-driven reactor.
//
// A computation is a [code.hybscloud.com/kont] value. Asynchronous native
// calls are effect operations: the native layer accepts a completion callback
// plus one opaque argument and invokes the callback exactly once, possibly
// before the submitting call returns. Each spawned computation is hosted by a
// task whose poller steps it one effect at a time and pauses itself while
// the effect is pending.
//
// # Architecture
//
//   - Reactor: [code.hybscloud.com/spdk/reactor] ticks registered pollers on one goroutine.
//   - Bridge: [Call] performs a native call, [Complete] is the fixed callback trampoline, [Slot] carries the one-shot result.
//   - Executor: [Spawn] and [SpawnExpr] host computations, [JoinHandle] observes their output, [Join] awaits one from another task.
//   - Bootstrap: [BlockOn] creates a reactor, initializes [Subsystem]s and runs a root computation to completion.
//
// # Errors
//
// A native call yields kont.Either[error, T]. A synchronous setup failure is
// a [*SetupFailure]; a failed completion is an [*OperationFailure]. Both carry
// the native [Errno]. Misuse of the bridge panics with [*ContractViolation];
// inside a task such a panic aborts only that task, whose output becomes
// [ErrTaskAborted]. A task may also use kont.ThrowError[error, A] to fail.
//
// # Threading
//
// Executors, slots and tasks are confined to the goroutine running the
// reactor. Completions raised on other goroutines must be funneled through a
// poller before they touch a [Slot].
//
// # Example
//
//	out, err := spdk.BlockOn(spdk.AppOpts{Name: "demo"}, func(ex *spdk.Executor) kont.Eff[int] {
//		return kont.Bind(spdk.Do[int](submit), func(e kont.Either[error, int]) kont.Eff[int] {
//			n, _ := e.GetRight()
//			return kont.Pure(n)
//		})
//	})
package spdk
