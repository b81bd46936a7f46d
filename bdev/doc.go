// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package bdev provides block devices driven by a reactor.
//
// The native API mirrors a callback-driven storage engine: a descriptor is
// opened on a named device, an I/O channel is obtained for the current
// reactor, and reads and writes are submitted with a [CompletionFunc] and
// an opaque [reactor.Arg]. A submission either fails synchronously with a
// negative errno or is followed by exactly one completion on the reactor
// goroutine.
//
// Backends:
//
//   - malloc: RAM-backed. Each channel owns a queue pair of lock-free SPSC
//     rings served by a device goroutine; the channel poller delivers
//     completions.
//   - null: discards writes and zero-fills reads, completing inside the
//     submit call.
//
// [Desc.Read] and [Desc.Write] wrap the native calls as effects for tasks
// hosted by [code.hybscloud.com/spdk].
package bdev
