// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bdev

import (
	"slices"
	"syscall"

	"code.hybscloud.com/spdk/reactor"
)

// IoChannel is a per-reactor submission context for one device.
// It must only be used on the reactor goroutine.
type IoChannel struct {
	bdev     *Bdev
	r        *reactor.Reactor
	poller   *reactor.Poller
	qp       *qpair
	deferred []ioRequest
	inflight int
	closed   bool
}

func (ch *IoChannel) arg() reactor.Arg { return reactor.NewArg(ch) }

// Inflight returns the number of submissions awaiting completion.
func (ch *IoChannel) Inflight() int { return ch.inflight }

// Close releases the channel. It fails with [ErrBusy] while I/O is in
// flight.
func (ch *IoChannel) Close() error {
	if ch.closed {
		return nil
	}
	if ch.inflight > 0 {
		return ErrBusy
	}
	ch.shutdown()
	b := ch.bdev
	if i := slices.Index(b.channels, ch); i >= 0 {
		b.channels = slices.Delete(b.channels, i, i+1)
	}
	return nil
}

// shutdown stops the channel. Completions still pending are dropped.
func (ch *IoChannel) shutdown() {
	if ch.closed {
		return
	}
	ch.closed = true
	ch.r.Unregister(ch.poller)
	if ch.qp != nil {
		ch.qp.close()
	}
	if ch.inflight > 0 {
		ch.bdev.log.Warn().Int("inflight", ch.inflight).Msg("io channel closed with pending completions")
	}
}

// submit starts a validated request.
func (ch *IoChannel) submit(req ioRequest) int {
	if ch.inflight >= queueDepth {
		return -int(syscall.ENOMEM)
	}
	b := ch.bdev
	if status, ok := b.injected(req.typ); ok {
		req.status = status
		ch.deferred = append(ch.deferred, req)
		ch.inflight++
		return 0
	}
	switch b.kind {
	case KindNull:
		if req.typ == IoRead {
			clear(req.buf)
		}
		req.cb(0, req.arg)
	case KindMalloc:
		if err := ch.qp.sq.Enqueue(&req); err != nil {
			return -int(syscall.ENOMEM)
		}
		ch.inflight++
	}
	return 0
}

// pollChannel delivers deferred and device completions on the reactor.
func pollChannel(arg reactor.Arg) reactor.Status {
	ch := arg.Value().(*IoChannel)
	n := 0
	if len(ch.deferred) > 0 {
		reqs := ch.deferred
		ch.deferred = nil
		for _, req := range reqs {
			ch.inflight--
			req.cb(req.status, req.arg)
			n++
		}
	}
	if ch.qp != nil {
		for !ch.closed {
			req, err := ch.qp.cq.Dequeue()
			if err != nil {
				break
			}
			ch.inflight--
			req.cb(req.status, req.arg)
			n++
		}
	}
	if n == 0 {
		return reactor.Idle
	}
	return reactor.Busy
}
