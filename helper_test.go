// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spdk_test

import (
	"testing"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/spdk"
	"code.hybscloud.com/spdk/reactor"
)

// fakeDisk is a native layer whose completions are delivered by its own
// poller on the tick after submission.
type fakeDisk struct {
	data    []byte
	pending []func()
	polls   int
	writes  int
	reads   int
	// writeStatus is the completion status of every write.
	writeStatus int
	// submitStatus, when nonzero, rejects submissions synchronously.
	submitStatus int
	finied       bool
}

func newFakeDisk(size int) *fakeDisk {
	return &fakeDisk{data: make([]byte, size)}
}

func (d *fakeDisk) Name() string { return "fake" }

func (d *fakeDisk) Init(r *reactor.Reactor) error {
	_, err := r.Register(d.poll, reactor.Arg{}, 0)
	return err
}

func (d *fakeDisk) Fini() { d.finied = true }

func (d *fakeDisk) poll(reactor.Arg) reactor.Status {
	d.polls++
	if len(d.pending) == 0 {
		return reactor.Idle
	}
	p := d.pending
	d.pending = nil
	for _, f := range p {
		f()
	}
	return reactor.Busy
}

func (d *fakeDisk) submitWrite(off int, buf []byte, arg reactor.Arg) int {
	if d.submitStatus != 0 {
		return d.submitStatus
	}
	d.writes++
	status := d.writeStatus
	d.pending = append(d.pending, func() {
		if status == 0 {
			copy(d.data[off:], buf)
		}
		spdk.CompleteStatus(arg, status)
	})
	return 0
}

func (d *fakeDisk) submitRead(off, n int, arg reactor.Arg) int {
	if d.submitStatus != 0 {
		return d.submitStatus
	}
	d.reads++
	d.pending = append(d.pending, func() {
		out := make([]byte, n)
		copy(out, d.data[off:])
		spdk.Complete(arg, out, 0)
	})
	return 0
}

func (d *fakeDisk) write(off int, buf []byte) kont.Eff[kont.Either[error, struct{}]] {
	return spdk.Do[struct{}](func(arg reactor.Arg) int {
		return d.submitWrite(off, buf, arg)
	})
}

func (d *fakeDisk) read(off, n int) kont.Eff[kont.Either[error, []byte]] {
	return spdk.Do[[]byte](func(arg reactor.Arg) int {
		return d.submitRead(off, n, arg)
	})
}

func (d *fakeDisk) exprWrite(off int, buf []byte) kont.Expr[kont.Either[error, struct{}]] {
	return spdk.ExprDo[struct{}](func(arg reactor.Arg) int {
		return d.submitWrite(off, buf, arg)
	})
}

func (d *fakeDisk) exprRead(off, n int) kont.Expr[kont.Either[error, []byte]] {
	return spdk.ExprDo[[]byte](func(arg reactor.Arg) int {
		return d.submitRead(off, n, arg)
	})
}

// syncValue is a native call that completes with v before returning.
func syncValue[T any](v T, calls *int) func(reactor.Arg) int {
	return func(arg reactor.Arg) int {
		*calls++
		spdk.Complete(arg, v, 0)
		return 0
	}
}

// countWaker counts wake-ups.
type countWaker struct{ n int }

func (w *countWaker) Wake() { w.n++ }

// mustViolate runs f and fails unless it panics with *spdk.ContractViolation.
func mustViolate(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		if _, ok := recover().(*spdk.ContractViolation); !ok {
			t.Fatal("expected *spdk.ContractViolation panic")
		}
	}()
	f()
}

// newRig returns a reactor with d registered first and an executor on it.
func newRig(t *testing.T, d *fakeDisk) (*reactor.Reactor, *spdk.Executor) {
	t.Helper()
	r := reactor.New(reactor.WithName(t.Name()))
	if err := d.Init(r); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return r, spdk.NewExecutor(r)
}

func tick(r *reactor.Reactor, n int) {
	for range n {
		r.Tick()
	}
}
