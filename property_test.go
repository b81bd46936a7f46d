// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spdk_test

import (
	"bytes"
	"errors"
	"syscall"
	"testing"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
	"code.hybscloud.com/spdk"
	"code.hybscloud.com/spdk/reactor"
)

// TestSetupFailureWithoutSuspension checks that a rejected submission
// resolves in the same poll, so the task never yields to the reactor.
func TestSetupFailureWithoutSuspension(t *testing.T) {
	d := newFakeDisk(8)
	d.submitStatus = -int(syscall.EINVAL)
	r, ex := newRig(t, d)

	after := 0
	h, _ := spdk.Spawn(ex, kont.Bind(d.write(0, []byte{1}), func(e kont.Either[error, struct{}]) kont.Eff[kont.Either[error, struct{}]] {
		after++
		return kont.Pure(e)
	}))
	r.Tick()
	if after != 1 {
		t.Fatalf("continuation ran %d times after one tick, want 1", after)
	}
	if got := ex.State(h.ID()); got != spdk.TaskCompleted {
		t.Fatalf("State got %v, want completed", got)
	}
	e, _ := h.Poll()
	err, ok := e.GetLeft()
	if !ok {
		t.Fatal("expected Left")
	}
	var sf *spdk.SetupFailure
	if !errors.As(err, &sf) || sf.Code != -22 {
		t.Fatalf("got %v, want SetupFailure(-22)", err)
	}
	if d.writes != 0 || len(d.pending) != 0 {
		t.Fatal("rejected submission left work behind")
	}
}

// TestSpawnJoinRoundTrip checks that a spawned value is observable only
// after the computation ran on a tick.
func TestSpawnJoinRoundTrip(t *testing.T) {
	r := reactor.New()
	ex := spdk.NewExecutor(r)

	calls := 0
	h, _ := spdk.SpawnExpr(ex, spdk.ExprUnwrap(spdk.ExprDo[int](syncValue(99, &calls))))
	if _, err := h.Poll(); !errors.Is(err, iox.ErrWouldBlock) {
		t.Fatalf("Poll before tick got %v, want ErrWouldBlock", err)
	}
	if calls != 0 {
		t.Fatal("computation ran before the first tick")
	}
	r.Tick()
	v, err := h.Poll()
	if err != nil || v != 99 {
		t.Fatalf("Poll got (%d, %v), want (99, nil)", v, err)
	}
	if calls != 1 {
		t.Fatalf("setup ran %d times, want 1", calls)
	}
}

// TestRootCompletionStopsReactor checks that the root output is returned
// by BlockOn and that no poller runs after the root completes.
func TestRootCompletionStopsReactor(t *testing.T) {
	d := newFakeDisk(0)
	late, calls := 0, 0
	v, err := spdk.BlockOn(spdk.AppOpts{Subsystems: []spdk.Subsystem{d}}, func(ex *spdk.Executor) kont.Eff[int] {
		return kont.Bind(spdk.Do[int](syncValue(7, &calls)), func(e kont.Either[error, int]) kont.Eff[int] {
			ex.Reactor().Register(func(reactor.Arg) reactor.Status {
				late++
				return reactor.Busy
			}, reactor.Arg{}, 0)
			v, _ := e.GetRight()
			return kont.Pure(v)
		})
	})
	if err != nil {
		t.Fatalf("BlockOn: %v", err)
	}
	if v != 7 {
		t.Fatalf("got %d, want 7", v)
	}
	if d.polls != 1 {
		t.Fatalf("disk polled %d times, want 1", d.polls)
	}
	if late != 0 {
		t.Fatalf("poller ran %d times after root completion", late)
	}
	if !d.finied {
		t.Fatal("subsystem not finalized")
	}
}

// writeThenRead writes buf at offset 0 and reads it back.
func writeThenRead(d *fakeDisk, buf []byte) kont.Eff[kont.Either[error, struct{}]] {
	return spdk.TryBind(d.write(0, buf), func(struct{}) kont.Eff[kont.Either[error, struct{}]] {
		return spdk.TryBind(d.read(0, len(buf)), func(got []byte) kont.Eff[kont.Either[error, struct{}]] {
			if !bytes.Equal(got, buf) {
				return spdk.Fail[struct{}](errors.New("read mismatch"))
			}
			return spdk.Ok(struct{}{})
		})
	})
}

// TestWriteReadScenario drives a write followed by a read through the
// bridge. The disk completes each submission on the next tick, so the
// task finishes on the third tick.
func TestWriteReadScenario(t *testing.T) {
	d := newFakeDisk(512)
	r, ex := newRig(t, d)
	buf := bytes.Repeat([]byte{0x5a}, 512)

	h, _ := spdk.Spawn(ex, writeThenRead(d, buf))
	tick(r, 2)
	if got := ex.State(h.ID()); got != spdk.TaskSuspended {
		t.Fatalf("State after 2 ticks got %v, want suspended", got)
	}
	r.Tick()
	if got := ex.State(h.ID()); got != spdk.TaskCompleted {
		t.Fatalf("State after 3 ticks got %v, want completed", got)
	}
	e, err := h.Poll()
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if !e.IsRight() {
		ferr, _ := e.GetLeft()
		t.Fatalf("got failure %v", ferr)
	}
	if d.writes != 1 || d.reads != 1 {
		t.Fatalf("writes=%d reads=%d, want 1/1", d.writes, d.reads)
	}
}

func TestWriteFailureSkipsRead(t *testing.T) {
	d := newFakeDisk(512)
	d.writeStatus = -5
	r, ex := newRig(t, d)

	h, _ := spdk.Spawn(ex, writeThenRead(d, make([]byte, 512)))
	tick(r, 2)
	if got := ex.State(h.ID()); got != spdk.TaskCompleted {
		t.Fatalf("State got %v, want completed", got)
	}
	e, _ := h.Poll()
	err, ok := e.GetLeft()
	if !ok {
		t.Fatal("expected Left")
	}
	var of *spdk.OperationFailure
	if !errors.As(err, &of) || of.Code != -5 {
		t.Fatalf("got %v, want OperationFailure(-5)", err)
	}
	if d.reads != 0 {
		t.Fatalf("read ran %d times after failed write", d.reads)
	}
}
