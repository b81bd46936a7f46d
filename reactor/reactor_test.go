// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package reactor_test

import (
	"errors"
	"testing"
	"time"

	"code.hybscloud.com/spdk/reactor"
)

func counter(n *int, status reactor.Status) reactor.PollFunc {
	return func(reactor.Arg) reactor.Status {
		*n++
		return status
	}
}

func TestTickRegistrationOrder(t *testing.T) {
	r := reactor.New()
	var order []int
	for i := range 3 {
		_, err := r.Register(func(reactor.Arg) reactor.Status {
			order = append(order, i)
			return reactor.Idle
		}, reactor.Arg{}, 0)
		if err != nil {
			t.Fatalf("Register: %v", err)
		}
	}
	if got := r.Tick(); got != reactor.Idle {
		t.Fatalf("Tick got %v, want Idle", got)
	}
	if len(order) != 3 || order[0] != 0 || order[1] != 1 || order[2] != 2 {
		t.Fatalf("order got %v, want [0 1 2]", order)
	}
}

func TestTickBusy(t *testing.T) {
	r := reactor.New()
	var idle, busy int
	r.Register(counter(&idle, reactor.Idle), reactor.Arg{}, 0)
	r.Register(counter(&busy, reactor.Busy), reactor.Arg{}, 0)
	if got := r.Tick(); got != reactor.Busy {
		t.Fatalf("Tick got %v, want Busy", got)
	}
	if idle != 1 || busy != 1 {
		t.Fatalf("calls got idle=%d busy=%d, want 1/1", idle, busy)
	}
	if r.Ticks() != 1 {
		t.Fatalf("Ticks got %d, want 1", r.Ticks())
	}
}

func TestArgPassedThrough(t *testing.T) {
	r := reactor.New()
	type state struct{ hits int }
	s := &state{}
	r.Register(func(arg reactor.Arg) reactor.Status {
		arg.Value().(*state).hits++
		return reactor.Idle
	}, reactor.NewArg(s), 0)
	r.Tick()
	r.Tick()
	if s.hits != 2 {
		t.Fatalf("hits got %d, want 2", s.hits)
	}
	if !(reactor.Arg{}).IsNil() {
		t.Fatal("zero Arg should be nil")
	}
}

func TestPauseResume(t *testing.T) {
	r := reactor.New()
	var n int
	p, _ := r.Register(counter(&n, reactor.Idle), reactor.Arg{}, 0)

	r.Pause(p)
	r.Pause(p)
	if r.Active() != 0 || r.Len() != 1 {
		t.Fatalf("after Pause: active=%d len=%d, want 0/1", r.Active(), r.Len())
	}
	if !p.Paused() {
		t.Fatal("Paused got false")
	}
	r.Tick()
	if n != 0 {
		t.Fatalf("paused poller ran %d times", n)
	}

	r.Resume(p)
	r.Resume(p)
	if r.Active() != 1 {
		t.Fatalf("after Resume: active=%d, want 1", r.Active())
	}
	r.Tick()
	if n != 1 {
		t.Fatalf("resumed poller ran %d times, want 1", n)
	}
}

func TestResumeLaterPollerSameTick(t *testing.T) {
	// Resuming a poller positioned later in the order lets it run in the
	// same tick.
	r := reactor.New()
	var n int
	var late *reactor.Poller
	r.Register(func(reactor.Arg) reactor.Status {
		r.Resume(late)
		return reactor.Busy
	}, reactor.Arg{}, 0)
	late, _ = r.Register(counter(&n, reactor.Idle), reactor.Arg{}, 0)
	r.Pause(late)

	r.Tick()
	if n != 1 {
		t.Fatalf("late poller ran %d times, want 1", n)
	}
}

func TestUnregisterSelf(t *testing.T) {
	r := reactor.New()
	var n int
	var p *reactor.Poller
	p, _ = r.Register(func(reactor.Arg) reactor.Status {
		n++
		r.Unregister(p)
		r.Unregister(p)
		return reactor.Busy
	}, reactor.Arg{}, 0)
	r.Tick()
	r.Tick()
	if n != 1 {
		t.Fatalf("poller ran %d times, want 1", n)
	}
	if r.Len() != 0 || r.Active() != 0 {
		t.Fatalf("len=%d active=%d, want 0/0", r.Len(), r.Active())
	}
	if p.Registered() {
		t.Fatal("Registered got true after Unregister")
	}
	r.Resume(p)
	if r.Active() != 0 {
		t.Fatal("Resume revived an unregistered poller")
	}
}

func TestRegisterDuringTick(t *testing.T) {
	r := reactor.New()
	var inner int
	registered := false
	r.Register(func(reactor.Arg) reactor.Status {
		if !registered {
			registered = true
			r.Register(counter(&inner, reactor.Idle), reactor.Arg{}, 0)
		}
		return reactor.Idle
	}, reactor.Arg{}, 0)

	r.Tick()
	if inner != 0 {
		t.Fatalf("poller registered mid-tick ran in the same tick")
	}
	r.Tick()
	if inner != 1 {
		t.Fatalf("inner ran %d times, want 1", inner)
	}
}

func TestPeriodicPoller(t *testing.T) {
	r := reactor.New()
	var n int
	r.Register(counter(&n, reactor.Idle), reactor.Arg{}, time.Hour)
	for range 5 {
		r.Tick()
	}
	if n != 1 {
		t.Fatalf("periodic poller ran %d times, want 1", n)
	}
}

func TestRegisterNil(t *testing.T) {
	r := reactor.New()
	if _, err := r.Register(nil, reactor.Arg{}, 0); !errors.Is(err, reactor.ErrNilPoller) {
		t.Fatalf("got %v, want ErrNilPoller", err)
	}
}

func TestRunStopFromPoller(t *testing.T) {
	r := reactor.New(reactor.WithName("test"))
	var n, after int
	r.Register(func(reactor.Arg) reactor.Status {
		n++
		if n == 3 {
			if !r.Stop() {
				t.Error("first Stop reported false")
			}
			if r.Stop() {
				t.Error("second Stop reported true")
			}
		}
		return reactor.Busy
	}, reactor.Arg{}, 0)
	r.Register(counter(&after, reactor.Busy), reactor.Arg{}, 0)

	started := false
	if err := r.Run(func() { started = true }); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !started {
		t.Fatal("start callback not called")
	}
	if n != 3 {
		t.Fatalf("poller ran %d times, want 3", n)
	}
	// Stop ends the tick before later pollers run.
	if after != 2 {
		t.Fatalf("later poller ran %d times, want 2", after)
	}
	if !r.Stopped() {
		t.Fatal("Stopped got false")
	}
	if r.Name() != "test" {
		t.Fatalf("Name got %q", r.Name())
	}
}

func TestRunStopFromOtherGoroutine(t *testing.T) {
	r := reactor.New()
	var n int
	r.Register(counter(&n, reactor.Idle), reactor.Arg{}, 0)
	go func() {
		time.Sleep(10 * time.Millisecond)
		r.Stop()
	}()
	if err := r.Run(nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n == 0 {
		t.Fatal("poller never ran")
	}
}

func TestRunStalled(t *testing.T) {
	r := reactor.New()
	var p *reactor.Poller
	p, _ = r.Register(func(reactor.Arg) reactor.Status {
		r.Pause(p)
		return reactor.Idle
	}, reactor.Arg{}, 0)
	if err := r.Run(nil); !errors.Is(err, reactor.ErrStalled) {
		t.Fatalf("Run got %v, want ErrStalled", err)
	}
}

func TestFini(t *testing.T) {
	r := reactor.New()
	p, _ := r.Register(counter(new(int), reactor.Idle), reactor.Arg{}, 0)
	r.Fini()
	r.Fini()
	if p.Registered() {
		t.Fatal("poller still registered after Fini")
	}
	if r.Len() != 0 {
		t.Fatalf("Len got %d, want 0", r.Len())
	}
	if _, err := r.Register(counter(new(int), reactor.Idle), reactor.Arg{}, 0); !errors.Is(err, reactor.ErrFinished) {
		t.Fatalf("Register got %v, want ErrFinished", err)
	}
	if err := r.Run(nil); !errors.Is(err, reactor.ErrFinished) {
		t.Fatalf("Run got %v, want ErrFinished", err)
	}
}
