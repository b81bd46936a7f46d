// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package reactor

import (
	"runtime"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"github.com/rs/zerolog"
)

// Reactor ticks registered pollers until it is stopped.
type Reactor struct {
	name     string
	serial   Serial
	log      zerolog.Logger
	pollers  []*Poller
	nextID   uint64
	active   int // registered and not paused
	dead     int // unregistered, not yet compacted
	ticks    uint64
	running  bool
	finished bool
	stop     atomix.Uint32
}

// New creates a reactor. It does not start ticking until Run.
func New(opts ...Option) *Reactor {
	o := options{name: "reactor", logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	s := nextSerial()
	return &Reactor{
		name:   o.name,
		serial: s,
		log:    o.logger.With().Str("reactor", o.name).Uint32("serial", s).Logger(),
	}
}

// Name returns the reactor name.
func (r *Reactor) Name() string { return r.name }

// Serial returns the serial number assigned at creation.
func (r *Reactor) Serial() Serial { return r.serial }

// Logger returns the reactor's contextual logger.
func (r *Reactor) Logger() zerolog.Logger { return r.log }

// Ticks returns the number of ticks run so far.
func (r *Reactor) Ticks() uint64 { return r.ticks }

// Len returns the number of registered pollers, paused ones included.
func (r *Reactor) Len() int { return len(r.pollers) - r.dead }

// Active returns the number of registered pollers that are not paused.
func (r *Reactor) Active() int { return r.active }

// Register adds a poller that is invoked with arg on every tick, or at most
// once per period when period is positive. A poller registered during a tick
// runs from the next tick on.
func (r *Reactor) Register(fn PollFunc, arg Arg, period time.Duration) (*Poller, error) {
	if r.finished {
		return nil, ErrFinished
	}
	if fn == nil {
		return nil, ErrNilPoller
	}
	r.nextID++
	p := &Poller{fn: fn, arg: arg, period: period, id: r.nextID}
	r.pollers = append(r.pollers, p)
	r.active++
	r.log.Debug().Uint64("poller", p.id).Dur("period", period).Msg("poller registered")
	return p, nil
}

// Pause stops ticking p until Resume. Pausing a paused or unregistered
// poller does nothing.
func (r *Reactor) Pause(p *Poller) {
	if p.state != pollerRunning {
		return
	}
	p.state = pollerPaused
	r.active--
}

// Resume makes a paused poller eligible again from the next tick on.
// Redundant calls and calls on unregistered pollers do nothing.
func (r *Reactor) Resume(p *Poller) {
	if p.state != pollerPaused {
		return
	}
	p.state = pollerRunning
	r.active++
}

// Unregister removes p. It is safe to unregister a poller from inside its
// own poll function.
func (r *Reactor) Unregister(p *Poller) {
	switch p.state {
	case pollerUnregistered:
		return
	case pollerRunning:
		r.active--
	}
	p.state = pollerUnregistered
	r.dead++
	r.log.Debug().Uint64("poller", p.id).Msg("poller unregistered")
}

// Tick invokes every running poller once, in registration order, and reports
// Busy if any of them did. A Stop requested during the tick ends it early.
func (r *Reactor) Tick() Status {
	r.ticks++
	status := Idle
	var now time.Time
	n := len(r.pollers)
	for i := 0; i < n; i++ {
		p := r.pollers[i]
		if p.state != pollerRunning {
			continue
		}
		if p.period > 0 {
			if now.IsZero() {
				now = time.Now()
			}
			if !p.due(now) {
				continue
			}
		}
		if p.fn(p.arg) != Idle {
			status = Busy
		}
		if r.stop.Load() != 0 {
			break
		}
	}
	if r.dead > 0 {
		r.compact()
	}
	return status
}

// compact drops unregistered pollers, keeping registration order.
func (r *Reactor) compact() {
	live := r.pollers[:0]
	for _, p := range r.pollers {
		if p.state != pollerUnregistered {
			live = append(live, p)
		}
	}
	clear(r.pollers[len(live):])
	r.pollers = live
	r.dead = 0
}

// Run calls start on the reactor goroutine and then ticks until Stop.
// The calling goroutine is locked to its OS thread for the duration.
//
// When a tick makes no progress Run backs off adaptively. Run returns
// ErrStalled if no poller is left running and Stop was not requested.
func (r *Reactor) Run(start func()) error {
	if r.finished {
		return ErrFinished
	}
	if r.running {
		return ErrRunning
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	r.running = true
	defer func() { r.running = false }()

	r.log.Info().Msg("reactor started")
	if start != nil {
		start()
	}

	var bo iox.Backoff
	for r.stop.Load() == 0 {
		if r.Tick() == Busy {
			bo.Reset()
			continue
		}
		if r.stop.Load() != 0 {
			break
		}
		if r.active == 0 {
			r.log.Error().Int("pollers", r.Len()).Uint64("ticks", r.ticks).Msg("reactor stalled")
			return ErrStalled
		}
		bo.Wait()
	}
	r.log.Info().Uint64("ticks", r.ticks).Msg("reactor stopped")
	return nil
}

// Stop asks the reactor to leave Run after the current poller returns.
// It may be called from any goroutine and reports whether this call was the
// first to request the stop.
func (r *Reactor) Stop() bool {
	return r.stop.Add(1) == 1
}

// Stopped reports whether Stop has been called.
func (r *Reactor) Stopped() bool {
	return r.stop.Load() != 0
}

// Fini unregisters every remaining poller and rejects further registrations.
func (r *Reactor) Fini() {
	if r.finished {
		return
	}
	r.finished = true
	left := 0
	for _, p := range r.pollers {
		if p.state != pollerUnregistered {
			p.state = pollerUnregistered
			left++
		}
	}
	r.pollers = nil
	r.active = 0
	r.dead = 0
	if left > 0 {
		r.log.Warn().Int("pollers", left).Msg("pollers still registered at fini")
	}
}
