// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package reactor

import "time"

// Status is what a poller reports for one invocation.
type Status int

const (
	// Idle reports that the poller found nothing to do.
	Idle Status = 0
	// Busy reports that the poller made progress.
	Busy Status = 1
)

// PollFunc is a poller body. It receives the Arg given at registration.
type PollFunc func(arg Arg) Status

type pollerState uint8

const (
	pollerRunning pollerState = iota
	pollerPaused
	pollerUnregistered
)

// Poller is the identity of a registered poll function.
// It is owned by the Reactor that returned it.
type Poller struct {
	fn     PollFunc
	arg    Arg
	period time.Duration
	next   time.Time
	id     uint64
	state  pollerState
}

// ID returns the poller number, unique within its reactor.
func (p *Poller) ID() uint64 { return p.id }

// Paused reports whether the poller is registered but paused.
func (p *Poller) Paused() bool { return p.state == pollerPaused }

// Registered reports whether the poller has not been unregistered.
func (p *Poller) Registered() bool { return p.state != pollerUnregistered }

// due reports whether a periodic poller should run at now and, if so,
// schedules its next run.
func (p *Poller) due(now time.Time) bool {
	if now.Before(p.next) {
		return false
	}
	p.next = now.Add(p.period)
	return true
}
