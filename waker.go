// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spdk

import "code.hybscloud.com/spdk/reactor"

// Waker is a resumption signal. Wake may be called any number of times.
type Waker interface {
	Wake()
}

// WakerFunc adapts a function to [Waker].
type WakerFunc func()

// Wake calls f.
func (f WakerFunc) Wake() { f() }

// WakeToken resumes a paused poller on its reactor. It does not own the
// poller; copies are free. The zero value does nothing.
type WakeToken struct {
	r *reactor.Reactor
	p *reactor.Poller
}

// NewWakeToken returns a token that resumes p on r.
func NewWakeToken(r *reactor.Reactor, p *reactor.Poller) WakeToken {
	return WakeToken{r: r, p: p}
}

// Wake makes the poller eligible to run again. Redundant calls do nothing.
func (t WakeToken) Wake() {
	if t.r == nil || t.p == nil {
		return
	}
	t.r.Resume(t.p)
}
