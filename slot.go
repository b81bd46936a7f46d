// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spdk

import "code.hybscloud.com/iox"

type slotState uint8

const (
	slotEmpty slotState = iota
	slotFilled
	slotTaken
)

// Slot is a one-shot value cell between a completion and its consumer.
// It moves from empty to filled to taken and never back.
//
// A Slot is not safe for concurrent use.
type Slot[T any] struct {
	v     T
	w     Waker
	state slotState
}

// NewSlot returns an empty slot.
func NewSlot[T any]() *Slot[T] {
	return &Slot[T]{}
}

// Fill stores v and wakes the registered waker, if any.
// Filling twice or filling a taken slot panics with [*ContractViolation].
func (s *Slot[T]) Fill(v T) {
	switch s.state {
	case slotFilled:
		panic(violationf("spdk: slot filled twice"))
	case slotTaken:
		panic(violationf("spdk: slot filled after take"))
	}
	s.v = v
	s.state = slotFilled
	if w := s.w; w != nil {
		s.w = nil
		w.Wake()
	}
}

// TryTake returns the value if the slot is filled, without touching any
// waker. Otherwise it registers w, replacing an earlier registration, and
// returns iox.ErrWouldBlock. A nil w keeps the current registration.
// Taking from a taken slot panics with [*ContractViolation].
func (s *Slot[T]) TryTake(w Waker) (T, error) {
	var zero T
	switch s.state {
	case slotFilled:
		v := s.v
		s.v = zero
		s.w = nil
		s.state = slotTaken
		return v, nil
	case slotTaken:
		panic(violationf("spdk: slot taken twice"))
	}
	if w != nil {
		s.w = w
	}
	return zero, iox.ErrWouldBlock
}

// Ready reports whether a value is waiting to be taken.
func (s *Slot[T]) Ready() bool {
	return s.state == slotFilled
}

// abandon retires a slot whose completion will never be consumed.
func (s *Slot[T]) abandon() {
	var zero T
	s.v = zero
	s.w = nil
	s.state = slotTaken
}
