// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spdk

import (
	"code.hybscloud.com/kont"
	"code.hybscloud.com/spdk/reactor"
)

// taskContext is the per-task state visible to effect dispatch.
type taskContext struct {
	id    TaskID
	waker Waker
	// inflight is the pending slot of the current Call, kept across
	// dispatch attempts until the suspension is resumed.
	inflight any
}

// taskDispatcher is implemented by effect operations a task can handle.
// DispatchTask returns iox.ErrWouldBlock while the operation is pending;
// the task has registered its waker by then.
type taskDispatcher interface {
	DispatchTask(tc *taskContext) (kont.Resumed, error)
}

// Call is the effect operation for one native asynchronous call.
// Perform(Call[T]{Setup: f}) runs f once with the argument the native
// callback must hand to [Complete], then waits for that completion.
//
// Setup returns the native submission status. A nonzero status means no
// completion will follow and yields a [*SetupFailure] without suspending.
type Call[T any] struct {
	kont.Phantom[kont.Either[error, T]]
	Setup func(arg reactor.Arg) int
}

// DispatchTask submits the native call on first dispatch and takes its
// result once the completion has filled the slot.
func (c Call[T]) DispatchTask(tc *taskContext) (kont.Resumed, error) {
	slot, _ := tc.inflight.(*Slot[kont.Either[error, T]])
	if slot == nil {
		if c.Setup == nil {
			panic(violationf("spdk: Call[%T] without setup", *new(T)))
		}
		slot = NewSlot[kont.Either[error, T]]()
		if code := c.Setup(reactor.NewArg(slot)); code != 0 {
			slot.abandon()
			return kont.Left[error, T](&SetupFailure{Code: Errno(code)}), nil
		}
		tc.inflight = slot
	}
	v, err := slot.TryTake(tc.waker)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Join is the effect operation for awaiting another task's output.
// Perform(Join[R]{Handle: h}) resumes with the output of h's task.
type Join[R any] struct {
	kont.Phantom[kont.Either[error, R]]
	Handle *JoinHandle[R]
}

// DispatchTask takes the joined task's output or waits for it.
func (j Join[R]) DispatchTask(tc *taskContext) (kont.Resumed, error) {
	if j.Handle == nil {
		panic(violationf("spdk: Join on nil handle"))
	}
	if j.Handle.id == tc.id {
		panic(violationf("spdk: task %v joins itself", tc.id))
	}
	v, err := j.Handle.take(tc.waker)
	if err != nil {
		return nil, err
	}
	return v, nil
}
