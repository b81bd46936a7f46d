// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spdk

import (
	"fmt"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/spdk/reactor"
	"github.com/rs/zerolog"
)

// TaskState is the lifecycle state of a task.
type TaskState uint8

const (
	// TaskCreated is a spawned task that has not been polled yet.
	TaskCreated TaskState = iota
	// TaskRunning is a task being stepped by its poller.
	TaskRunning
	// TaskSuspended is a task waiting on a pending effect.
	TaskSuspended
	// TaskCompleted is a finished task, including aborted ones.
	TaskCompleted
)

func (s TaskState) String() string {
	switch s {
	case TaskCreated:
		return "created"
	case TaskRunning:
		return "running"
	case TaskSuspended:
		return "suspended"
	case TaskCompleted:
		return "completed"
	}
	return fmt.Sprintf("TaskState(%d)", uint8(s))
}

// rootOutput receives the output of the root task.
type rootOutput[R any] struct {
	v    kont.Either[error, R]
	done bool
}

func (o *rootOutput[R]) result() (R, error) {
	if err, ok := o.v.GetLeft(); ok {
		var zero R
		return zero, err
	}
	v, _ := o.v.GetRight()
	return v, nil
}

// task hosts one computation on the reactor.
type task[R any] struct {
	ex      *Executor
	tc      taskContext
	expr    kont.Expr[kont.Either[error, R]]
	susp    *kont.Suspension[kont.Either[error, R]]
	poller  *reactor.Poller
	out     *Slot[kont.Either[error, R]]
	root    *rootOutput[R]
	started bool
	log     zerolog.Logger
}

// pollTask is the poller trampoline shared by every task of type R.
func pollTask[R any](arg reactor.Arg) reactor.Status {
	return arg.Value().(*task[R]).poll()
}

// poll steps the computation while its effects resolve without waiting.
// It pauses the poller on a pending effect and reports Busy if it advanced.
func (t *task[R]) poll() (status reactor.Status) {
	defer func() {
		if v := recover(); v != nil {
			cv, ok := v.(*ContractViolation)
			if !ok {
				panic(v)
			}
			t.abort(cv)
			status = reactor.Busy
		}
	}()

	t.ex.setState(t.tc.id, TaskRunning)
	progressed := false
	var result kont.Either[error, R]
	if !t.started {
		t.started = true
		result, t.susp = kont.StepExpr(t.expr)
		t.expr = kont.Expr[kont.Either[error, R]]{}
		progressed = true
	}
	for t.susp != nil {
		r, next, err := advance(&t.tc, t.susp)
		if err != nil {
			t.ex.setState(t.tc.id, TaskSuspended)
			t.ex.r.Pause(t.poller)
			if progressed {
				return reactor.Busy
			}
			return reactor.Idle
		}
		progressed = true
		result, t.susp = r, next
	}
	t.complete(result)
	return reactor.Busy
}

// abort completes the task with ErrTaskAborted after a contract violation.
func (t *task[R]) abort(cv *ContractViolation) {
	t.log.Error().Err(cv).Msg("task aborted")
	t.susp = nil
	t.tc.inflight = nil
	t.complete(kont.Left[error, R](fmt.Errorf("%w: %w", ErrTaskAborted, cv)))
}

// complete delivers the output and retires the task.
func (t *task[R]) complete(result kont.Either[error, R]) {
	t.ex.r.Unregister(t.poller)
	t.ex.release(t.tc.id)
	t.log.Debug().Bool("failed", result.IsLeft()).Msg("task completed")
	if t.root != nil {
		t.root.v = result
		t.root.done = true
		t.ex.r.Stop()
		return
	}
	t.out.Fill(result)
}
