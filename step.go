// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spdk

import (
	"code.hybscloud.com/kont"
)

// errorDispatcher is the dispatch method of kont error operations.
type errorDispatcher interface {
	DispatchError(ctx *kont.ErrorContext[error]) (kont.Resumed, bool)
}

// advance dispatches the suspended operation of a task.
//
// Task operations are non-blocking: on iox.ErrWouldBlock the suspension is
// returned unconsumed and may be retried after a wake. Error operations are
// eager: a throw discards the suspension and completes with Left.
func advance[R any](tc *taskContext, susp *kont.Suspension[kont.Either[error, R]]) (kont.Either[error, R], *kont.Suspension[kont.Either[error, R]], error) {
	switch op := susp.Op().(type) {
	case taskDispatcher:
		v, err := op.DispatchTask(tc)
		if err != nil {
			var zero kont.Either[error, R]
			return zero, susp, err
		}
		tc.inflight = nil
		result, next := susp.Resume(v)
		return result, next, nil
	case errorDispatcher:
		var ctx kont.ErrorContext[error]
		v, _ := op.DispatchError(&ctx)
		if ctx.HasErr {
			susp.Discard()
			return kont.Left[error, R](ctx.Err), nil, nil
		}
		result, next := susp.Resume(v)
		return result, next, nil
	}
	panic(violationf("spdk: unhandled effect %T in task", susp.Op()))
}
