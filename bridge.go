// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spdk

import (
	"code.hybscloud.com/kont"
	"code.hybscloud.com/spdk/reactor"
)

// Reify converts a Cont-world computation to Expr-world.
func Reify[A any](m kont.Eff[A]) kont.Expr[A] {
	return kont.Reify(m)
}

// Reflect converts an Expr-world computation to Cont-world.
func Reflect[A any](m kont.Expr[A]) kont.Eff[A] {
	return kont.Reflect(m)
}

// Do performs one native asynchronous call.
// setup submits the call and must arrange for [Complete] to be invoked with
// its argument exactly once, unless it returns a nonzero status.
func Do[T any](setup func(arg reactor.Arg) int) kont.Eff[kont.Either[error, T]] {
	return kont.Perform(Call[T]{Setup: setup})
}

// ExprDo is the Expr-world form of [Do].
func ExprDo[T any](setup func(arg reactor.Arg) int) kont.Expr[kont.Either[error, T]] {
	return kont.ExprPerform(Call[T]{Setup: setup})
}

// Complete is the callback trampoline for a [Call]. It fills the slot
// carried by arg with v when status is zero, or with an
// [*OperationFailure] otherwise, and wakes the waiting task.
//
// arg must be the argument given to the Call's setup and T its result type;
// anything else panics with [*ContractViolation].
func Complete[T any](arg reactor.Arg, v T, status int) {
	slot, ok := arg.Value().(*Slot[kont.Either[error, T]])
	if !ok {
		panic(violationf("spdk: completion argument %T is not a pending Call[%T]", arg.Value(), v))
	}
	if status != 0 {
		slot.Fill(kont.Left[error, T](&OperationFailure{Code: Errno(status)}))
		return
	}
	slot.Fill(kont.Right[error, T](v))
}

// CompleteStatus completes a Call[struct{}] with status only.
func CompleteStatus(arg reactor.Arg, status int) {
	Complete(arg, struct{}{}, status)
}
