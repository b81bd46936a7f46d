// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spdk

import (
	"code.hybscloud.com/kont"
	"code.hybscloud.com/spdk/reactor"
)

// identityResume is the resume function of fused effect frames.
func identityResume(v kont.Erased) kont.Erased { return v }

// ExprOk lifts v into a successful result.
func ExprOk[T any](v T) kont.Expr[kont.Either[error, T]] {
	return kont.ExprReturn(kont.Right[error, T](v))
}

// ExprFail lifts err into a failed result.
func ExprFail[T any](err error) kont.Expr[kont.Either[error, T]] {
	return kont.ExprReturn(kont.Left[error, T](err))
}

// tryBindNow applies f to a resolved result.
func tryBindNow[T, B any](e kont.Either[error, T], f func(T) kont.Expr[kont.Either[error, B]]) kont.Expr[kont.Either[error, B]] {
	if err, ok := e.GetLeft(); ok {
		return ExprFail[B](err)
	}
	v, _ := e.GetRight()
	return f(v)
}

// ExprTryBind passes the value of a successful m to f and short-circuits a
// failure. A resolved m is bound without allocating a frame.
func ExprTryBind[T, B any](m kont.Expr[kont.Either[error, T]], f func(T) kont.Expr[kont.Either[error, B]]) kont.Expr[kont.Either[error, B]] {
	if _, ok := m.Frame.(kont.ReturnFrame); ok {
		return tryBindNow(m.Value, f)
	}
	bf := kont.AcquireBindFrame()
	bf.F = func(a kont.Erased) kont.Expr[kont.Erased] {
		next := tryBindNow(a.(kont.Either[error, T]), f)
		return kont.Expr[kont.Erased]{Value: kont.Erased(next.Value), Frame: next.Frame}
	}
	bf.Next = kont.ReturnFrame{}
	var zero kont.Either[error, B]
	return kont.Expr[kont.Either[error, B]]{
		Value: zero,
		Frame: kont.ChainFrames(m.Frame, bf),
	}
}

func doThenUnwind[T, B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	next := data.(func(T) kont.Expr[kont.Either[error, B]])
	result := tryBindNow(current.(kont.Either[error, T]), next)
	return kont.Erased(result.Value), result.Frame
}

// ExprDoThen performs a native call and continues with next if it succeeded.
// Fuses ExprPerform(Call[T]{Setup: setup}) + ExprTryBind.
func ExprDoThen[T, B any](setup func(arg reactor.Arg) int, next func(T) kont.Expr[kont.Either[error, B]]) kont.Expr[kont.Either[error, B]] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = next
	bf.Unwind = doThenUnwind[T, B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Call[T]{Setup: setup}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[kont.Either[error, B]](ef)
}

func unwrapNow[T any](e kont.Either[error, T]) kont.Expr[T] {
	if err, ok := e.GetLeft(); ok {
		return kont.ExprThrowError[error, T](err)
	}
	v, _ := e.GetRight()
	return kont.ExprReturn(v)
}

// ExprUnwrap turns a failed result into a kont error effect, which
// completes the enclosing task with that error.
func ExprUnwrap[T any](m kont.Expr[kont.Either[error, T]]) kont.Expr[T] {
	if _, ok := m.Frame.(kont.ReturnFrame); ok {
		return unwrapNow(m.Value)
	}
	bf := kont.AcquireBindFrame()
	bf.F = func(a kont.Erased) kont.Expr[kont.Erased] {
		next := unwrapNow(a.(kont.Either[error, T]))
		return kont.Expr[kont.Erased]{Value: kont.Erased(next.Value), Frame: next.Frame}
	}
	bf.Next = kont.ReturnFrame{}
	var zero T
	return kont.Expr[T]{
		Value: zero,
		Frame: kont.ChainFrames(m.Frame, bf),
	}
}

// ExprAwaitJoin waits for the task behind h and yields its output.
func ExprAwaitJoin[R any](h *JoinHandle[R]) kont.Expr[kont.Either[error, R]] {
	return kont.ExprPerform(Join[R]{Handle: h})
}
