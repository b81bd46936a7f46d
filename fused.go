// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spdk

import (
	"code.hybscloud.com/kont"
	"code.hybscloud.com/spdk/reactor"
)

// Ok lifts v into a successful result.
func Ok[T any](v T) kont.Eff[kont.Either[error, T]] {
	return kont.Pure(kont.Right[error, T](v))
}

// Fail lifts err into a failed result.
func Fail[T any](err error) kont.Eff[kont.Either[error, T]] {
	return kont.Pure(kont.Left[error, T](err))
}

// TryBind passes the value of a successful m to f and short-circuits a
// failure.
// Fuses Bind + Either branch.
func TryBind[T, B any](m kont.Eff[kont.Either[error, T]], f func(T) kont.Eff[kont.Either[error, B]]) kont.Eff[kont.Either[error, B]] {
	return kont.Bind(m, func(e kont.Either[error, T]) kont.Eff[kont.Either[error, B]] {
		if err, ok := e.GetLeft(); ok {
			return Fail[B](err)
		}
		v, _ := e.GetRight()
		return f(v)
	})
}

// DoThen performs a native call and continues with next if it succeeded.
// Fuses Perform(Call[T]{Setup: setup}) + TryBind.
func DoThen[T, B any](setup func(arg reactor.Arg) int, next func(T) kont.Eff[kont.Either[error, B]]) kont.Eff[kont.Either[error, B]] {
	return TryBind(Do[T](setup), next)
}

// Unwrap turns a failed result into a kont error effect, which completes
// the enclosing task with that error.
func Unwrap[T any](m kont.Eff[kont.Either[error, T]]) kont.Eff[T] {
	return kont.Bind(m, func(e kont.Either[error, T]) kont.Eff[T] {
		if err, ok := e.GetLeft(); ok {
			return kont.ThrowError[error, T](err)
		}
		v, _ := e.GetRight()
		return kont.Pure(v)
	})
}

// AwaitJoin waits for the task behind h and yields its output.
func AwaitJoin[R any](h *JoinHandle[R]) kont.Eff[kont.Either[error, R]] {
	return kont.Perform(Join[R]{Handle: h})
}
