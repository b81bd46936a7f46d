// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spdk

import (
	"code.hybscloud.com/kont"
)

// ForEach runs body for i in [0, n) in order and stops at the first
// failure, which becomes the result.
func ForEach(n int, body func(i int) kont.Eff[kont.Either[error, struct{}]]) kont.Eff[kont.Either[error, struct{}]] {
	return forEachFrom(0, n, body)
}

func forEachFrom(i, n int, body func(int) kont.Eff[kont.Either[error, struct{}]]) kont.Eff[kont.Either[error, struct{}]] {
	if i >= n {
		return Ok(struct{}{})
	}
	return TryBind(body(i), func(struct{}) kont.Eff[kont.Either[error, struct{}]] {
		return forEachFrom(i+1, n, body)
	})
}

// ExprForEach is the Expr-world form of [ForEach].
// Iterations that resolve without suspending are bound inline.
func ExprForEach(n int, body func(i int) kont.Expr[kont.Either[error, struct{}]]) kont.Expr[kont.Either[error, struct{}]] {
	return exprForEachFrom(0, n, body)
}

func exprForEachFrom(i, n int, body func(int) kont.Expr[kont.Either[error, struct{}]]) kont.Expr[kont.Either[error, struct{}]] {
	if i >= n {
		return ExprOk(struct{}{})
	}
	return ExprTryBind(body(i), func(struct{}) kont.Expr[kont.Either[error, struct{}]] {
		return exprForEachFrom(i+1, n, body)
	})
}
