// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package reactor

// Arg is the opaque argument a native call hands back to its callback.
//
// It aliases the value it was created from without owning it. The creator
// keeps that value alive until the callback has run; the native side never
// inspects it and must not keep the Arg after invoking the callback.
type Arg struct {
	v any
}

// NewArg wraps v for a native call.
func NewArg(v any) Arg {
	return Arg{v: v}
}

// Value returns the wrapped value.
func (a Arg) Value() any { return a.v }

// IsNil reports whether the Arg carries nothing.
func (a Arg) IsNil() bool { return a.v == nil }
