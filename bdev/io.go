// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bdev

import (
	"fmt"
	"syscall"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/spdk"
	"code.hybscloud.com/spdk/reactor"
)

// IoType is the kind of an I/O request.
type IoType uint8

const (
	IoRead IoType = iota
	IoWrite
	ioTypes
)

func (t IoType) String() string {
	switch t {
	case IoRead:
		return "read"
	case IoWrite:
		return "write"
	}
	return fmt.Sprintf("IoType(%d)", uint8(t))
}

// CompletionFunc is the native completion callback. status is 0 on
// success or a negative errno.
type CompletionFunc func(status int, arg reactor.Arg)

type ioRequest struct {
	typ    IoType
	offset uint64
	length uint64
	buf    []byte
	cb     CompletionFunc
	arg    reactor.Arg
	status int
}

// check validates a submission against the descriptor, channel and device.
func (d *Desc) check(ch *IoChannel, typ IoType, buf []byte, offset, length uint64, cb CompletionFunc) int {
	b := d.bdev
	switch {
	case d.closed:
		return -int(syscall.EBADF)
	case typ == IoWrite && !d.writable:
		return -int(syscall.EBADF)
	case ch == nil || ch.closed || ch.bdev != b:
		return -int(syscall.ENXIO)
	case cb == nil || length == 0 || uint64(len(buf)) < length:
		return -int(syscall.EINVAL)
	case offset%uint64(b.blockSize) != 0 || length%uint64(b.blockSize) != 0:
		return -int(syscall.EINVAL)
	case offset > b.Size() || length > b.Size()-offset:
		return -int(syscall.EINVAL)
	}
	return 0
}

func (d *Desc) submit(ch *IoChannel, typ IoType, buf []byte, offset, length uint64, cb CompletionFunc, arg reactor.Arg) int {
	if rc := d.check(ch, typ, buf, offset, length, cb); rc != 0 {
		return rc
	}
	return ch.submit(ioRequest{typ: typ, offset: offset, length: length, buf: buf, cb: cb, arg: arg})
}

// SubmitRead reads length bytes at offset into buf. It returns 0 when cb
// will be called exactly once, or a negative errno when the request was
// rejected and cb will never be called. offset and length must be
// multiples of the block size.
func (d *Desc) SubmitRead(ch *IoChannel, buf []byte, offset, length uint64, cb CompletionFunc, arg reactor.Arg) int {
	return d.submit(ch, IoRead, buf, offset, length, cb, arg)
}

// SubmitWrite writes length bytes of buf at offset, with the same contract
// as [Desc.SubmitRead].
func (d *Desc) SubmitWrite(ch *IoChannel, buf []byte, offset, length uint64, cb CompletionFunc, arg reactor.Arg) int {
	return d.submit(ch, IoWrite, buf, offset, length, cb, arg)
}

// ioDone is the completion trampoline of the effect wrappers.
func ioDone(status int, arg reactor.Arg) {
	spdk.CompleteStatus(arg, status)
}

// Read fills buf from offset.
func (d *Desc) Read(ch *IoChannel, offset uint64, buf []byte) kont.Eff[kont.Either[error, struct{}]] {
	return spdk.Do[struct{}](func(arg reactor.Arg) int {
		return d.SubmitRead(ch, buf, offset, uint64(len(buf)), ioDone, arg)
	})
}

// Write stores buf at offset.
func (d *Desc) Write(ch *IoChannel, offset uint64, buf []byte) kont.Eff[kont.Either[error, struct{}]] {
	return spdk.Do[struct{}](func(arg reactor.Arg) int {
		return d.SubmitWrite(ch, buf, offset, uint64(len(buf)), ioDone, arg)
	})
}

// ExprRead is the Expr-world form of [Desc.Read].
func (d *Desc) ExprRead(ch *IoChannel, offset uint64, buf []byte) kont.Expr[kont.Either[error, struct{}]] {
	return spdk.ExprDo[struct{}](func(arg reactor.Arg) int {
		return d.SubmitRead(ch, buf, offset, uint64(len(buf)), ioDone, arg)
	})
}

// ExprWrite is the Expr-world form of [Desc.Write].
func (d *Desc) ExprWrite(ch *IoChannel, offset uint64, buf []byte) kont.Expr[kont.Either[error, struct{}]] {
	return spdk.ExprDo[struct{}](func(arg reactor.Arg) int {
		return d.SubmitWrite(ch, buf, offset, uint64(len(buf)), ioDone, arg)
	})
}
