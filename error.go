// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spdk

import (
	"errors"
	"fmt"
	"syscall"
)

var (
	// ErrTaskAborted is the output of a task stopped by a contract violation.
	ErrTaskAborted = errors.New("spdk: task aborted")

	// ErrInterrupted is returned by BlockOn when the reactor was stopped
	// before the root computation completed.
	ErrInterrupted = errors.New("spdk: reactor stopped before root task completed")
)

// Errno is a native status code. Failures are negative errno values.
type Errno int

func (e Errno) abs() int {
	if e < 0 {
		return int(-e)
	}
	return int(e)
}

func (e Errno) Error() string {
	return fmt.Sprintf("%s (%d)", syscall.Errno(e.abs()).Error(), int(e))
}

// Is matches the positive syscall.Errno of the same value.
func (e Errno) Is(target error) bool {
	t, ok := target.(syscall.Errno)
	return ok && int(t) == e.abs()
}

// SetupFailure reports that a native call rejected the request synchronously.
// No completion will follow.
type SetupFailure struct {
	Code Errno
}

func (e *SetupFailure) Error() string {
	return "spdk: native call setup failed: " + e.Code.Error()
}

func (e *SetupFailure) Unwrap() error { return e.Code }

// OperationFailure reports a nonzero status delivered by a native completion.
type OperationFailure struct {
	Code Errno
}

func (e *OperationFailure) Error() string {
	return "spdk: native operation failed: " + e.Code.Error()
}

func (e *OperationFailure) Unwrap() error { return e.Code }

// ContractViolation is the panic value for misuse of slots, calls and joins.
type ContractViolation struct {
	Msg string
}

func (e *ContractViolation) Error() string { return e.Msg }

func violationf(format string, args ...any) *ContractViolation {
	return &ContractViolation{Msg: fmt.Sprintf(format, args...)}
}
