// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package reactor

import "errors"

var (
	// ErrStalled is returned by Run when every poller is paused or gone and
	// nothing was asked to stop the reactor: no tick could ever make progress.
	ErrStalled = errors.New("reactor: stalled, no runnable pollers")

	// ErrFinished is returned when a finished reactor is asked to run or to
	// register a poller.
	ErrFinished = errors.New("reactor: finished")

	// ErrRunning is returned by Run when the reactor is already running.
	ErrRunning = errors.New("reactor: already running")

	// ErrNilPoller is returned by Register for a nil poll function.
	ErrNilPoller = errors.New("reactor: nil poll function")
)
