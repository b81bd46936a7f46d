// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bdev

import "errors"

var (
	// ErrNotFound is returned for an unknown device name.
	ErrNotFound = errors.New("bdev: not found")
	// ErrExists is returned when a device name is already taken.
	ErrExists = errors.New("bdev: already exists")
	// ErrBusy is returned when closing a channel with I/O in flight.
	ErrBusy = errors.New("bdev: busy")
	// ErrInvalidConfig is returned for an unusable device configuration.
	ErrInvalidConfig = errors.New("bdev: invalid config")
	// ErrNotInitialized is returned before the subsystem is bound to a reactor.
	ErrNotInitialized = errors.New("bdev: subsystem not initialized")
	// ErrClosed is returned for operations on a closed descriptor.
	ErrClosed = errors.New("bdev: descriptor closed")
)
