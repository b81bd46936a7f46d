// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bdev

import (
	"fmt"
	"math"
)

// Kind selects a device backend.
type Kind string

const (
	KindMalloc Kind = "malloc"
	KindNull   Kind = "null"
)

// Config describes one device.
type Config struct {
	Name      string
	Kind      Kind
	NumBlocks uint64
	BlockSize uint32
}

func (c Config) validate() error {
	switch {
	case c.Name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidConfig)
	case c.Kind != KindMalloc && c.Kind != KindNull:
		return fmt.Errorf("%w: %s: unknown kind %q", ErrInvalidConfig, c.Name, c.Kind)
	case c.NumBlocks == 0:
		return fmt.Errorf("%w: %s: no blocks", ErrInvalidConfig, c.Name)
	case c.BlockSize < 512 || c.BlockSize&(c.BlockSize-1) != 0:
		return fmt.Errorf("%w: %s: block size %d is not a power of two >= 512", ErrInvalidConfig, c.Name, c.BlockSize)
	case c.NumBlocks > math.MaxInt/uint64(c.BlockSize):
		return fmt.Errorf("%w: %s: %d blocks of %d bytes overflow the device size", ErrInvalidConfig, c.Name, c.NumBlocks, c.BlockSize)
	}
	return nil
}
