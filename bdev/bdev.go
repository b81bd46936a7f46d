// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bdev

import (
	"fmt"

	"github.com/rs/zerolog"
)

type injection struct {
	count  int
	status int
}

// Bdev is a block device.
type Bdev struct {
	name      string
	kind      Kind
	blockSize uint32
	numBlocks uint64
	sub       *Subsystem
	disk      *mallocDisk
	inject    [ioTypes]injection
	descs     int
	channels  []*IoChannel
	log       zerolog.Logger
}

func newBdev(s *Subsystem, cfg Config) *Bdev {
	b := &Bdev{
		name:      cfg.Name,
		kind:      cfg.Kind,
		blockSize: cfg.BlockSize,
		numBlocks: cfg.NumBlocks,
		sub:       s,
		log:       s.log.With().Str("bdev", cfg.Name).Logger(),
	}
	if cfg.Kind == KindMalloc {
		b.disk = newMallocDisk(b.Size())
	}
	return b
}

// Name returns the device name.
func (b *Bdev) Name() string { return b.name }

// Kind returns the backend kind.
func (b *Bdev) Kind() Kind { return b.kind }

// BlockSize returns the block size in bytes.
func (b *Bdev) BlockSize() uint32 { return b.blockSize }

// NumBlocks returns the number of blocks.
func (b *Bdev) NumBlocks() uint64 { return b.numBlocks }

// Size returns the capacity in bytes.
func (b *Bdev) Size() uint64 { return b.numBlocks * uint64(b.blockSize) }

// injected consumes one pending injection for typ.
func (b *Bdev) injected(typ IoType) (int, bool) {
	in := &b.inject[typ]
	if in.count == 0 {
		return 0, false
	}
	in.count--
	return in.status, true
}

func (b *Bdev) release() {
	for _, ch := range b.channels {
		ch.shutdown()
	}
	b.channels = nil
	if b.descs > 0 {
		b.log.Warn().Int("descs", b.descs).Msg("descriptors open at fini")
	}
}

// Desc is an open descriptor on a device.
type Desc struct {
	bdev     *Bdev
	writable bool
	closed   bool
}

// Open opens the device called name. Writes through a read-only descriptor
// fail with -EBADF.
func Open(sub *Subsystem, name string, writable bool) (*Desc, error) {
	b, err := sub.Get(name)
	if err != nil {
		return nil, err
	}
	b.descs++
	return &Desc{bdev: b, writable: writable}, nil
}

// Bdev returns the device the descriptor is open on.
func (d *Desc) Bdev() *Bdev { return d.bdev }

// Writable reports whether writes are allowed.
func (d *Desc) Writable() bool { return d.writable }

// Close releases the descriptor. Closing twice does nothing.
func (d *Desc) Close() {
	if d.closed {
		return
	}
	d.closed = true
	d.bdev.descs--
}

// GetIoChannel returns a new I/O channel on the subsystem's reactor.
func (d *Desc) GetIoChannel() (*IoChannel, error) {
	if d.closed {
		return nil, ErrClosed
	}
	b := d.bdev
	r := b.sub.r
	if r == nil {
		return nil, ErrNotInitialized
	}
	ch := &IoChannel{bdev: b, r: r}
	if b.kind == KindMalloc {
		ch.qp = newQpair()
		go ch.qp.serve(b.disk)
	}
	p, err := r.Register(pollChannel, ch.arg(), 0)
	if err != nil {
		if ch.qp != nil {
			ch.qp.close()
		}
		return nil, fmt.Errorf("bdev: %s: get io channel: %w", b.name, err)
	}
	ch.poller = p
	b.channels = append(b.channels, ch)
	return ch, nil
}
