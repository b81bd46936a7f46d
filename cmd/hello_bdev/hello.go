// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/spdk"
	"code.hybscloud.com/spdk/bdev"
	"code.hybscloud.com/spdk/reactor"
	"github.com/rs/zerolog"
)

const pattern = 0x5a

var errMismatch = errors.New("hello_bdev: read back data does not match")

// hello writes the pattern over the first blocks of the named device one
// block at a time, reads them back in a single request and compares.
// It yields the number of bytes verified.
func hello(log zerolog.Logger, sub *bdev.Subsystem, name string, blocks uint64) kont.Eff[uint64] {
	d, err := bdev.Open(sub, name, true)
	if err != nil {
		return kont.ThrowError[error, uint64](err)
	}
	b := d.Bdev()
	if blocks == 0 || blocks > b.NumBlocks() {
		d.Close()
		return kont.ThrowError[error, uint64](fmt.Errorf("hello_bdev: %d blocks do not fit %s", blocks, name))
	}
	ch, err := d.GetIoChannel()
	if err != nil {
		d.Close()
		return kont.ThrowError[error, uint64](err)
	}
	log.Info().Str("bdev", name).Str("kind", string(b.Kind())).Uint64("blocks", blocks).Msg("opened")

	bs := uint64(b.BlockSize())
	buf := bytes.Repeat([]byte{pattern}, int(blocks*bs))
	want := buf
	if b.Kind() == bdev.KindNull {
		want = make([]byte, len(buf))
	}
	writes := spdk.ForEach(int(blocks), func(i int) kont.Eff[kont.Either[error, struct{}]] {
		off := uint64(i) * bs
		return d.Write(ch, off, buf[off:off+bs])
	})
	verified := spdk.TryBind(writes, func(struct{}) kont.Eff[kont.Either[error, uint64]] {
		log.Debug().Str("bdev", name).Msg("write completed")
		got := make([]byte, len(buf))
		return spdk.TryBind(d.Read(ch, 0, got), func(struct{}) kont.Eff[kont.Either[error, uint64]] {
			if !bytes.Equal(got, want) {
				return spdk.Fail[uint64](errMismatch)
			}
			log.Info().Str("bdev", name).Int("bytes", len(got)).Msg("read back matches")
			return spdk.Ok(uint64(len(got)))
		})
	})
	// Every request has completed by now, on either branch.
	return spdk.Unwrap(kont.Bind(verified, func(e kont.Either[error, uint64]) kont.Eff[kont.Either[error, uint64]] {
		err := ch.Close()
		d.Close()
		if err != nil && e.IsRight() {
			return spdk.Fail[uint64](err)
		}
		return kont.Pure(e)
	}))
}

// stopOnDone stops its reactor from another goroutine once ctx is done.
type stopOnDone struct {
	ctx  context.Context
	quit chan struct{}
}

func newStopOnDone(ctx context.Context) *stopOnDone {
	return &stopOnDone{ctx: ctx, quit: make(chan struct{})}
}

func (s *stopOnDone) Name() string { return "signal" }

func (s *stopOnDone) Init(r *reactor.Reactor) error {
	go func() {
		select {
		case <-s.ctx.Done():
			r.Stop()
		case <-s.quit:
		}
	}()
	return nil
}

func (s *stopOnDone) Fini() { close(s.quit) }
