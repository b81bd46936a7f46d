// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bdev

import (
	"fmt"

	"code.hybscloud.com/spdk/reactor"
	"github.com/rs/zerolog"
)

// Subsystem owns the block devices of one reactor.
// It implements spdk.Subsystem.
type Subsystem struct {
	log   zerolog.Logger
	cfgs  []Config
	r     *reactor.Reactor
	bdevs map[string]*Bdev
	order []*Bdev
}

// NewSubsystem returns a subsystem that creates cfgs on Init.
func NewSubsystem(log zerolog.Logger, cfgs ...Config) *Subsystem {
	return &Subsystem{
		log:   log.With().Str("subsystem", "bdev").Logger(),
		cfgs:  cfgs,
		bdevs: make(map[string]*Bdev),
	}
}

// Name returns "bdev".
func (s *Subsystem) Name() string { return "bdev" }

// Init binds the subsystem to r and creates the configured devices.
func (s *Subsystem) Init(r *reactor.Reactor) error {
	s.r = r
	for _, cfg := range s.cfgs {
		if _, err := s.Create(cfg); err != nil {
			return err
		}
	}
	s.log.Info().Int("bdevs", len(s.order)).Msg("bdev subsystem initialized")
	return nil
}

// Fini closes leftover channels and releases every device.
func (s *Subsystem) Fini() {
	for i := len(s.order) - 1; i >= 0; i-- {
		s.order[i].release()
	}
	s.order = nil
	clear(s.bdevs)
	s.r = nil
}

// Create adds a device.
func (s *Subsystem) Create(cfg Config) (*Bdev, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if _, ok := s.bdevs[cfg.Name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrExists, cfg.Name)
	}
	b := newBdev(s, cfg)
	s.bdevs[cfg.Name] = b
	s.order = append(s.order, b)
	b.log.Debug().Str("kind", string(cfg.Kind)).Uint64("blocks", cfg.NumBlocks).Uint32("block_size", cfg.BlockSize).Msg("bdev created")
	return b, nil
}

// Get returns the device called name.
func (s *Subsystem) Get(name string) (*Bdev, error) {
	b, ok := s.bdevs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return b, nil
}

// Bdevs returns the devices in creation order.
func (s *Subsystem) Bdevs() []*Bdev {
	return append([]*Bdev(nil), s.order...)
}

// InjectError makes the next count submissions of typ on name complete
// with status instead of being performed.
func (s *Subsystem) InjectError(name string, typ IoType, count int, status int) error {
	b, err := s.Get(name)
	if err != nil {
		return err
	}
	if status >= 0 || count <= 0 || typ >= ioTypes {
		return fmt.Errorf("%w: injection %v count=%d status=%d", ErrInvalidConfig, typ, count, status)
	}
	b.inject[typ] = injection{count: count, status: status}
	return nil
}
