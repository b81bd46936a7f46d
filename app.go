// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spdk

import (
	"fmt"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/spdk/reactor"
	"github.com/rs/zerolog"
)

// Subsystem is a component initialized on the reactor before the root
// computation runs and finalized after it completes.
type Subsystem interface {
	Name() string
	Init(r *reactor.Reactor) error
	Fini()
}

// AppOpts configures [BlockOn].
type AppOpts struct {
	// Name names the reactor in logs. Defaults to "app".
	Name string
	// Logger receives reactor and task logs. The zero value discards them.
	Logger zerolog.Logger
	// Subsystems are initialized in order and finalized in reverse.
	Subsystems []Subsystem
}

// BlockOn runs main's computation as the root task of a new reactor and
// returns its output once it completes. Tasks spawned by the computation
// share the reactor; those still pending when the root completes are
// abandoned.
func BlockOn[R any](opts AppOpts, main func(ex *Executor) kont.Eff[R]) (R, error) {
	return BlockOnExpr(opts, func(ex *Executor) kont.Expr[R] {
		return kont.Reify(main(ex))
	})
}

// BlockOnExpr is the Expr-world form of [BlockOn].
func BlockOnExpr[R any](opts AppOpts, main func(ex *Executor) kont.Expr[R]) (R, error) {
	var zero R
	name := opts.Name
	if name == "" {
		name = "app"
	}
	r := reactor.New(reactor.WithName(name), reactor.WithLogger(opts.Logger))
	defer r.Fini()

	inited := 0
	defer func() {
		for i := inited - 1; i >= 0; i-- {
			opts.Subsystems[i].Fini()
		}
	}()
	for _, s := range opts.Subsystems {
		if err := s.Init(r); err != nil {
			return zero, fmt.Errorf("spdk: init subsystem %s: %w", s.Name(), err)
		}
		inited++
	}

	ex := NewExecutor(r)
	root := &rootOutput[R]{}
	var spawnErr error
	err := r.Run(func() {
		if _, spawnErr = spawnRoot(ex, main(ex), root); spawnErr != nil {
			r.Stop()
		}
	})
	switch {
	case spawnErr != nil:
		return zero, spawnErr
	case err != nil:
		return zero, fmt.Errorf("spdk: run %s: %w", name, err)
	case !root.done:
		return zero, ErrInterrupted
	}
	if n := ex.Len(); n > 0 {
		r.Logger().Warn().Int("tasks", n).Msg("tasks pending at shutdown")
	}
	return root.result()
}
