// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spdk

import (
	"fmt"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
	"code.hybscloud.com/spdk/reactor"
	"github.com/rs/zerolog"
)

// TaskID identifies a task. The high half is the generation of the arena
// entry and the low half its index, so a stale ID never names a newer task.
type TaskID uint64

func makeTaskID(index, gen uint32) TaskID { return TaskID(gen)<<32 | TaskID(index) }

func (id TaskID) index() uint32 { return uint32(id) }

func (id TaskID) gen() uint32 { return uint32(id >> 32) }

func (id TaskID) String() string {
	return fmt.Sprintf("%d.%d", id.index(), id.gen())
}

type taskEntry struct {
	gen   uint32
	state TaskState
	live  bool
}

// Executor hosts tasks on one reactor.
// It must only be used on the reactor goroutine.
type Executor struct {
	r       *reactor.Reactor
	log     zerolog.Logger
	entries []taskEntry
	free    []uint32
	live    int
	rooted  bool
}

// NewExecutor returns an executor that registers its tasks on r.
func NewExecutor(r *reactor.Reactor) *Executor {
	return &Executor{r: r, log: r.Logger()}
}

// Reactor returns the reactor tasks are registered on.
func (ex *Executor) Reactor() *reactor.Reactor { return ex.r }

// Len returns the number of tasks that have not completed.
func (ex *Executor) Len() int { return ex.live }

// State returns the state of the task named by id. Unknown and stale IDs
// report TaskCompleted.
func (ex *Executor) State(id TaskID) TaskState {
	i := id.index()
	if int(i) >= len(ex.entries) {
		return TaskCompleted
	}
	e := &ex.entries[i]
	if !e.live || e.gen != id.gen() {
		return TaskCompleted
	}
	return e.state
}

func (ex *Executor) alloc() TaskID {
	var i uint32
	if n := len(ex.free); n > 0 {
		i = ex.free[n-1]
		ex.free = ex.free[:n-1]
	} else {
		i = uint32(len(ex.entries))
		ex.entries = append(ex.entries, taskEntry{})
	}
	e := &ex.entries[i]
	e.gen++
	e.state = TaskCreated
	e.live = true
	ex.live++
	return makeTaskID(i, e.gen)
}

func (ex *Executor) release(id TaskID) {
	e := &ex.entries[id.index()]
	if !e.live || e.gen != id.gen() {
		return
	}
	e.live = false
	e.state = TaskCompleted
	ex.free = append(ex.free, id.index())
	ex.live--
}

func (ex *Executor) setState(id TaskID, s TaskState) {
	e := &ex.entries[id.index()]
	if e.live && e.gen == id.gen() {
		e.state = s
	}
}

// spawn registers the task poller. The computation is not stepped until
// the poller first runs.
func spawn[R any](ex *Executor, m kont.Expr[R], out *Slot[kont.Either[error, R]], root *rootOutput[R]) (TaskID, error) {
	id := ex.alloc()
	t := &task[R]{
		ex: ex,
		expr: kont.ExprMap(m, func(r R) kont.Either[error, R] {
			return kont.Right[error, R](r)
		}),
		out:  out,
		root: root,
		log:  ex.log.With().Stringer("task", id).Logger(),
	}
	t.tc.id = id
	p, err := ex.r.Register(pollTask[R], reactor.NewArg(t), 0)
	if err != nil {
		ex.release(id)
		return 0, fmt.Errorf("spdk: spawn task: %w", err)
	}
	t.poller = p
	t.tc.waker = NewWakeToken(ex.r, p)
	t.log.Debug().Bool("root", root != nil).Msg("task spawned")
	return id, nil
}

// Spawn hosts m on the executor and returns a handle to its output.
// Dropping the handle does not cancel the task.
func Spawn[R any](ex *Executor, m kont.Eff[R]) (*JoinHandle[R], error) {
	return SpawnExpr(ex, kont.Reify(m))
}

// SpawnExpr is the Expr-world form of [Spawn].
func SpawnExpr[R any](ex *Executor, m kont.Expr[R]) (*JoinHandle[R], error) {
	out := NewSlot[kont.Either[error, R]]()
	id, err := spawn(ex, m, out, nil)
	if err != nil {
		return nil, err
	}
	return newJoinHandle(id, out), nil
}

// spawnRoot hosts the computation whose completion stops the reactor.
func spawnRoot[R any](ex *Executor, m kont.Expr[R], out *rootOutput[R]) (TaskID, error) {
	if ex.rooted {
		panic(violationf("spdk: executor already has a root task"))
	}
	ex.rooted = true
	return spawn(ex, m, nil, out)
}

// JoinHandle observes the output of a spawned task.
type JoinHandle[R any] struct {
	id      TaskID
	out     *Slot[kont.Either[error, R]]
	v       kont.Either[error, R]
	done    bool
	waiters []Waker
	wake    Waker
}

func newJoinHandle[R any](id TaskID, out *Slot[kont.Either[error, R]]) *JoinHandle[R] {
	h := &JoinHandle[R]{id: id, out: out}
	h.wake = WakerFunc(h.wakeAll)
	return h
}

// ID returns the task ID.
func (h *JoinHandle[R]) ID() TaskID { return h.id }

// Done reports whether the task output is available.
func (h *JoinHandle[R]) Done() bool { return h.done || h.out.Ready() }

// Poll returns the task output, or iox.ErrWouldBlock while the task runs.
// Once resolved it returns the same output on every call.
func (h *JoinHandle[R]) Poll() (R, error) {
	e, err := h.take(nil)
	if err != nil {
		var zero R
		return zero, err
	}
	if err, ok := e.GetLeft(); ok {
		var zero R
		return zero, err
	}
	v, _ := e.GetRight()
	return v, nil
}

// take returns the output, registering w to be woken on completion if it
// is not available yet.
func (h *JoinHandle[R]) take(w Waker) (kont.Either[error, R], error) {
	if h.done {
		return h.v, nil
	}
	if w != nil && !h.waiting(w) {
		h.waiters = append(h.waiters, w)
	}
	v, err := h.out.TryTake(h.wake)
	if err != nil {
		var zero kont.Either[error, R]
		return zero, iox.ErrWouldBlock
	}
	h.v, h.done = v, true
	h.waiters = nil
	return v, nil
}

// waiting reports whether the task token w is already registered.
// Only WakeTokens are compared; other wakers may not be comparable.
func (h *JoinHandle[R]) waiting(w Waker) bool {
	tok, ok := w.(WakeToken)
	if !ok {
		return false
	}
	for _, x := range h.waiters {
		if t, ok := x.(WakeToken); ok && t == tok {
			return true
		}
	}
	return false
}

func (h *JoinHandle[R]) wakeAll() {
	ws := h.waiters
	h.waiters = nil
	for _, w := range ws {
		w.Wake()
	}
}
