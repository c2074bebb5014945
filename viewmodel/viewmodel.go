// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package viewmodel drives the posts screen state through a strict
// event to state reducer.
//
// A ViewModel has a single owner loop, started by Run, which applies every
// Event and every asynchronous completion in order. Renderers read immutable
// snapshots through State and feed user actions back in through Dispatch.
//
// At most one LoadPosts and one CreatePost may be in flight at a time. A
// trigger received while an operation of the same kind is still in flight
// is ignored.
package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/z5labs/postboard/internal/try"
	"github.com/z5labs/postboard/post"
	"github.com/z5labs/postboard/result"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Repository is the data access the view model delegates to.
type Repository interface {
	GetPosts(context.Context) result.Result[[]post.Post, result.NetworkError]
	CreatePost(context.Context, post.Post) result.Result[post.Post, result.NetworkError]
}

// Option configures a ViewModel.
type Option func(*ViewModel)

// Logger
func Logger(logger *zap.Logger) Option {
	return func(vm *ViewModel) {
		vm.log = logger
	}
}

// OnChange registers a func which is called from the owner loop with
// every newly published State. It must not call back into the ViewModel.
func OnChange(f func(State)) Option {
	return func(vm *ViewModel) {
		vm.onChange = append(vm.onChange, f)
	}
}

// ErrStopped is returned by Dispatch and Await once Run has returned,
// and by any call to Run after the first.
var ErrStopped = errors.New("viewmodel: owner loop has stopped")

// ViewModel owns the State of the posts screen.
type ViewModel struct {
	repo     Repository
	log      *zap.Logger
	onChange []func(State)

	inbox    chan func(*loop)
	started  atomic.Bool
	stopped  chan struct{}
	snapshot atomic.Pointer[State]
}

// New returns a ViewModel in the default State. Run must be
// called before events are dispatched.
func New(repo Repository, opts ...Option) *ViewModel {
	vm := &ViewModel{
		repo:    repo,
		log:     zap.NewNop(),
		inbox:   make(chan func(*loop)),
		stopped: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(vm)
	}
	vm.snapshot.Store(&State{})
	return vm
}

// State returns the most recently published snapshot.
func (vm *ViewModel) State() State {
	return *vm.snapshot.Load()
}

// Dispatch hands ev to the owner loop and returns once it has been applied.
// A CreatePost whose draft is invalid returns a *post.ValidationError and
// leaves the State unchanged.
func (vm *ViewModel) Dispatch(ctx context.Context, ev Event) error {
	reply := make(chan error, 1)
	err := vm.send(ctx, func(l *loop) {
		reply <- l.apply(ev)
	})
	if err != nil {
		return err
	}
	return vm.receive(ctx, reply)
}

// Await blocks until a published State satisfies cond and returns it.
func (vm *ViewModel) Await(ctx context.Context, cond func(State) bool) (State, error) {
	reply := make(chan State, 1)
	err := vm.send(ctx, func(l *loop) {
		l.await(cond, reply)
	})
	if err != nil {
		return State{}, err
	}

	select {
	case <-ctx.Done():
		return State{}, ctx.Err()
	case <-vm.stopped:
		return State{}, ErrStopped
	case s := <-reply:
		return s, nil
	}
}

func (vm *ViewModel) send(ctx context.Context, f func(*loop)) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-vm.stopped:
		return ErrStopped
	case vm.inbox <- f:
		return nil
	}
}

func (vm *ViewModel) receive(ctx context.Context, reply <-chan error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-vm.stopped:
		return ErrStopped
	case err := <-reply:
		return err
	}
}

// Run is the owner loop. It returns once ctx is cancelled and every
// in-flight operation has completed. A ViewModel can only be run once.
func (vm *ViewModel) Run(ctx context.Context) error {
	if !vm.started.CompareAndSwap(false, true) {
		return ErrStopped
	}

	g, gctx := errgroup.WithContext(ctx)

	l := &loop{
		vm:  vm,
		ctx: gctx,
		g:   g,
	}
	g.Go(func() error {
		defer close(vm.stopped)

		for {
			select {
			case <-gctx.Done():
				return nil
			case f := <-vm.inbox:
				f(l)
			}
		}
	})
	return g.Wait()
}

type waiter struct {
	cond  func(State) bool
	reply chan<- State
}

// loop is only ever touched from the owner goroutine.
type loop struct {
	vm      *ViewModel
	ctx     context.Context
	g       *errgroup.Group
	model   model
	waiters []waiter
}

func (l *loop) apply(ev Event) error {
	next, cmd, err := reduce(l.model, ev)
	if err != nil {
		l.vm.log.Info("event rejected", zap.String("event", eventName(ev)), zap.Error(err))
		return err
	}
	if cmd == nil && isTrigger(ev) {
		l.vm.log.Info("operation already in flight, ignoring trigger", zap.String("event", eventName(ev)))
	}

	l.model = next
	l.publish(next.state)

	if cmd != nil {
		l.start(cmd)
	}
	return nil
}

func (l *loop) publish(s State) {
	l.vm.snapshot.Store(&s)
	for _, f := range l.vm.onChange {
		f(s)
	}

	pending := l.waiters[:0]
	for _, w := range l.waiters {
		if w.cond(s) {
			w.reply <- s
			continue
		}
		pending = append(pending, w)
	}
	l.waiters = pending
}

func (l *loop) await(cond func(State) bool, reply chan<- State) {
	s := l.model.state
	if cond(s) {
		reply <- s
		return
	}
	l.waiters = append(l.waiters, waiter{cond: cond, reply: reply})
}

func (l *loop) start(cmd command) {
	vm := l.vm
	ctx := l.ctx

	switch cmd := cmd.(type) {
	case fetchPosts:
		l.g.Go(func() (err error) {
			defer try.Recover(&err)

			res := vm.repo.GetPosts(ctx)
			l.complete(postsLoaded{res: res})
			return nil
		})
	case submitPost:
		l.g.Go(func() (err error) {
			defer try.Recover(&err)

			res := vm.repo.CreatePost(ctx, cmd.post)
			l.complete(postCreated{res: res})
			return nil
		})
	}
}

// complete marshals a completion back onto the owner loop.
func (l *loop) complete(ev Event) {
	select {
	case <-l.ctx.Done():
		l.vm.log.Debug("dropping completion after shutdown", zap.String("event", eventName(ev)))
	case l.vm.inbox <- func(l *loop) { l.apply(ev) }:
	}
}

func isTrigger(ev Event) bool {
	switch ev.(type) {
	case LoadPosts, CreatePost:
		return true
	default:
		return false
	}
}

func eventName(ev Event) string {
	return fmt.Sprintf("%T", ev)
}
