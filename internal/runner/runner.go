// Package runner ties the lifetime of a command's long-running tasks together.
package runner

import (
	"context"
	"fmt"
	"sync"
)

// Group runs tasks that share one context. The first task to return cancels the context, so the
// others wind down, and Wait reports the first failure.
type Group struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	once sync.Once
	mu   sync.Mutex
	err  error
}

// New derives the group's context from parent.
func New(parent context.Context) *Group {
	ctx, cancel := context.WithCancel(parent)
	return &Group{ctx: ctx, cancel: cancel}
}

// Go starts a task. Tasks must return once their context is done. A panic is recovered and
// reported as the task's error.
func (g *Group) Go(name string, task func(context.Context) error) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer g.cancel()
		defer func() {
			if r := recover(); r != nil {
				g.fail(fmt.Errorf("%s: panic: %v", name, r))
			}
		}()
		if err := task(g.ctx); err != nil {
			g.fail(fmt.Errorf("%s: %w", name, err))
		}
	}()
}

func (g *Group) fail(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err == nil {
		g.err = err
	}
}

// Wait blocks until every task returned.
func (g *Group) Wait() error {
	g.wg.Wait()
	g.once.Do(g.cancel)

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}
