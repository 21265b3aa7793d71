package gui

import (
	"context"
	"path/filepath"
	"sync"
)

type loadResult struct {
	name string
	err  error
}

// loader runs decodes off the UI thread and hands results back through a
// bounded channel that the UI loop drains. Pending sends are dropped once
// the context is canceled.
type loader struct {
	ctx     context.Context
	load    func(ctx context.Context, path string) error
	results chan loadResult
	wg      sync.WaitGroup
}

func newLoader(ctx context.Context, load func(context.Context, string) error) *loader {
	return &loader{ctx: ctx, load: load, results: make(chan loadResult, 4)}
}

// start decodes path in the background and returns its display name.
func (l *loader) start(path string) string {
	name := filepath.Base(path)
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		r := loadResult{name: name, err: l.load(l.ctx, path)}
		select {
		case l.results <- r:
		case <-l.ctx.Done():
		}
	}()
	return name
}

// poll returns the results that have arrived without blocking.
func (l *loader) poll() []loadResult {
	var out []loadResult
	for {
		select {
		case r := <-l.results:
			out = append(out, r)
		default:
			return out
		}
	}
}

// wait blocks until every started load has finished or given up.
func (l *loader) wait() {
	l.wg.Wait()
}
