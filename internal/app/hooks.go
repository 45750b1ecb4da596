package app

import (
	"context"
	"log"
	"sync"

	"github.com/ayusman/pingpoint/internal/hook"
	"github.com/ayusman/pingpoint/internal/store"
)

// HookRunner sends points to external hooks. When bindings exist only the
// bound hooks run; otherwise every hook subscribed to points runs.
type HookRunner struct {
	manager  *hook.Manager
	executor *hook.Executor
	bindings *store.BindingRepository
	wg       sync.WaitGroup
}

// NewHookRunner creates a HookRunner. bindings may be nil.
func NewHookRunner(manager *hook.Manager, executor *hook.Executor, bindings *store.BindingRepository) *HookRunner {
	return &HookRunner{
		manager:  manager,
		executor: executor,
		bindings: bindings,
	}
}

type hookCall struct {
	hook *hook.Hook
	req  hook.Request
}

// Dispatch starts one goroutine per target hook and returns immediately.
func (r *HookRunner) Dispatch(ctx context.Context, p Point) {
	for _, call := range r.targets(p) {
		call := call
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()

			resp, err := r.executor.Execute(ctx, call.hook, &call.req)
			if err != nil {
				log.Printf("Hook %s failed: %v", call.hook.Manifest.Name, err)
				return
			}
			if !resp.Success {
				log.Printf("Hook %s reported error: %s", call.hook.Manifest.Name, resp.Error)
			}
		}()
	}
}

// Wait blocks until dispatched hooks have finished.
func (r *HookRunner) Wait() {
	r.wg.Wait()
}

func (r *HookRunner) targets(p Point) []hookCall {
	base := hook.Request{
		Event:     hook.EventPoint,
		Team:      string(p.Team),
		Mode:      string(p.Mode),
		Label:     p.Label,
		Timestamp: p.Time,
	}

	var bindings []*store.Binding
	if r.bindings != nil {
		var err error
		bindings, err = r.bindings.List()
		if err != nil {
			log.Printf("Failed to load hook bindings: %v", err)
		}
	}

	var calls []hookCall
	if len(bindings) == 0 {
		for _, h := range r.manager.List() {
			if h.Manifest.Wants(hook.EventPoint) {
				calls = append(calls, hookCall{hook: h, req: base})
			}
		}
		return calls
	}

	for _, b := range bindings {
		if !b.Matches(string(p.Team)) {
			continue
		}
		h, err := r.manager.Get(b.HookName)
		if err != nil {
			log.Printf("Binding %s refers to missing hook %s", b.ID, b.HookName)
			continue
		}
		req := base
		req.Config = b.Config
		calls = append(calls, hookCall{hook: h, req: req})
	}
	return calls
}
