// Package webfetch binds fetch.Core to goja as the global fetch(), Headers,
// Request, and Response constructors described in spec.md §6. The core's
// network I/O runs on a background goroutine (see fetch/state.go); the
// result is handed back to the JS thread through Loop.RunOnLoop so the
// Promise is only ever resolved on the goroutine that owns the
// goja.Runtime, matching the single-threaded cooperative model in
// spec.md §5.
package webfetch

import (
	"context"

	"github.com/dop251/goja"

	"github.com/speedboat/jsrt/fetch"
	"github.com/speedboat/jsrt/internal/jserr"
)

// Loop is the subset of *goja_nodejs/eventloop.EventLoop this package
// needs: a thread-safe way to run a callback on the goroutine that owns
// the runtime. Declared as an interface so tests can supply a
// synchronous fake instead of a real loop.
type Loop interface {
	RunOnLoop(func(*goja.Runtime))
}

// Fetch holds the dependencies bound into one goja.Runtime's global scope.
type Fetch struct {
	core *fetch.Core
	loop Loop
}

func New(core *fetch.Core, loop Loop) *Fetch {
	return &Fetch{core: core, loop: loop}
}

// Install defines `fetch`, `Headers`, `Request`, and `Response` on rt's
// global object.
func (f *Fetch) Install(rt *goja.Runtime) error {
	if err := rt.GlobalObject().Set("fetch", rt.ToValue(f.jsFetch(rt))); err != nil {
		return err
	}
	if err := rt.GlobalObject().Set("Headers", rt.ToValue(headersConstructor(rt))); err != nil {
		return err
	}
	if err := rt.GlobalObject().Set("Request", rt.ToValue(requestConstructor(rt))); err != nil {
		return err
	}
	if err := rt.GlobalObject().Set("Response", rt.ToValue(responseConstructor(rt))); err != nil {
		return err
	}
	return nil
}

// Factory exposes the same surface in require()-able module form, for
// `require("jsrt:fetch")` per SPEC_FULL.md §15.
func (f *Fetch) Factory(rt *goja.Runtime) (goja.Value, error) {
	obj := rt.NewObject()
	_ = obj.Set("fetch", rt.ToValue(f.jsFetch(rt)))
	_ = obj.Set("Headers", rt.ToValue(headersConstructor(rt)))
	_ = obj.Set("Request", rt.ToValue(requestConstructor(rt)))
	_ = obj.Set("Response", rt.ToValue(responseConstructor(rt)))
	return obj, nil
}

func (f *Fetch) jsFetch(rt *goja.Runtime) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		promise, resolve, reject := rt.NewPromise()

		req, err := requestFromArgs(rt, call)
		if err != nil {
			reject(err)
			return rt.ToValue(promise)
		}

		resultCh := f.core.Do(context.Background(), req)
		go func() {
			result := <-resultCh
			f.loop.RunOnLoop(func(vm *goja.Runtime) {
				if result.Err != nil {
					reject(jserr.Wrapf(jserr.CodeHTTPNetwork, result.Err, "fetch failed in state %s", result.State))
					return
				}
				resolve(newResponseObject(vm, result.Response))
			})
		}()

		return rt.ToValue(promise)
	}
}
