// Package script drives the generator from Lua. A script queues command lines
// exactly as if they had arrived on the serial link:
//
//	for f = 100, 1000, 100 do
//	  send(tostring(f))
//	  sleep(250)
//	end
package script

import (
	"context"
	"errors"
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// SendFunc queues one command line and reports whether it was accepted.
type SendFunc func(line string) bool

// Runner executes scripts. Each run gets a fresh Lua state.
type Runner struct {
	send SendFunc
	sent int
}

// NewRunner returns a Runner that hands lines to send.
func NewRunner(send SendFunc) (*Runner, error) {
	if send == nil {
		return nil, errors.New("send function must not be nil")
	}
	return &Runner{send: send}, nil
}

// Sent returns the number of lines accepted by send during the last run.
func (r *Runner) Sent() int {
	return r.sent
}

// Run executes source until it returns or ctx is cancelled.
func (r *Runner) Run(ctx context.Context, source string) error {
	return r.run(ctx, func(L *lua.LState) error { return L.DoString(source) })
}

// RunFile executes the script at path.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	return r.run(ctx, func(L *lua.LState) error { return L.DoFile(path) })
}

func (r *Runner) run(ctx context.Context, do func(*lua.LState) error) error {
	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)

	r.sent = 0
	L.SetGlobal("send", L.NewFunction(r.luaSend))
	L.SetGlobal("sleep", L.NewFunction(luaSleep))

	if err := do(L); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("running script: %w", err)
	}
	return nil
}

// send(line) -> bool. Numbers are accepted and sent in their decimal form.
func (r *Runner) luaSend(L *lua.LState) int {
	var line string
	switch v := L.CheckAny(1).(type) {
	case lua.LString:
		line = string(v)
	case lua.LNumber:
		line = v.String()
	default:
		L.ArgError(1, "string or number expected")
		return 0
	}

	ok := r.send(line)
	if ok {
		r.sent++
	}
	L.Push(lua.LBool(ok))
	return 1
}

// sleep(ms)
func luaSleep(L *lua.LState) int {
	ms := float64(L.CheckNumber(1))
	if ms <= 0 {
		return 0
	}

	t := time.NewTimer(time.Duration(ms * float64(time.Millisecond)))
	defer t.Stop()

	ctx := L.Context()
	if ctx == nil {
		<-t.C
		return 0
	}
	select {
	case <-t.C:
	case <-ctx.Done():
		L.RaiseError("sleep interrupted: %v", ctx.Err())
	}
	return 0
}
