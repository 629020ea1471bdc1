// Package execcmdtest provides a scripted execcmd.Runner for tests.
package execcmdtest

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/rshade/pxpantheon/internal/execcmd"
)

// Response is what the fake returns for a matching call.
type Response struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// Call records one spawned process.
type Call struct {
	Dir  string
	Name string
	Args []string
}

// Line renders the call as a single command line.
func (c Call) Line() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

type rule struct {
	prefix string
	resp   Response
}

// FakeRunner answers calls from rules matched by command-line prefix. Unmatched calls
// succeed with empty output. Every call is recorded.
type FakeRunner struct {
	mu        sync.Mutex
	rules     []rule
	calls     []Call
	installed map[string]bool
}

// NewFakeRunner returns an empty fake.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{installed: map[string]bool{}}
}

// On registers resp for calls whose rendered line starts with prefix. Later rules win.
func (f *FakeRunner) On(prefix string, resp Response) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, rule{prefix: prefix, resp: resp})
	return f
}

// Install marks an executable as present for LookPath.
func (f *FakeRunner) Install(name string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.installed[name] = true
	return f
}

// Run implements execcmd.Runner.
func (f *FakeRunner) Run(_ context.Context, req execcmd.Request) (int, error) {
	f.mu.Lock()
	call := Call{Dir: req.Dir, Name: req.Name, Args: append([]string(nil), req.Args...)}
	f.calls = append(f.calls, call)

	var resp Response
	line := call.Line()
	for i := len(f.rules) - 1; i >= 0; i-- {
		if strings.HasPrefix(line, f.rules[i].prefix) {
			resp = f.rules[i].resp
			break
		}
	}
	f.mu.Unlock()

	if resp.Err != nil {
		return -1, resp.Err
	}
	if resp.Stdout != "" && req.Stdout != nil {
		_, _ = io.WriteString(req.Stdout, resp.Stdout)
	}
	if resp.Stderr != "" && req.Stderr != nil {
		_, _ = io.WriteString(req.Stderr, resp.Stderr)
	}
	return resp.ExitCode, nil
}

// LookPath implements execcmd.Runner.
func (f *FakeRunner) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.installed[name] {
		return "/usr/local/bin/" + name, nil
	}
	return "", fmt.Errorf("%s: %w", name, exec.ErrNotFound)
}

// Calls returns a copy of the recorded calls.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Lines returns the recorded calls rendered as command lines.
func (f *FakeRunner) Lines() []string {
	calls := f.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.Line()
	}
	return lines
}

// Count returns how many recorded calls start with prefix.
func (f *FakeRunner) Count(prefix string) int {
	n := 0
	for _, line := range f.Lines() {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	return n
}
