package testsupport

import (
	"context"
	"fmt"
	"sync"
)

// Call is one recorded external command invocation.
type Call struct {
	Binary string
	Args   []string
}

// Op returns the operation name of the call: the datalad/git subcommand.
func (c Call) Op() string {
	for _, arg := range c.Args {
		switch arg {
		case "catalog-add", "catalog-set", "save", "rev-parse", "config":
			return arg
		}
	}
	if len(c.Args) > 0 {
		return c.Args[0]
	}
	return ""
}

// RecordingExecutor implements datalad.Executor, recording every invocation
// and answering from scripted outputs instead of running anything.
type RecordingExecutor struct {
	mu      sync.Mutex
	calls   []Call
	outputs map[string][]byte
	errs    map[string]error
}

// NewRecordingExecutor returns an executor that succeeds with empty output
// for every operation until scripted otherwise.
func NewRecordingExecutor() *RecordingExecutor {
	return &RecordingExecutor{
		outputs: map[string][]byte{},
		errs:    map[string]error{},
	}
}

// Respond scripts the stdout returned for an operation (e.g. "rev-parse").
func (e *RecordingExecutor) Respond(op string, stdout string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.outputs[op] = []byte(stdout)
}

// Fail scripts an error for an operation.
func (e *RecordingExecutor) Fail(op string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errs[op] = err
}

// Run records the call and returns the scripted response.
func (e *RecordingExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	call := Call{Binary: binary, Args: append([]string(nil), args...)}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, call)

	op := call.Op()
	if err := e.errs[op]; err != nil {
		return nil, fmt.Errorf("%s %s: %w", binary, op, err)
	}
	return e.outputs[op], nil
}

// Calls returns a copy of all recorded invocations.
func (e *RecordingExecutor) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Call(nil), e.calls...)
}

// CallsFor returns the recorded invocations of one operation.
func (e *RecordingExecutor) CallsFor(op string) []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []Call
	for _, call := range e.calls {
		if call.Op() == op {
			out = append(out, call)
		}
	}
	return out
}
