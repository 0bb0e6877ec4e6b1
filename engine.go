package fengine

import (
	"sync"

	"github.com/google/uuid"
)

// Engine holds an embedder's compiled program: its global slots, function
// table, entry point, and the embedder's global context, and orchestrates
// Run, Call, and global allocation. It has no wire protocol, no file
// format, and no CLI: it is a library (spec.md §6).
//
// An Engine is not thread-safe; concurrent use across goroutines requires
// external partitioning, one Engine per goroutine (spec.md §5).
type Engine struct {
	mu         sync.RWMutex
	globals    []Value
	numGlobals int
	functions  FunctionTable
	entryPoint int
	stackSize  int
	types      TypeSystem

	// returnValue is scratch storage for the payload a Return expression
	// deposits; the matching ReturnTarget reads it back out. Because
	// evaluation is single-threaded and strictly nested, by the time any
	// code downstream of a ReturnTarget resumes, the Return/ReturnTarget
	// pair that used this field has already consumed it; see spec.md §4.3.
	returnValue Value

	// Context is the embedder-defined global context, passed through to
	// every NativeFunction call.
	Context any

	// RunID identifies one Run invocation, for correlating log lines and
	// native-function side effects (e.g. a request id threaded into a
	// gRPC call) back to the Run that produced them. It is reassigned on
	// every Run, not on Call, since Call may re-enter the same Run.
	RunID uuid.UUID
}

// NewEngine constructs an Engine. numGlobals is the high-water mark used to
// prime the global slots on every Run; entryPoint names the function Run
// invokes; stackSize is the stack slot count allocated for the entry
// invocation. The function table starts empty and is filled through
// RegisterFunction.
func NewEngine(types TypeSystem, numGlobals int, entryPoint, stackSize int, context any) *Engine {
	return &Engine{
		types:      types,
		numGlobals: numGlobals,
		entryPoint: entryPoint,
		stackSize:  stackSize,
		Context:    context,
	}
}

// TypeSystem returns the embedder's type system.
func (e *Engine) TypeSystem() TypeSystem { return e.types }

// RegisterFunction finalizes a function body and appends it to the
// function table, returning a handle. Function ids are assigned in
// registration order and are stable: later registrations never perturb
// earlier handles (testable property 7).
func (e *Engine) RegisterFunction(body []Expression, argCount ArgCount, stackSize, variableCount int, fnType FunctionType) FunctionRef {
	fn := &Function{
		Expressions: body,
		StackSize:   stackSize,
		ArgCount:    argCount,
	}
	id := e.functions.Register(fn)
	return FunctionRef{
		Location:      id,
		ArgCount:      argCount,
		StackSize:     stackSize,
		VariableCount: variableCount,
		Type:          fnType,
	}
}

// CreateGlobal appends a default-uninitialized global slot and returns its
// address. It may be called before Run (to reserve globals at build time)
// or, since the function table and global vector are append-only, while a
// native function is executing.
func (e *Engine) CreateGlobal() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	addr := e.numGlobals
	e.numGlobals++
	if e.globals != nil {
		e.globals = append(e.globals, e.types.DefaultValue())
	}
	return addr
}

// Run re-initializes the global vector to numGlobals default-uninitialized
// slots, allocates a fresh entry stack, and calls the entry function with
// no arguments.
func (e *Engine) Run() (Value, error) {
	e.mu.Lock()
	e.RunID = uuid.New()
	globals := make([]Value, e.numGlobals)
	for i := range globals {
		globals[i] = e.types.DefaultValue()
	}
	e.globals = globals
	e.mu.Unlock()

	entry := e.functions.Get(e.entryPoint)
	frame := make([]Value, e.stackSize)
	for i := range frame {
		frame[i] = e.types.DefaultValue()
	}
	return e.invoke(entry, frame, nil)
}

// Call implements the call protocol: arity validation, argument padding,
// optional variadic packaging, local-slot padding, capture selection, and
// dispatch to the target function's body.
func (e *Engine) Call(ref FunctionRef, args []Value) (Value, error) {
	if !ref.ArgCount.Valid(len(args)) {
		return nil, &IncorrectArgumentCountError{
			ExpectedMin: ref.ArgCount.Min(),
			ExpectedMax: ref.ArgCount.MaxCapped(),
			Actual:      len(args),
		}
	}

	maxFixed := ref.ArgCount.MaxCapped()
	for len(args) < maxFixed {
		args = append(args, e.types.DefaultValue())
	}

	if ref.ArgCount.Kind() == ArgCountVariadic {
		lister, ok := e.types.(ListConstructor)
		if !ok {
			return nil, ErrVariadicUnsupported
		}
		tail := append([]Value(nil), args[maxFixed:]...)
		args = append(args[:maxFixed:maxFixed], lister.GenList(tail))
	}

	for i := 0; i < ref.VariableCount; i++ {
		args = append(args, e.types.DefaultValue())
	}

	var captures []Value
	if cr, ok := ref.Type.(CapturingRefType); ok {
		captures = cr.Captures
	}

	fn := e.functions.Get(ref.Location)
	return e.invoke(fn, args, captures)
}

// invoke runs fn's body against the prepared frame and capture slice. An
// empty body returns a default-uninitialized value; all but the last
// expression are evaluated for effect only.
func (e *Engine) invoke(fn *Function, frame, captured []Value) (Value, error) {
	if len(fn.Expressions) == 0 {
		return e.types.DefaultValue(), nil
	}
	for _, expr := range fn.Expressions[:len(fn.Expressions)-1] {
		if _, err := Evaluate(expr, e, frame, captured); err != nil {
			return nil, err
		}
	}
	return Evaluate(fn.Expressions[len(fn.Expressions)-1], e, frame, captured)
}

// global reads the global slot at addr.
func (e *Engine) global(addr int) Value {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.globals[addr]
}

// assignGlobal assigns val into the global slot at addr.
func (e *Engine) assignGlobal(addr int, val Value) {
	e.mu.RLock()
	slot := e.globals[addr]
	e.mu.RUnlock()
	slot.Assign(val)
}

// dupeGlobalRef returns a DupeRef of the global slot at addr.
func (e *Engine) dupeGlobalRef(addr int) Value {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.globals[addr].DupeRef()
}
