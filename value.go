package fengine

// Value is the embedder's value domain. The Engine never inspects a Value's
// payload; it only relies on this contract to move values between stack
// slots, captures, and globals while preserving (or deliberately breaking)
// reference sharing.
//
// Implementations are expected to be reference-shaped (typically a pointer
// to a mutable struct) so that DupeRef/Assign can realize true aliasing
// without the Engine itself needing a garbage collector or an arena.
type Value interface {
	// Clone produces an independent copy. Mutating the clone through Assign
	// must never be observable through the original.
	Clone() Value

	// DupeRef produces a handle that shares the underlying cell with the
	// value it was duped from: Assign through either handle is visible
	// through the other.
	DupeRef() Value

	// Assign mutates the cell this value points to in place.
	Assign(other Value)

	// IntoRef converts a freshly evaluated value into a reference-shaped
	// form suitable for binding into an argument slot. For Value
	// implementations that are already uniformly reference-shaped (see
	// examples/dynval), this is the identity function; implementations
	// that distinguish boxed and unboxed payloads box here on demand.
	IntoRef() Value

	// CastToFunction downcasts to a FunctionRef, when this value holds one.
	CastToFunction() (FunctionRef, bool)
}

// BinaryOperator applies a pure binary operation, yielding a fresh Value.
type BinaryOperator interface {
	Apply2(l, r Value) Value
}

// UnaryOperator applies a pure unary operation, yielding a fresh Value.
type UnaryOperator interface {
	Apply1(v Value) Value
}

// Initializer constructs an aggregate value from already-evaluated
// arguments (the Initialize expression arm).
type Initializer interface {
	Initialize(args []Value) (Value, error)
}

// ListConstructor is an optional TypeSystem capability. It is required only
// when an Engine registers a FunctionRef with a Variadic ArgCount; the
// variadic-packaging call-protocol step uses it to collect the trailing
// arguments into a single list value. Implementations that never declare
// variadic functions may omit it.
type ListConstructor interface {
	GenList(items []Value) Value
}

// TypeSystem is the embedder's parameterization of the Engine: how to
// produce a default-uninitialized value, and (optionally, see
// ListConstructor) how to package variadic tail arguments.
type TypeSystem interface {
	// DefaultValue returns a canonical "no value" state, safe to pre-populate
	// stack slots and globals with and safe to Assign over. Every call must
	// return an independently-addressable value: two default values must
	// never alias each other.
	DefaultValue() Value

	// FuncValue coerces a FunctionRef back into the value domain. It is
	// used at the FunctionCapture expression's closure-creation point,
	// where a CapturingDefType template has just been realized into a
	// CapturingRefType instance and needs to be carried onward as an
	// ordinary Value.
	FuncValue(ref FunctionRef) Value
}

// NativeFunction is a host function invoked by a NativeFunctionCall
// expression. It receives the Engine (for global context access and for
// registering further functions) and the already-evaluated, detached
// argument values.
type NativeFunction func(engine *Engine, args []Value) (Value, error)
