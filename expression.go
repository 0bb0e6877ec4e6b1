package fengine

// Expression is the tagged variant evaluated by the tree-walking
// interpreter. It is immutable once built; the front-end that produces
// Expression trees is outside this module's scope (spec.md §1).
type Expression interface {
	isExpression()
}

// RawValue yields v.Clone(), a fresh, independent copy of a build-time
// constant. Cloning (rather than duping) matters here: the same RawValue
// node is re-evaluated every time its enclosing expression runs, so a
// caller that assigns into the result must never corrupt the constant
// embedded in the tree.
type RawValue struct {
	Value Value
}

func (RawValue) isExpression() {}

// Variable yields a DupeRef of the addressed slot, so that a later
// AssignDynamic through the returned handle is observable through the slot
// itself.
type Variable struct {
	Kind  VariableKind
	Index int
}

func (Variable) isExpression() {}

// BinaryOpEval evaluates Left then Right, then applies Op.
type BinaryOpEval struct {
	Op          BinaryOperator
	Left, Right Expression
}

func (BinaryOpEval) isExpression() {}

// UnaryOpEval evaluates Operand, then applies Op.
type UnaryOpEval struct {
	Op      UnaryOperator
	Operand Expression
}

func (UnaryOpEval) isExpression() {}

// StaticFunctionCall invokes a FunctionRef known at build time.
type StaticFunctionCall struct {
	Target FunctionRef
	Args   []Expression
}

func (StaticFunctionCall) isExpression() {}

// DynamicFunctionCall evaluates Target, casts it to a FunctionRef, and
// invokes it. Target must evaluate to a Value whose CastToFunction
// succeeds, or the call fails with ErrInvalidInvocationTarget.
type DynamicFunctionCall struct {
	Target Expression
	Args   []Expression
}

func (DynamicFunctionCall) isExpression() {}

// FunctionCapture snapshots an enclosing function's CapturingDefType
// template into a realized CapturingRefType instance; the closure
// creation point. Target.Type must be a CapturingDefType.
type FunctionCapture struct {
	Target FunctionRef
}

func (FunctionCapture) isExpression() {}

// AssignStack evaluates Value and assigns it into the current frame's
// stack slot Index.
type AssignStack struct {
	Index int
	Value Expression
}

func (AssignStack) isExpression() {}

// AssignGlobal evaluates Value and assigns it into the Engine's global
// slot Index.
type AssignGlobal struct {
	Index int
	Value Expression
}

func (AssignGlobal) isExpression() {}

// AssignDynamic evaluates Target, DupeRefs it, evaluates Value, then
// assigns Value into the duped target. This is how first-class references
// become assignable at runtime.
type AssignDynamic struct {
	Target Expression
	Value  Expression
}

func (AssignDynamic) isExpression() {}

// NativeFunctionCall evaluates its arguments (by Clone, not IntoRef: the
// host receives detached values) and invokes Func.
type NativeFunctionCall struct {
	Func NativeFunction
	Args []Expression
}

func (NativeFunctionCall) isExpression() {}

// Initialize evaluates its arguments, then calls Init.Initialize to build
// an aggregate value.
type Initialize struct {
	Init Initializer
	Args []Expression
}

func (Initialize) isExpression() {}

// ReturnTarget establishes an unwind catch-point identified by Target. If
// Body completes normally, its value is returned. If Body fails with a
// ReturnSignal whose Target matches, the signal is intercepted and the
// evaluator returns the matching Return's payload. Any other error,
// including a ReturnSignal for a different target, propagates unchanged.
type ReturnTarget struct {
	Target int
	Body   Expression
}

func (ReturnTarget) isExpression() {}

// Return evaluates Body, stores its value as the pending return payload,
// and fails with a ReturnSignal aimed at Target. Evaluation of any sibling
// expressions is skipped; the signal unwinds until a matching ReturnTarget
// (or the entry function boundary) is reached.
type Return struct {
	Target int
	Body   Expression
}

func (Return) isExpression() {}
