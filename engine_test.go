package fengine_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	fengine "github.com/FenderLang/Fengine"
	"github.com/FenderLang/Fengine/examples/dynval"
)

func newTestEngine(numGlobals, entryPoint, stackSize int) *fengine.Engine {
	return fengine.NewEngine(dynval.TypeSystem{}, numGlobals, entryPoint, stackSize, nil)
}

// S1: Add constants. fn() { 2 + 3 }
func TestAddConstants(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(0, 0, 0)
	engine.RegisterFunction(
		[]fengine.Expression{
			fengine.BinaryOpEval{
				Op:    dynval.Add,
				Left:  fengine.RawValue{Value: dynval.NewInt(2)},
				Right: fengine.RawValue{Value: dynval.NewInt(3)},
			},
		},
		fengine.Fixed(0), 0, 0, fengine.StaticFunctionType{},
	)

	result, err := engine.Run()
	require.NoError(t, err)
	require.Equal(t, int64(5), result.(*dynval.Value).I)
}

// S2: Call with args. fn(a, b) { a + b } invoked via Call(ref, [4, 6]).
func TestCallWithArgs(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(0, 0, 0)
	ref := engine.RegisterFunction(
		[]fengine.Expression{
			fengine.BinaryOpEval{
				Op:    dynval.Add,
				Left:  fengine.Variable{Kind: fengine.Stack, Index: 0},
				Right: fengine.Variable{Kind: fengine.Stack, Index: 1},
			},
		},
		fengine.Fixed(2), 2, 0, fengine.StaticFunctionType{},
	)

	result, err := engine.Call(ref, []fengine.Value{dynval.NewInt(4), dynval.NewInt(6)})
	require.NoError(t, err)
	require.Equal(t, int64(10), result.(*dynval.Value).I)
}

// S3: Closure captures. FunctionCapture captures a DupeRef of the outer
// stack slot, so the closure returned from the outer call reads the value
// the slot held (1) after the outer function has returned.
func TestClosureCapturesSnapshotAtCaptureTime(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(0, 0, 0)
	inner := engine.RegisterFunction(
		[]fengine.Expression{
			fengine.Variable{Kind: fengine.Captured, Index: 0},
		},
		fengine.Fixed(0), 0, 0,
		fengine.CapturingDefType{Captures: []fengine.VariableRef{{Kind: fengine.Stack, Index: 0}}},
	)

	outer := engine.RegisterFunction(
		[]fengine.Expression{
			fengine.AssignStack{Index: 0, Value: fengine.RawValue{Value: dynval.NewInt(1)}},
			fengine.FunctionCapture{Target: inner},
		},
		fengine.Fixed(0), 1, 1, fengine.StaticFunctionType{},
	)

	closureVal, err := engine.Call(outer, nil)
	require.NoError(t, err)

	closureRef, ok := closureVal.(*dynval.Value).CastToFunction()
	require.True(t, ok)

	result, err := engine.Call(closureRef, nil)
	require.NoError(t, err)
	require.Equal(t, int64(1), result.(*dynval.Value).I)
}

// S4: Early return. A ReturnTarget that wraps a Return must yield the
// Return's payload, skipping anything sequenced after the Return within the
// same function body.
func TestEarlyReturn(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(0, 0, 0)
	engine.RegisterFunction(
		[]fengine.Expression{
			fengine.ReturnTarget{
				Target: 0,
				Body: fengine.Return{
					Target: 0,
					Body:   fengine.RawValue{Value: dynval.NewInt(42)},
				},
			},
		},
		fengine.Fixed(0), 0, 0, fengine.StaticFunctionType{},
	)

	result, err := engine.Run()
	require.NoError(t, err)
	require.Equal(t, int64(42), result.(*dynval.Value).I)
}

// A Return whose Target has no enclosing ReturnTarget must surface as an
// ordinary error from Run, not panic or hang.
func TestReturnWithoutMatchingTargetPropagates(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(0, 0, 0)
	engine.RegisterFunction(
		[]fengine.Expression{
			fengine.Return{Target: 7, Body: fengine.RawValue{Value: dynval.NewInt(1)}},
		},
		fengine.Fixed(0), 0, 0, fengine.StaticFunctionType{},
	)

	_, err := engine.Run()
	require.Error(t, err)
	var signal *fengine.ReturnSignal
	require.True(t, errors.As(err, &signal))
	require.Equal(t, 7, signal.Target)
}

// S5: Wrong arity. Calling a fixed-arity function with too few arguments
// fails fast with IncorrectArgumentCountError before any body expression
// evaluates.
func TestWrongArityFailsFast(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(0, 0, 0)
	ref := engine.RegisterFunction(
		[]fengine.Expression{
			fengine.NativeFunctionCall{
				Func: func(*fengine.Engine, []fengine.Value) (fengine.Value, error) {
					t.Fatal("body must not evaluate on an arity failure")
					return nil, nil
				},
			},
		},
		fengine.Fixed(2), 2, 0, fengine.StaticFunctionType{},
	)

	_, err := engine.Call(ref, []fengine.Value{dynval.NewInt(1)})
	require.Error(t, err)
	var argErr *fengine.IncorrectArgumentCountError
	require.True(t, errors.As(err, &argErr))
	require.Equal(t, 2, argErr.ExpectedMin)
	require.Equal(t, 1, argErr.Actual)
}

// S6: Dynamic dispatch fault. DynamicFunctionCall against a non-function
// Target fails with ErrInvalidInvocationTarget instead of panicking.
func TestDynamicDispatchOnNonFunctionFaults(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(0, 0, 0)
	engine.RegisterFunction(
		[]fengine.Expression{
			fengine.DynamicFunctionCall{
				Target: fengine.RawValue{Value: dynval.NewInt(1)},
			},
		},
		fengine.Fixed(0), 0, 0, fengine.StaticFunctionType{},
	)

	_, err := engine.Run()
	require.ErrorIs(t, err, fengine.ErrInvalidInvocationTarget)
}

// S7: Global aliasing. Variable{Global} yields a DupeRef, so two reads of
// the same global observe the same underlying cell: assigning through one
// handle is visible through the other.
func TestGlobalAliasing(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(1, 0, 0)
	engine.RegisterFunction(
		[]fengine.Expression{
			fengine.AssignGlobal{Index: 0, Value: fengine.RawValue{Value: dynval.NewInt(1)}},
			fengine.AssignDynamic{
				Target: fengine.Variable{Kind: fengine.Global, Index: 0},
				Value:  fengine.RawValue{Value: dynval.NewInt(9)},
			},
			fengine.Variable{Kind: fengine.Global, Index: 0},
		},
		fengine.Fixed(0), 0, 0, fengine.StaticFunctionType{},
	)

	result, err := engine.Run()
	require.NoError(t, err)
	require.Equal(t, int64(9), result.(*dynval.Value).I)
}

// Testable property 7: function ids are stable and never perturbed by
// later registrations.
func TestFunctionIDsAreStable(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(0, 0, 0)
	body := []fengine.Expression{fengine.RawValue{Value: dynval.NewInt(0)}}
	first := engine.RegisterFunction(body, fengine.Fixed(0), 0, 0, fengine.StaticFunctionType{})
	second := engine.RegisterFunction(body, fengine.Fixed(0), 0, 0, fengine.StaticFunctionType{})

	require.Equal(t, 0, first.Location)
	require.Equal(t, 1, second.Location)

	third := engine.RegisterFunction(body, fengine.Fixed(0), 0, 0, fengine.StaticFunctionType{})
	require.Equal(t, 0, first.Location)
	require.Equal(t, 2, third.Location)
}

// Variadic packaging: arguments beyond the fixed prefix are collected into
// one list value via ListConstructor.GenList, exactly once.
func TestVariadicPackaging(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(0, 0, 0)
	ref := engine.RegisterFunction(
		[]fengine.Expression{
			fengine.Variable{Kind: fengine.Stack, Index: 1},
		},
		fengine.Variadic(0, 1), 2, 0, fengine.StaticFunctionType{},
	)

	result, err := engine.Call(ref, []fengine.Value{dynval.NewInt(1), dynval.NewInt(2), dynval.NewInt(3)})
	require.NoError(t, err)
	packed := result.(*dynval.Value)
	require.Equal(t, dynval.List, packed.Kind)
	require.Len(t, packed.L, 2)
}

// A RunID is assigned fresh on every Run so an embedder can correlate
// logging/native side effects with a specific top-level invocation.
func TestRunIDAssignedPerRun(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(0, 0, 0)
	engine.RegisterFunction(
		[]fengine.Expression{fengine.RawValue{Value: dynval.NewInt(0)}},
		fengine.Fixed(0), 0, 0, fengine.StaticFunctionType{},
	)

	_, err := engine.Run()
	require.NoError(t, err)
	first := engine.RunID

	_, err = engine.Run()
	require.NoError(t, err)
	require.NotEqual(t, first, engine.RunID)
}
