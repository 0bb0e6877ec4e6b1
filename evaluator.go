package fengine

import "errors"

// Evaluate recursively walks expr against the given frame (stack slots) and
// captured slice, using engine for global/function-table/call access.
// Argument evaluation is strictly left-to-right; assignments take effect
// eagerly; a failure aborts the remainder of the current expression and
// propagates to the caller.
func Evaluate(expr Expression, engine *Engine, frame, captured []Value) (Value, error) {
	switch e := expr.(type) {
	case RawValue:
		return e.Value.Clone(), nil

	case Variable:
		switch e.Kind {
		case Captured:
			return captured[e.Index].DupeRef(), nil
		case Stack:
			return frame[e.Index].DupeRef(), nil
		case Global:
			return engine.dupeGlobalRef(e.Index), nil
		}
		return nil, errors.New("fengine: unknown variable kind")

	case BinaryOpEval:
		l, err := Evaluate(e.Left, engine, frame, captured)
		if err != nil {
			return nil, err
		}
		r, err := Evaluate(e.Right, engine, frame, captured)
		if err != nil {
			return nil, err
		}
		return e.Op.Apply2(l, r), nil

	case UnaryOpEval:
		v, err := Evaluate(e.Operand, engine, frame, captured)
		if err != nil {
			return nil, err
		}
		return e.Op.Apply1(v), nil

	case StaticFunctionCall:
		args, err := evaluateArgsIntoRef(e.Args, engine, frame, captured)
		if err != nil {
			return nil, err
		}
		return engine.Call(e.Target, args)

	case DynamicFunctionCall:
		target, err := Evaluate(e.Target, engine, frame, captured)
		if err != nil {
			return nil, err
		}
		ref, ok := target.CastToFunction()
		if !ok {
			return nil, ErrInvalidInvocationTarget
		}
		args, err := evaluateArgsIntoRef(e.Args, engine, frame, captured)
		if err != nil {
			return nil, err
		}
		return engine.Call(ref, args)

	case FunctionCapture:
		def, ok := e.Target.Type.(CapturingDefType)
		if !ok {
			return nil, ErrInvalidInvocationTarget
		}
		captures := make([]Value, len(def.Captures))
		for i, ref := range def.Captures {
			switch ref.Kind {
			case Captured:
				captures[i] = captured[ref.Index].DupeRef()
			case Stack:
				captures[i] = frame[ref.Index].DupeRef()
			case Global:
				captures[i] = engine.dupeGlobalRef(ref.Index)
			}
		}
		realized := e.Target
		realized.Type = CapturingRefType{Captures: captures}
		return engine.types.FuncValue(realized), nil

	case AssignStack:
		val, err := Evaluate(e.Value, engine, frame, captured)
		if err != nil {
			return nil, err
		}
		frame[e.Index].Assign(val)
		return engine.types.DefaultValue(), nil

	case AssignGlobal:
		val, err := Evaluate(e.Value, engine, frame, captured)
		if err != nil {
			return nil, err
		}
		engine.assignGlobal(e.Index, val)
		return engine.types.DefaultValue(), nil

	case AssignDynamic:
		target, err := Evaluate(e.Target, engine, frame, captured)
		if err != nil {
			return nil, err
		}
		target = target.DupeRef()
		val, err := Evaluate(e.Value, engine, frame, captured)
		if err != nil {
			return nil, err
		}
		target.Assign(val)
		return engine.types.DefaultValue(), nil

	case NativeFunctionCall:
		args := make([]Value, 0, len(e.Args))
		for _, a := range e.Args {
			v, err := Evaluate(a, engine, frame, captured)
			if err != nil {
				return nil, err
			}
			args = append(args, v.Clone())
		}
		return e.Func(engine, args)

	case Initialize:
		args := make([]Value, 0, len(e.Args))
		for _, a := range e.Args {
			v, err := Evaluate(a, engine, frame, captured)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		}
		return e.Init.Initialize(args)

	case ReturnTarget:
		val, err := Evaluate(e.Body, engine, frame, captured)
		if err == nil {
			return val, nil
		}
		var rs *ReturnSignal
		if errors.As(err, &rs) && rs.Target == e.Target {
			return engine.returnValue, nil
		}
		return nil, err

	case Return:
		val, err := Evaluate(e.Body, engine, frame, captured)
		if err != nil {
			return nil, err
		}
		engine.returnValue = val
		return nil, &ReturnSignal{Target: e.Target}
	}
	return nil, errors.New("fengine: unknown expression arm")
}

// evaluateArgsIntoRef evaluates each argument expression, then converts it
// to reference-shaped form via IntoRef before pushing it into the callee's
// frame. This is what lets an AssignStack inside the callee, over an arg
// slot, be observable through the reference the caller passed, if and
// only if the original argument expression was itself reference-shaped.
func evaluateArgsIntoRef(args []Expression, engine *Engine, frame, captured []Value) ([]Value, error) {
	out := make([]Value, 0, len(args))
	for _, a := range args {
		v, err := Evaluate(a, engine, frame, captured)
		if err != nil {
			return nil, err
		}
		out = append(out, v.IntoRef())
	}
	return out, nil
}
