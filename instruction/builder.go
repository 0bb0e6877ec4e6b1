package instruction

import "github.com/FenderLang/Fengine"

// Operand is one operand of a Builder expression: a raw constant, a
// reference to a local slot, or a nested function-call operand.
type Operand struct {
	isRef  bool
	isRaw  bool
	index  int
	raw    fengine.Value
	isCall bool
}

// RefOperand builds an Operand referencing local slot index.
func RefOperand(index int) Operand { return Operand{isRef: true, index: index} }

// RawOperand builds an Operand holding a constant value.
func RawOperand(v fengine.Value) Operand { return Operand{isRaw: true, raw: v} }

// CallOperand marks an operand that would invoke a nested function call.
// This backend has no call-target table or argument marshalling to lower
// it against (see the package doc), so Builder.Build panics on it rather
// than silently mistreating it as a raw or ref operand.
func CallOperand() Operand { return Operand{isCall: true} }

// Builder assembles a short linear instruction sequence for one binary or
// unary expression: at most two operands and one operator. It mirrors
// expression_builder.rs's ExpressionBuilder, including that implementation's
// asymmetry: the right operand is lowered through MoveRightOperand /
// SetRightOperandRaw, while the left operand is lowered through
// MoveToReturn / SetReturnRaw, which is the textual root of spec.md §9's
// warning that the linear backend is incomplete. Builder does not attempt
// to lower StaticFunctionCall, ReturnTarget/Return, or captures; embedding
// a Builder-produced sequence inside a larger program is left to a future,
// complete front-end for this backend.
type Builder struct {
	binaryOp UnaryOrBinary
	left     *Operand
	right    *Operand
}

// UnaryOrBinary holds at most one of a BinaryOperator or a UnaryOperator.
type UnaryOrBinary struct {
	Binary fengine.BinaryOperator
	Unary  fengine.UnaryOperator
}

// SetLeft sets the builder's left (return-register) operand.
func (b *Builder) SetLeft(op Operand) *Builder { b.left = &op; return b }

// SetRight sets the builder's right (right-operand-register) operand.
func (b *Builder) SetRight(op Operand) *Builder { b.right = &op; return b }

// SetBinaryOperator sets a binary operator, clearing any unary operator.
func (b *Builder) SetBinaryOperator(op fengine.BinaryOperator) *Builder {
	b.binaryOp = UnaryOrBinary{Binary: op}
	return b
}

// SetUnaryOperator sets a unary operator, clearing any binary operator.
func (b *Builder) SetUnaryOperator(op fengine.UnaryOperator) *Builder {
	b.binaryOp = UnaryOrBinary{Unary: op}
	return b
}

// Build lowers the accumulated operands and operator into an Instruction
// sequence. Function-call operands are not supported; Build panics if one
// is supplied, since this backend has nowhere to route a call target.
func (b *Builder) Build() []Instruction {
	var out []Instruction

	if b.left != nil {
		if b.left.isCall {
			panic("fengine/instruction: Builder cannot lower a function-call operand (partial backend)")
		}
		if b.left.isRaw {
			out = append(out, Instruction{Op: OpSetReturnRaw, Raw: b.left.raw})
		} else {
			out = append(out, Instruction{Op: OpMoveToReturn, A: b.left.index})
		}
	}

	if b.right != nil {
		if b.right.isCall {
			panic("fengine/instruction: Builder cannot lower a function-call operand (partial backend)")
		}
		if b.right.isRaw {
			out = append(out, Instruction{Op: OpSetRightOperandRaw, Raw: b.right.raw})
		} else {
			out = append(out, Instruction{Op: OpMoveRightOperand, A: b.right.index})
		}
	}

	switch {
	case b.binaryOp.Binary != nil:
		out = append(out, Instruction{Op: OpBinaryOperation, BinaryOp: b.binaryOp.Binary})
	case b.binaryOp.Unary != nil:
		out = append(out, Instruction{Op: OpUnaryOperation, UnaryOp: b.binaryOp.Unary})
	}

	return out
}
