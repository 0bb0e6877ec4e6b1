// Package instruction is the Engine's second, linear-instruction backend.
//
// It mirrors the Rust source's own half-finished register-style evaluator
// (original_source/src/execution_context.rs): a flat slice of Instructions,
// a register-like return-value/right-operand pair instead of an operand
// stack, and a Builder (expression_builder.rs in the Rust source) that
// does not walk the full Expression algebra: no ReturnTarget/Return, no
// captures, no dynamic dispatch. spec.md §9 explicitly documents this as
// "SHOULD be treated as an open alternative, not a requirement"; this
// package keeps that same deliberate gap rather than completing it.
package instruction

import "github.com/FenderLang/Fengine"

// Opcode identifies one linear-backend instruction.
type Opcode byte

const (
	// OpMove copies the value at one local slot to another.
	OpMove Opcode = iota
	// OpMoveToReturn copies a local slot's value into the return register.
	OpMoveToReturn
	// OpSetReturnRaw clones a constant directly into the return register.
	OpSetReturnRaw
	// OpMoveRightOperand copies a local slot's value into the right-operand
	// register, readying it for a binary operation.
	OpMoveRightOperand
	// OpSetRightOperandRaw clones a constant directly into the
	// right-operand register.
	OpSetRightOperandRaw
	// OpBinaryOperation applies a binary operator to the return register
	// and the right-operand register, leaving the result in the return
	// register.
	OpBinaryOperation
	// OpUnaryOperation applies a unary operator to the return register in
	// place.
	OpUnaryOperation
	// OpInvoke names a call to a compiled function. It is not executable in
	// this backend: Context.Run panics when it reaches one, and
	// Builder.Build never emits it (it panics on a function-call operand
	// instead); see the package doc.
	OpInvoke
)

// Instruction is one decoded linear-backend step.
type Instruction struct {
	Op        Opcode
	A, B      int
	Raw       fengine.Value
	BinaryOp  fengine.BinaryOperator
	UnaryOp   fengine.UnaryOperator
}
