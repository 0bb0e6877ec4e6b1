package instruction_test

import (
	"testing"

	"github.com/FenderLang/Fengine/examples/dynval"
	"github.com/FenderLang/Fengine/instruction"
)

func TestBuilderBinaryAddition(t *testing.T) {
	t.Parallel()

	b := (&instruction.Builder{}).
		SetLeft(instruction.RawOperand(dynval.NewInt(2))).
		SetRight(instruction.RawOperand(dynval.NewInt(3))).
		SetBinaryOperator(dynval.Add)

	ctx := instruction.NewContext(dynval.TypeSystem{}, b.Build(), 0)
	result := ctx.Run().(*dynval.Value)

	if result.Kind != dynval.Int || result.I != 5 {
		t.Errorf("Run() = %v, want Int(5)", result.Inspect())
	}
}

func TestBuilderUnaryNegation(t *testing.T) {
	t.Parallel()

	b := (&instruction.Builder{}).
		SetLeft(instruction.RawOperand(dynval.NewInt(7))).
		SetUnaryOperator(dynval.Neg)

	ctx := instruction.NewContext(dynval.TypeSystem{}, b.Build(), 0)
	result := ctx.Run().(*dynval.Value)

	if result.Kind != dynval.Int || result.I != -7 {
		t.Errorf("Run() = %v, want Int(-7)", result.Inspect())
	}
}

func TestBuilderPanicsOnCallOperand(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatal("Build() did not panic on a call operand")
		}
	}()

	b := (&instruction.Builder{}).SetLeft(instruction.CallOperand())
	b.Build()
}

func TestContextMoveReadsStackSlot(t *testing.T) {
	t.Parallel()

	instructions := []instruction.Instruction{
		{Op: instruction.OpMove, A: 0, B: 1},
		{Op: instruction.OpMoveToReturn, A: 1},
	}
	ctx := instruction.NewContext(dynval.TypeSystem{}, instructions, 2)
	ctx.Set(0, dynval.NewInt(9))
	ctx.Set(1, dynval.NewInt(0))

	result := ctx.Run().(*dynval.Value)
	if result.I != 9 {
		t.Errorf("Run() = %v, want Int(9)", result.Inspect())
	}
}
