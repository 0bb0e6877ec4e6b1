package instruction

import "github.com/FenderLang/Fengine"

// Context is the linear backend's execution state: an operand stack, a
// flat instruction list, an instruction pointer, a frame-base stack, and
// the register-style return-value/right-operand pair the Rust source uses
// in place of a second operand-stack slot.
type Context struct {
	stack        []fengine.Value
	instructions []Instruction
	ip           int
	frames       []int
	frame        int
	returnValue  fengine.Value
	rightOperand fengine.Value
	types        fengine.TypeSystem
}

// NewContext allocates a Context with stackSize operand slots, each
// initialized to the type system's default value.
func NewContext(types fengine.TypeSystem, instructions []Instruction, stackSize int) *Context {
	stack := make([]fengine.Value, stackSize)
	for i := range stack {
		stack[i] = types.DefaultValue()
	}
	return &Context{stack: stack, instructions: instructions, types: types}
}

func (c *Context) get(offset int) fengine.Value    { return c.stack[c.frame+offset] }
func (c *Context) set(offset int, v fengine.Value) { c.stack[c.frame+offset] = v }

// Get reads operand slot offset in the current frame, for an embedder
// seeding or inspecting state around a Run.
func (c *Context) Get(offset int) fengine.Value { return c.get(offset) }

// Set writes operand slot offset in the current frame.
func (c *Context) Set(offset int, v fengine.Value) { c.set(offset, v) }

// step executes the instruction at index. It does not advance c.ip; Run
// does that.
func (c *Context) step(index int) {
	instr := c.instructions[index]
	switch instr.Op {
	case OpMove:
		c.set(instr.B, c.get(instr.A).Clone())
	case OpMoveToReturn:
		c.returnValue = c.get(instr.A).Clone()
	case OpSetReturnRaw:
		c.returnValue = instr.Raw.Clone()
	case OpMoveRightOperand:
		c.rightOperand = c.get(instr.A).Clone()
	case OpSetRightOperandRaw:
		c.rightOperand = instr.Raw.Clone()
	case OpBinaryOperation:
		c.returnValue = instr.BinaryOp.Apply2(c.returnValue, c.rightOperand)
	case OpUnaryOperation:
		c.returnValue = instr.UnaryOp.Apply1(c.returnValue)
	case OpInvoke:
		// Deliberately unimplemented: the Builder in this package never
		// emits OpInvoke with enough surrounding context (no call-target
		// table, no argument marshalling) to make this safe to execute.
		// See the package doc; this backend is an open alternative, not
		// a complete evaluator.
		panic("fengine/instruction: OpInvoke is not implemented in this partial backend")
	}
}

// Run executes every instruction in order and returns the final return
// register value.
func (c *Context) Run() fengine.Value {
	for c.ip < len(c.instructions) {
		c.step(c.ip)
		c.ip++
	}
	return c.returnValue
}
