package ruster

import "io"

func (exec *Execution) pushFrame(function string, pos Position) error {
	if exec.recursionCap > 0 && len(exec.callStack) >= exec.recursionCap {
		return exec.runtimeErrorAt(pos, ErrStackOverflow, "stack overflow: recursion depth exceeded (limit %d)", exec.recursionCap)
	}
	exec.callStack = append(exec.callStack, callFrame{Function: function, Pos: pos})
	return nil
}

func (exec *Execution) popFrame() {
	if len(exec.callStack) == 0 {
		return
	}
	exec.callStack = exec.callStack[:len(exec.callStack)-1]
}

// deref reads through a `&mut` reference. Any other value is returned
// unchanged.
func (exec *Execution) deref(pos Position, val Value) (Value, error) {
	for val.Kind() == KindRef {
		r := val.ref()
		if !exec.arena.live(r) {
			return NewUnit(), exec.runtimeErrorAt(pos, nil, "reference to `%s` outlived its binding", r.name)
		}
		val = exec.arena.slots[r.slot].value
	}
	return val, nil
}

// ownArray gives a binding its own copy of an array value read from
// expr. Literals are already fresh and `&` borrows share storage, so
// neither is copied.
func (exec *Execution) ownArray(expr Expression, val Value) (Value, error) {
	switch expr.(type) {
	case *ArrayLiteral, *ArrayRepeat, *BorrowExpr:
		return val, nil
	}
	return exec.copyArray(expr.Pos(), val)
}

// copyArray duplicates the backing of val and of every nested array.
func (exec *Execution) copyArray(pos Position, val Value) (Value, error) {
	if val.Kind() != KindSlice {
		return val, nil
	}
	s := val.Slice()
	if err := exec.reserve(pos, s.Len()); err != nil {
		return NewUnit(), err
	}
	elems := s.Elements()
	for i, el := range elems {
		c, err := exec.copyArray(pos, el)
		if err != nil {
			return NewUnit(), err
		}
		elems[i] = c
	}
	return Value{kind: KindSlice, data: Slice{backing: &elems, length: len(elems), elem: s.elem}}, nil
}

// store writes val into the binding r refers to.
func (exec *Execution) store(pos Position, r Ref, val Value) error {
	if !exec.arena.live(r) {
		return exec.runtimeErrorAt(pos, nil, "reference to `%s` outlived its binding", r.name)
	}
	exec.arena.slots[r.slot].value = val
	return nil
}

func (exec *Execution) evalMutableBorrow(e *BorrowExpr, env *Env) (Value, error) {
	id, ok := e.Value.(*Identifier)
	if !ok {
		return NewUnit(), exec.typeErrorAt(e.Pos(), "`&mut` can only borrow a named binding")
	}
	slot, ok := env.lookup(id.Name)
	if !ok {
		return NewUnit(), exec.runtimeErrorAt(id.Pos(), nil, "unbound identifier `%s`", id.Name)
	}
	if current := exec.arena.slots[slot].value; current.Kind() == KindRef {
		return current, nil
	}
	return newRef(exec.arena.refTo(slot)), nil
}

// writeLine appends text and a newline to the output sink in one write so
// concurrent sinks see whole lines in call order.
func (exec *Execution) writeLine(pos Position, text string) error {
	if exec.output == nil {
		return nil
	}
	if _, err := io.WriteString(exec.output, text+"\n"); err != nil {
		return exec.runtimeErrorAt(pos, err, "write output: %v", err)
	}
	return nil
}
