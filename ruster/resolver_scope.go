package ruster

// localBinding is what the resolver knows about a let or parameter.
type localBinding struct {
	name    string
	ty      staticType
	mutable bool
	param   bool
	// shared is set for bindings of a `&` borrow; their elements are
	// read-only even when the binding itself is `mut`.
	shared bool
	pos    Position
}

type scope struct {
	parent   *scope
	bindings map[string]*localBinding
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, bindings: make(map[string]*localBinding)}
}

func (s *scope) lookup(name string) (*localBinding, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.bindings[name]; ok {
			return b, true
		}
	}
	return nil, false
}

func (r *resolver) pushScope() {
	r.scope = newScope(r.scope)
}

func (r *resolver) popScope() {
	if r.scope != nil {
		r.scope = r.scope.parent
	}
}

// declare adds a binding to the innermost scope. Shadowing is legal but
// reported as a warning.
func (r *resolver) declare(b *localBinding) {
	if _, ok := r.scope.bindings[b.name]; ok {
		r.warn(b.pos, "`%s` shadows an earlier binding in the same scope", b.name)
	} else if _, ok := r.scope.lookup(b.name); ok {
		r.warn(b.pos, "`%s` shadows a binding from an enclosing scope", b.name)
	} else if _, ok := r.functions[b.name]; ok {
		r.warn(b.pos, "`%s` shadows the function of the same name", b.name)
	}
	r.scope.bindings[b.name] = b
}
