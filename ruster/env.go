package ruster

// Env is one lexical scope of a running function. Names map to slots in
// the execution's arena; a scope owns every slot at or above its mark and
// releases them when it closes.
type Env struct {
	parent *Env
	slots  map[string]int
	mark   int
}

func (e *Env) lookup(name string) (int, bool) {
	for scope := e; scope != nil; scope = scope.parent {
		if slot, ok := scope.slots[name]; ok {
			return slot, true
		}
	}
	return 0, false
}

// binding is one arena slot.
type binding struct {
	value Value
	id    uint64
	name  string
}

// arena holds every live binding of an execution. Slots are addressed by
// index so that `&mut x` and mem::swap work on slot identity.
type arena struct {
	slots  []binding
	nextID uint64
}

func (a *arena) openScope(parent *Env) *Env {
	return &Env{parent: parent, slots: make(map[string]int, 4), mark: len(a.slots)}
}

func (a *arena) closeScope(env *Env) {
	if env.mark < len(a.slots) {
		clear(a.slots[env.mark:])
		a.slots = a.slots[:env.mark]
	}
}

func (a *arena) define(env *Env, name string, val Value) int {
	a.nextID++
	a.slots = append(a.slots, binding{value: val, id: a.nextID, name: name})
	slot := len(a.slots) - 1
	env.slots[name] = slot
	return slot
}

func (a *arena) refTo(slot int) Ref {
	b := a.slots[slot]
	return Ref{slot: slot, id: b.id, name: b.name}
}

// live reports whether r still names the binding it was taken from.
func (a *arena) live(r Ref) bool {
	return r.slot >= 0 && r.slot < len(a.slots) && a.slots[r.slot].id == r.id
}
