package vm

import "strings"

// Table is one node of the variable namespace tree: a set of local
// variables plus named child namespaces, with a weak (lookup-only) link
// back to its parent. The tree has no single owner beyond the Instance
// that holds the current cursor; nodes never need to be freed
// individually, so a back-link is sufficient and there is no cyclic
// ownership to worry about (spec §9 "Cursor-based namespaces").
type Table struct {
	parent   *Table
	children map[string]*Table
	vars     map[string]Value
}

// NewTable returns a fresh, empty root table.
func NewTable() *Table {
	return &Table{}
}

// Parent returns t's parent, or nil at the root.
func (t *Table) Parent() *Table { return t.parent }

// enterChild returns the direct child named name, creating it if absent.
func (t *Table) enterChild(name string) *Table {
	if t.children == nil {
		t.children = make(map[string]*Table)
	}
	c, ok := t.children[name]
	if !ok {
		c = &Table{parent: t}
		t.children[name] = c
	}
	return c
}

// childExists reports whether t has a direct child namespace named name.
func (t *Table) childExists(name string) bool {
	if t.children == nil {
		return false
	}
	_, ok := t.children[name]
	return ok
}

// resolveWrite descends path (a "/"-joined list of namespace segments),
// creating any missing intermediate namespace, and returns the table that
// owns the final segment's variable name.
func resolveWrite(t *Table, path string) (*Table, string) {
	parts := strings.Split(path, "/")
	for _, seg := range parts[:len(parts)-1] {
		t = t.enterChild(seg)
	}
	return t, parts[len(parts)-1]
}

// resolveRead descends path like resolveWrite, but fails (ok=false) on the
// first missing intermediate namespace rather than creating it.
func resolveRead(t *Table, path string) (owner *Table, name string, ok bool) {
	parts := strings.Split(path, "/")
	for _, seg := range parts[:len(parts)-1] {
		if !t.childExists(seg) {
			return nil, "", false
		}
		t = t.enterChild(seg)
	}
	return t, parts[len(parts)-1], true
}

// Set assigns name's value, creating it (and any missing intermediate
// namespace in a dotted path) if absent.
func (t *Table) Set(name string, v Value) {
	owner, leaf := resolveWrite(t, name)
	if owner.vars == nil {
		owner.vars = make(map[string]Value)
	}
	owner.vars[leaf] = v
}

// Get returns name's value. ok is false if name (or an intermediate
// namespace in a dotted path) does not exist.
func (t *Table) Get(name string) (Value, bool) {
	owner, leaf, ok := resolveRead(t, name)
	if !ok {
		return Value{}, false
	}
	v, ok := owner.vars[leaf]
	return v, ok
}

// Exists reports whether name resolves to a value in t.
func (t *Table) Exists(name string) bool {
	_, ok := t.Get(name)
	return ok
}

// Del removes name from t. It is not an error for name to be absent.
func (t *Table) Del(name string) {
	owner, leaf, ok := resolveRead(t, name)
	if !ok || owner.vars == nil {
		return
	}
	delete(owner.vars, leaf)
}

// Enter moves the cursor into t's child namespace name, creating it if
// absent.
func (t *Table) Enter(name string) *Table {
	return t.enterChild(name)
}

// Reset clears t's own variables and child namespaces in place, turning it
// into a fresh empty namespace without disturbing its identity (its
// parent link, or any other cursor already positioned at it).
func (t *Table) Reset() {
	t.vars = nil
	t.children = nil
}
