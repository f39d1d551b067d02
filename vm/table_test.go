package vm

import "testing"

func TestTableSetGet(t *testing.T) {
	tbl := NewTable()
	tbl.Set("x", Int(5))
	v, ok := tbl.Get("x")
	if !ok || v.Int != 5 {
		t.Fatalf("got %+v, %v", v, ok)
	}
}

func TestTableGetMissing(t *testing.T) {
	tbl := NewTable()
	if _, ok := tbl.Get("missing"); ok {
		t.Error("expected miss")
	}
}

func TestTableDel(t *testing.T) {
	tbl := NewTable()
	tbl.Set("x", Int(1))
	tbl.Del("x")
	if tbl.Exists("x") {
		t.Error("expected x to be gone")
	}
	// deleting an absent variable is not an error
	tbl.Del("x")
}

func TestTableEnterExit(t *testing.T) {
	root := NewTable()
	child := root.Enter("items")
	child.Set("len", Int(2))
	if root.Parent() != nil {
		t.Error("root should have no parent")
	}
	if child.Parent() != root {
		t.Error("child's parent should be root")
	}
	// entering the same name twice returns the same namespace
	again := root.Enter("items")
	if again != child {
		t.Error("Enter should be idempotent for an existing namespace")
	}
}

func TestTableDottedPathSet(t *testing.T) {
	root := NewTable()
	root.Set("items/0", Str("apple"))
	sub := root.Enter("items")
	v, ok := sub.Get("0")
	if !ok || v.Str != "apple" {
		t.Fatalf("got %+v, %v", v, ok)
	}
	// and it should resolve back through the dotted path too
	v2, ok := root.Get("items/0")
	if !ok || v2.Str != "apple" {
		t.Fatalf("got %+v, %v", v2, ok)
	}
}

func TestTableDottedPathReadMissingNamespace(t *testing.T) {
	root := NewTable()
	if _, ok := root.Get("nope/0"); ok {
		t.Error("expected miss: namespace nope was never created")
	}
}

func TestTableExistsIsolatedPerNamespace(t *testing.T) {
	root := NewTable()
	child := root.Enter("ns")
	child.Set("x", Int(1))
	if root.Exists("x") {
		t.Error("root should not see a child namespace's variable directly")
	}
}
