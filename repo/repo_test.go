package repo

import (
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/Omnikar/undag/dag"
)

var sig = &object.Signature{Name: "test", Email: "test@example.com", When: time.Unix(0, 0)}

func dagCommit(h plumbing.Hash) dag.Commit { return dag.Commit(h.String()) }

// commitLine creates one commit with the given message on the worktree's
// current HEAD, returning its hash. go-git allows an empty tree diff, which
// is all a test fixture needs here since UnDAG commits carry no file
// content, only messages.
func commitLine(t *testing.T, wt *git.Worktree, msg string) plumbing.Hash {
	t.Helper()
	h, err := wt.Commit(msg, &git.CommitOptions{
		Author:            sig,
		AllowEmptyCommits: true,
	})
	if err != nil {
		t.Fatalf("commit %q: %v", msg, err)
	}
	return h
}

func tagAt(t *testing.T, r *git.Repository, name string, h plumbing.Hash) {
	t.Helper()
	if _, err := r.CreateTag(name, h, nil); err != nil {
		t.Fatalf("tag %q: %v", name, err)
	}
}

func TestSnapshotStraightLine(t *testing.T) {
	r, err := git.PlainInit(t.TempDir(), false)
	if err != nil {
		t.Fatal(err)
	}
	wt, err := r.Worktree()
	if err != nil {
		t.Fatal(err)
	}

	c0 := commitLine(t, wt, `println "hi"`)
	c1 := commitLine(t, wt, ``)
	tagAt(t, r, "_start", c0)
	tagAt(t, r, "_end", c1)

	repo := &Repository{repo: r}
	g, err := repo.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if g.Start() != dagCommit(c0) || g.End() != dagCommit(c1) {
		t.Fatal("start/end tags resolved incorrectly")
	}
	msg, ok := g.Message(dagCommit(c0))
	if !ok || msg != `println "hi"` {
		t.Fatalf("got %q, %v", msg, ok)
	}
	children := g.Children(dagCommit(c0))
	if len(children) != 1 || children[0] != dagCommit(c1) {
		t.Fatalf("unexpected children %v", children)
	}
}

func TestSnapshotGraftCycle(t *testing.T) {
	r, err := git.PlainInit(t.TempDir(), false)
	if err != nil {
		t.Fatal(err)
	}
	wt, err := r.Worktree()
	if err != nil {
		t.Fatal(err)
	}

	c0 := commitLine(t, wt, `set i #0`)
	c1 := commitLine(t, wt, `println $i`)
	c2 := commitLine(t, wt, `branch "loop"`)
	tagAt(t, r, "_start", c0)
	tagAt(t, r, "_end", c2)
	tagAt(t, r, "loop", c1)

	// graft c1 so it additionally parents onto c2, closing a cycle
	// c1 -> c2 -> c1: git replace --graft <c1> <c0> <c2>. The replacement
	// commit keeps c1's message/tree but swaps its parent list.
	orig, err := r.CommitObject(c1)
	if err != nil {
		t.Fatal(err)
	}
	grafted := *orig
	grafted.ParentHashes = []plumbing.Hash{c0, c2}
	obj := r.Storer.NewEncodedObject()
	obj.SetType(plumbing.CommitObject)
	if err := grafted.Encode(obj); err != nil {
		t.Fatal(err)
	}
	newHash, err := r.Storer.SetEncodedObject(obj)
	if err != nil {
		t.Fatal(err)
	}
	ref := plumbing.NewHashReference(plumbing.ReferenceName("refs/replace/"+c1.String()), newHash)
	if err := r.Storer.SetReference(ref); err != nil {
		t.Fatal(err)
	}

	repo := &Repository{repo: r}
	g, err := repo.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	parents := g.Parents(dagCommit(c1))
	if len(parents) != 2 || parents[0] != dagCommit(c0) || parents[1] != dagCommit(c2) {
		t.Fatalf("graft not applied, got parents %v", parents)
	}
}

func TestOpenMissingRepo(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Error("expected error opening a non-repository directory")
	}
}
