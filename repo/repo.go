// Package repo adapts an on-disk Git repository into the dag.Graph
// snapshot package vm executes against. It is the concrete realization of
// the "repository reader" spec.md leaves as an external collaborator: the
// commit history is the program; this package is what reads it.
package repo

import (
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pkg/errors"

	"github.com/Omnikar/undag/dag"
)

// Repository wraps an opened Git repository.
type Repository struct {
	repo *git.Repository
}

// Open opens the repository at path, which must already exist on disk.
// UnDAG programs are read, never written, so no init/clone path is
// offered here.
func Open(path string) (*Repository, error) {
	r, err := git.PlainOpen(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open repository at %q", path)
	}
	return &Repository{repo: r}, nil
}

// Snapshot walks every commit reachable from any tag in the repository and
// builds the dag.Graph the evaluator steps across. Commit messages are
// truncated to their first line, since an UnDAG instruction is always a
// single line (spec §4.3). Parent edges are read through any graft
// replacement recorded under refs/replace/<hash>, which is how this
// reader surfaces the cycles UnDAG's control flow depends on.
func (r *Repository) Snapshot() (*dag.Graph, error) {
	tagIter, err := r.repo.Tags()
	if err != nil {
		return nil, errors.Wrap(err, "list tags")
	}

	tags := make(dag.TagMap)
	var roots []plumbing.Hash
	err = tagIter.ForEach(func(ref *plumbing.Reference) error {
		commit, err := r.commitForRef(ref)
		if err != nil {
			return errors.Wrapf(err, "resolve tag %q", ref.Name().Short())
		}
		tags[ref.Name().Short()] = dag.Commit(commit.Hash.String())
		roots = append(roots, commit.Hash)
		return nil
	})
	if err != nil {
		return nil, err
	}

	messages := make(map[dag.Commit]string)
	var edges []dag.Edge
	visited := make(map[plumbing.Hash]bool)
	queue := append([]plumbing.Hash{}, roots...)

	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		if visited[h] {
			continue
		}
		visited[h] = true

		commit, err := r.repo.CommitObject(h)
		if err != nil {
			return nil, errors.Wrapf(err, "load commit %s", h)
		}
		messages[dag.Commit(h.String())] = firstLine(commit.Message)

		parentHashes, err := r.effectiveParents(h, commit)
		if err != nil {
			return nil, err
		}
		ps := make([]dag.Commit, len(parentHashes))
		for i, ph := range parentHashes {
			ps[i] = dag.Commit(ph.String())
			queue = append(queue, ph)
		}
		edges = append(edges, dag.Edge{Commit: dag.Commit(h.String()), Parents: ps})
	}

	g, err := dag.New(tags, messages, edges)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// commitForRef resolves a tag reference to the commit it names, unwrapping
// an annotated tag object if the ref doesn't point directly at a commit.
func (r *Repository) commitForRef(ref *plumbing.Reference) (*object.Commit, error) {
	if tag, err := r.repo.TagObject(ref.Hash()); err == nil {
		return tag.Commit()
	} else if err != plumbing.ErrObjectNotFound {
		return nil, err
	}
	return r.repo.CommitObject(ref.Hash())
}

// effectiveParents returns the parent hashes to record for h: those of the
// commit graft-replaced at refs/replace/<h>, if one exists, otherwise h's
// own parents. This is the one place replace refs are consulted; every
// later traversal of the resulting dag.Graph is free to assume an ordinary
// (if possibly cyclic) adjacency list.
func (r *Repository) effectiveParents(h plumbing.Hash, commit *object.Commit) ([]plumbing.Hash, error) {
	replacement, err := r.repo.Reference(plumbing.ReferenceName("refs/replace/"+h.String()), true)
	if err != nil {
		if err == plumbing.ErrReferenceNotFound {
			return commit.ParentHashes, nil
		}
		return nil, errors.Wrapf(err, "resolve replace ref for %s", h)
	}
	grafted, err := r.repo.CommitObject(replacement.Hash())
	if err != nil {
		return nil, errors.Wrapf(err, "load grafted commit %s", replacement.Hash())
	}
	return grafted.ParentHashes, nil
}

func firstLine(msg string) string {
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		return msg[:i]
	}
	return msg
}
