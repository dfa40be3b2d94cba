package container

import (
	"errors"
	"fmt"
)

// attach takes the parent link: a reference for shared children, a borrow
// for the others.
func (n *Node) attach() error {
	p := n.parent
	p.lifeMu.Lock()
	defer p.lifeMu.Unlock()

	if p.ownerClosed.Load() {
		return lifetimeProblem(p.id, "parent scope "+p.id+" is closed")
	}

	if !n.shared {
		p.borrowers.Add(1)
		return nil
	}

	for {
		refs := p.refs.Load()
		if refs <= 0 {
			return lifetimeProblem(p.id, "parent scope "+p.id+" is released")
		}
		if p.refs.CompareAndSwap(refs, refs+1) {
			return nil
		}
	}
}

func (n *Node) detach() error {
	if n.shared {
		return n.parent.release()
	}
	n.parent.borrowers.Add(-1)
	return nil
}

// checkAlive fails if n was closed by its owner or if any ancestor storage was
// released.
func (n *Node) checkAlive() error {
	if n.ownerClosed.Load() {
		return lifetimeProblem(n.id, "scope "+n.id+" is closed")
	}
	for cur := n; cur != nil; cur = cur.parent {
		if cur.released.Load() {
			return lifetimeProblem(cur.id, "scope "+cur.id+" is released")
		}
	}
	return nil
}

// Close drops the owner's handle on n. It fails while borrowed children are
// open. Storage is released once no shared child holds a reference either.
func (n *Node) Close() error {
	n.lifeMu.Lock()
	if b := n.borrowers.Load(); b > 0 {
		n.lifeMu.Unlock()
		return lifetimeProblem(n.id, fmt.Sprintf("scope %s still has %d open borrowed child scopes", n.id, b))
	}
	closed := n.ownerClosed.Swap(true)
	n.lifeMu.Unlock()

	if closed {
		return nil
	}
	return n.release()
}

// Closed reports whether the owner closed n.
func (n *Node) Closed() bool {
	return n.ownerClosed.Load()
}

func (n *Node) release() error {
	if n.refs.Add(-1) > 0 {
		return nil
	}
	n.released.Store(true)

	var errs []error

	n.initMu.Lock()
	initialized := n.initialized
	n.initialized = nil
	n.initMu.Unlock()

	for i := len(initialized) - 1; i >= 0; i-- {
		e := initialized[i]
		slot, ok := e.cell.Reset()
		if !ok || e.Finalize == nil {
			continue
		}
		if err := e.Finalize(slot); err != nil {
			errs = append(errs, fmt.Errorf("finalize %s: %w", e.Key, err))
		}
	}

	n.logger.Debug("scope released", "finalized", len(initialized))

	if n.parent != nil {
		if err := n.detach(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
