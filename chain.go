package compose

// chainFor returns the ordered ancestry of leaf bounded by the kind marker:
// the most-ancestral type still carrying kind first, leaf last. Traversal
// stops at the first ancestor whose kind differs, even when marked types
// exist further up. A leaf with no marked ancestors yields a chain of
// length 1.
func chainFor(leaf *Type, kind Kind) []*Type {
	if leaf == nil {
		return nil
	}

	chain := []*Type{leaf}
	for current := leaf.parent; current != nil && current.kind == kind; current = current.parent {
		chain = append(chain, current)
	}

	// Collected leaf-first; resolution folds root-first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}
