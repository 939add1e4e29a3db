package radix

// Tree is a space-optimized prefix tree (radix tree) over strings. Every
// node that is the only child of its parent is merged with that parent, so
// a lookup walks at most one node per distinct prefix fragment rather than
// one node per character.
//
// Tree is not safe for concurrent use; callers are expected to provide
// their own synchronization.
type Tree struct {
	root *node
}

type node struct {
	// prefix is the string fragment owned by this node. Concatenating the
	// prefixes along any root-to-node path reconstructs a stored string.
	prefix string

	// terminal marks that the accumulated path from the root is a complete
	// stored string, not just a shared fragment.
	terminal bool

	// children is keyed by the first byte of each child's prefix. Children
	// are pairwise distinct in their first byte.
	children map[byte]*node
}

func newNode(prefix string, terminal bool) *node {
	return &node{
		prefix:   prefix,
		terminal: terminal,
		children: make(map[byte]*node),
	}
}

func New() *Tree {
	return &Tree{root: newNode("", false)}
}

// match computes the longest common prefix of the node's own prefix and
// word. It returns the common fragment, the unmatched remainder of the
// node's prefix, and the unmatched remainder of word.
func (n *node) match(word string) (common, restPrefix, restWord string) {
	limit := len(n.prefix)
	if len(word) < limit {
		limit = len(word)
	}

	x := 0
	for x < limit && n.prefix[x] == word[x] {
		x++
	}

	return n.prefix[:x], n.prefix[x:], word[x:]
}

// Match computes the common/remaining-prefix/remaining-word triple of word
// against the root node. The root owns the empty prefix, so the triple is
// ("", "", word); callers that treat the non-empty fragments as candidate
// stored strings rely on exactly this shape.
func (t *Tree) Match(word string) (common, restPrefix, restWord string) {
	return t.root.match(word)
}

// Insert adds word to the tree. Inserting the empty string marks the root
// terminal. Inserting a word twice is a no-op.
func (t *Tree) Insert(word string) {
	t.root.insert(word)
}

func (n *node) insert(word string) {
	switch {
	case word == "":
		// The word ends exactly at this node. This is the only way a
		// descent terminates: a fully-consumed word always recurses in
		// with the empty remainder. Matching n.prefix against the word
		// here instead would swallow words whose leftover suffix equals
		// the prefix of the node it lands on.
		n.terminal = true

	case n.children[word[0]] == nil:
		// No child shares a leading byte with the word; hang the whole
		// remaining word off this node.
		n.children[word[0]] = newNode(word, true)

	default:
		child := n.children[word[0]]
		common, restPrefix, restWord := child.match(word)

		if restPrefix == "" {
			// The child's prefix is fully matched; descend with the
			// leftover suffix.
			child.insert(restWord)
			return
		}

		// The word diverges inside the child's prefix. Split the child:
		// an intermediate node takes the common fragment and the original
		// child is demoted under it, keeping only its unmatched remainder.
		child.prefix = restPrefix
		mid := newNode(common, false)
		mid.children[restPrefix[0]] = child
		n.children[common[0]] = mid

		if restWord == "" {
			mid.terminal = true
		} else {
			mid.insert(restWord)
		}
	}
}

// Find reports whether word was inserted and not since deleted.
func (t *Tree) Find(word string) bool {
	if word == "" {
		return t.root.terminal
	}
	return t.root.find(word)
}

func (n *node) find(word string) bool {
	child := n.children[word[0]]
	if child == nil {
		return false
	}

	_, restPrefix, restWord := child.match(word)
	if restPrefix != "" {
		// The word ends inside the child's prefix; it cannot be stored.
		return false
	}
	if restWord == "" {
		return child.terminal
	}
	return child.find(restWord)
}

// Delete removes word from the tree and reports whether it was present.
// Removal re-merges single-child chains so that no non-terminal node is
// left with exactly one child.
func (t *Tree) Delete(word string) bool {
	if word == "" {
		if !t.root.terminal {
			return false
		}
		t.root.terminal = false
		return true
	}
	// The root never merges with a child: its prefix must stay empty so
	// that lookups and Match keep indexing children by the word's first
	// byte.
	return t.root.delete(word, false)
}

func (n *node) delete(word string, canMerge bool) bool {
	child := n.children[word[0]]
	if child == nil {
		return false
	}

	_, restPrefix, restWord := child.match(word)
	if restPrefix != "" {
		return false
	}
	if restWord != "" {
		return child.delete(restWord, true)
	}
	if !child.terminal {
		return false
	}

	switch len(child.children) {
	case 0:
		// Leaf: unlink it, then collapse this node into its remaining
		// single child if this node is a pure branching point.
		delete(n.children, word[0])
		if canMerge && len(n.children) == 1 && !n.terminal {
			n.merge()
		}
	case 1:
		// Single descendant: pull it up into the deleted node.
		child.merge()
	default:
		// Still a branching point; just drop the terminal mark.
		child.terminal = false
	}

	return true
}

// merge absorbs the node's only child, concatenating prefixes and adopting
// the child's terminal flag and children.
func (n *node) merge() {
	for _, only := range n.children {
		n.terminal = only.terminal
		n.prefix += only.prefix
		n.children = only.children
		return
	}
}

// Walk visits every node's prefix, terminal flag, and child count in
// depth-first order. It exists for structural verification in tests.
func (t *Tree) Walk(visit func(prefix string, terminal bool, children int)) {
	t.root.walk(visit)
}

func (n *node) walk(visit func(prefix string, terminal bool, children int)) {
	visit(n.prefix, n.terminal, len(n.children))
	for _, child := range n.children {
		child.walk(visit)
	}
}
