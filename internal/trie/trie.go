// Package trie implements the LZW codebook: a prefix tree mapping byte
// sequences to integer codes.
package trie

// Alphabet is the number of single-byte sequences seeded into a new Codebook.
const Alphabet = 256

// Node identifies a node of a Codebook. The zero Node is the root.
type Node int32

// Root is the node for the empty sequence. It is never terminal.
const Root Node = 0

type node struct {
	code     int
	terminal bool
}

// Codebook is a prefix tree keyed by byte sequences.
//
// Nodes live in a single arena and edges are stored in one map keyed by
// parent index and byte, so a lookup costs one map access per byte of the
// sequence regardless of how many entries the codebook holds.
//
// A Codebook is not safe for concurrent use.
type Codebook struct {
	nodes   []node
	edges   map[uint64]Node
	entries int
}

// New returns a Codebook seeded with the 256 single-byte sequences,
// byte b mapped to code b.
func New() *Codebook {
	c := &Codebook{
		nodes: make([]node, 1, 2*Alphabet),
		edges: make(map[uint64]Node, 2*Alphabet),
	}
	c.nodes[Root] = node{code: -1}
	for b := 0; b < Alphabet; b++ {
		c.Extend(Root, byte(b), b)
	}
	return c
}

// Len returns the number of distinct sequences stored. It is also the next
// code the encoder assigns.
func (c *Codebook) Len() int {
	return c.entries
}

// Add stores sequence under code. It returns false and leaves the codebook
// untouched when the sequence is already present, when sequence is empty or
// when code is negative.
func (c *Codebook) Add(sequence []byte, code int) bool {
	if len(sequence) == 0 || code < 0 {
		return false
	}
	n := Root
	for _, b := range sequence[:len(sequence)-1] {
		n = c.child(n, b)
	}
	return c.Extend(n, sequence[len(sequence)-1], code)
}

// Contains returns the code stored for sequence. The second result is false
// when sequence is empty or is not a stored sequence.
func (c *Codebook) Contains(sequence []byte) (int, bool) {
	if len(sequence) == 0 {
		return -1, false
	}
	n := Root
	for _, b := range sequence {
		next, ok := c.edges[edgeKey(n, b)]
		if !ok {
			return -1, false
		}
		n = next
	}
	return c.Code(n)
}

// Step follows the edge labelled b out of n. It reports false when the
// extended sequence is not stored.
func (c *Codebook) Step(n Node, b byte) (Node, bool) {
	next, ok := c.edges[edgeKey(n, b)]
	if !ok || !c.nodes[next].terminal {
		return Root, false
	}
	return next, true
}

// Code returns the code of the sequence ending at n.
func (c *Codebook) Code(n Node) (int, bool) {
	nd := c.nodes[n]
	if !nd.terminal {
		return -1, false
	}
	return nd.code, true
}

// Extend stores the sequence of n followed by b under code. It is the
// cursor form of Add and follows the same rules.
func (c *Codebook) Extend(n Node, b byte, code int) bool {
	if code < 0 {
		return false
	}
	child := c.child(n, b)
	if c.nodes[child].terminal {
		return false
	}
	c.nodes[child] = node{code: code, terminal: true}
	c.entries++
	return true
}

// child returns the node below n for b, creating a non-terminal one if needed.
func (c *Codebook) child(n Node, b byte) Node {
	key := edgeKey(n, b)
	if next, ok := c.edges[key]; ok {
		return next
	}
	next := Node(len(c.nodes))
	c.nodes = append(c.nodes, node{code: -1})
	c.edges[key] = next
	return next
}

func edgeKey(n Node, b byte) uint64 {
	return uint64(n)<<8 | uint64(b)
}
