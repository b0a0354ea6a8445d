// Package phrase finds fixed multi-word phrases in text with a byte-level Aho-Corasick automaton.
// Patterns and input are expected to be lowercased; the matcher itself does no folding
package phrase

type node struct {
	// next[b] is the child state or -1
	next   [256]int32
	fail   int32
	output []int
}

// Matcher is immutable after New and safe for concurrent use
type Matcher struct {
	nodes    []node
	patterns []string
}

func newNode() node {
	var n node
	for i := range n.next {
		n.next[i] = -1
	}
	return n
}

// New compiles patterns into a matcher. Empty patterns are ignored.
// Match ids are indexes into patterns
func New(patterns []string) *Matcher {
	m := &Matcher{nodes: []node{newNode()}, patterns: patterns}
	for id, p := range patterns {
		m.add([]byte(p), id)
	}
	m.build()
	return m
}

func (m *Matcher) add(pat []byte, id int) {
	if len(pat) == 0 {
		return
	}
	state := int32(0)
	for _, b := range pat {
		nxt := m.nodes[state].next[b]
		if nxt == -1 {
			nxt = int32(len(m.nodes))
			m.nodes[state].next[b] = nxt
			m.nodes = append(m.nodes, newNode())
		}
		state = nxt
	}
	m.nodes[state].output = append(m.nodes[state].output, id)
}

// build wires failure links breadth first
func (m *Matcher) build() {
	q := make([]int32, 0, len(m.nodes))
	for b := range 256 {
		if s := m.nodes[0].next[b]; s != -1 {
			m.nodes[s].fail = 0
			q = append(q, s)
		}
	}
	for qi := 0; qi < len(q); qi++ {
		r := q[qi]
		for b := range 256 {
			s := m.nodes[r].next[b]
			if s == -1 {
				continue
			}
			q = append(q, s)

			f := m.nodes[r].fail
			for f != 0 && m.nodes[f].next[b] == -1 {
				f = m.nodes[f].fail
			}
			if nxt := m.nodes[f].next[b]; nxt != -1 && nxt != s {
				m.nodes[s].fail = nxt
			} else {
				m.nodes[s].fail = 0
			}
			m.nodes[s].output = append(m.nodes[s].output, m.nodes[m.nodes[s].fail].output...)
		}
	}
}

// Scan calls fn(end, id) for every match, end being the byte offset just past the match.
// Returning false from fn stops the scan
func (m *Matcher) Scan(text string, fn func(end, id int) bool) {
	state := int32(0)
	for i := 0; i < len(text); i++ {
		b := text[i]
		for state != 0 && m.nodes[state].next[b] == -1 {
			state = m.nodes[state].fail
		}
		if nxt := m.nodes[state].next[b]; nxt != -1 {
			state = nxt
		}
		for _, id := range m.nodes[state].output {
			if !fn(i+1, id) {
				return
			}
		}
	}
}

// First returns the first phrase found in text, if any
func (m *Matcher) First(text string) (string, bool) {
	hit := -1
	m.Scan(text, func(_, id int) bool {
		hit = id
		return false
	})
	if hit < 0 {
		return "", false
	}
	return m.patterns[hit], true
}

// Contains reports whether any phrase occurs in text
func (m *Matcher) Contains(text string) bool {
	_, ok := m.First(text)
	return ok
}

// All returns the distinct phrases present in text in order of first occurrence
func (m *Matcher) All(text string) []string {
	var out []string
	seen := make(map[int]struct{})
	m.Scan(text, func(_, id int) bool {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, m.patterns[id])
		}
		return true
	})
	return out
}

// Len returns the number of compiled patterns
func (m *Matcher) Len() int { return len(m.patterns) }
