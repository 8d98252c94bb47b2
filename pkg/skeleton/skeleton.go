// Package skeleton holds a node hierarchy in a flat arena and evaluates
// animation clips against it.
package skeleton

import (
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-rig/pkg/math"
)

// Hierarchy validation errors.
var (
	ErrEmptyHierarchy   = errors.New("hierarchy has no nodes")
	ErrNoRoot           = errors.New("hierarchy has no root node")
	ErrMultipleRoots    = errors.New("hierarchy has more than one root node")
	ErrParentOutOfRange = errors.New("parent index out of range")
	ErrChildMismatch    = errors.New("child list disagrees with parent index")
	ErrUnreachableNode  = errors.New("node is not reachable from the root")
	ErrDuplicateName    = errors.New("duplicate node name")
)

// RawNode is a hierarchy node as delivered by an importer.
type RawNode struct {
	Name      string
	Parent    int // -1 for the root
	BindLocal math.Mat4
	Children  []int
}

// Node is one joint of the skeleton. Nodes refer to each other by index.
type Node struct {
	Name      string
	Parent    int
	Children  []int
	BindLocal math.Mat4

	// Pose state, rewritten by every Evaluate.
	Local  math.Mat4
	Global math.Mat4

	// Parts lists rigid mesh parts attached to this node.
	Parts []int
}

// Skeleton owns the node arena.
type Skeleton struct {
	nodes  []Node
	root   int
	order  []int // parent before child
	byName map[string]int
}

// New validates raw and builds a skeleton posed at bind.
func New(raw []RawNode) (*Skeleton, error) {
	n := len(raw)
	if n == 0 {
		return nil, ErrEmptyHierarchy
	}

	s := &Skeleton{
		nodes:  make([]Node, n),
		root:   -1,
		byName: make(map[string]int, n),
	}

	for i, r := range raw {
		if r.Parent < -1 || r.Parent >= n || r.Parent == i {
			return nil, fmt.Errorf("node %d (%q) parent %d: %w", i, r.Name, r.Parent, ErrParentOutOfRange)
		}
		if r.Parent == -1 {
			if s.root >= 0 {
				return nil, fmt.Errorf("nodes %d and %d: %w", s.root, i, ErrMultipleRoots)
			}
			s.root = i
		}
		if _, dup := s.byName[r.Name]; dup {
			return nil, fmt.Errorf("%q: %w", r.Name, ErrDuplicateName)
		}
		s.byName[r.Name] = i

		s.nodes[i] = Node{
			Name:      r.Name,
			Parent:    r.Parent,
			BindLocal: r.BindLocal,
			Local:     r.BindLocal,
			Global:    math.Identity(),
		}
	}
	if s.root < 0 {
		return nil, ErrNoRoot
	}

	if err := s.linkChildren(raw); err != nil {
		return nil, err
	}
	if err := s.buildOrder(); err != nil {
		return nil, err
	}

	s.compose()
	return s, nil
}

// linkChildren copies child lists, deriving them from parent links when the
// importer left them empty.
func (s *Skeleton) linkChildren(raw []RawNode) error {
	derive := true
	for i := range raw {
		if len(raw[i].Children) > 0 {
			derive = false
			break
		}
	}

	if derive {
		for i, r := range raw {
			if r.Parent >= 0 {
				p := &s.nodes[r.Parent]
				p.Children = append(p.Children, i)
			}
		}
		return nil
	}

	linked := 0
	for i, r := range raw {
		for _, c := range r.Children {
			if c < 0 || c >= len(raw) || raw[c].Parent != i {
				return fmt.Errorf("node %d (%q) child %d: %w", i, r.Name, c, ErrChildMismatch)
			}
		}
		s.nodes[i].Children = append([]int(nil), r.Children...)
		linked += len(r.Children)
	}
	// Every non-root node must appear exactly once in some child list.
	if linked != len(raw)-1 {
		return fmt.Errorf("%d child links for %d non-root nodes: %w", linked, len(raw)-1, ErrChildMismatch)
	}
	return nil
}

func (s *Skeleton) buildOrder() error {
	s.order = make([]int, 0, len(s.nodes))
	seen := make([]bool, len(s.nodes))
	stack := []int{s.root}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[i] {
			return fmt.Errorf("node %d (%q) visited twice: %w", i, s.nodes[i].Name, ErrChildMismatch)
		}
		seen[i] = true
		s.order = append(s.order, i)

		children := s.nodes[i].Children
		for c := len(children) - 1; c >= 0; c-- {
			stack = append(stack, children[c])
		}
	}
	for i, ok := range seen {
		if !ok {
			return fmt.Errorf("node %d (%q): %w", i, s.nodes[i].Name, ErrUnreachableNode)
		}
	}
	return nil
}

// Len returns the number of nodes.
func (s *Skeleton) Len() int { return len(s.nodes) }

// Root returns the root node index.
func (s *Skeleton) Root() int { return s.root }

// Node returns the node at index i.
func (s *Skeleton) Node(i int) *Node { return &s.nodes[i] }

// Index returns the index of the named node.
func (s *Skeleton) Index(name string) (int, bool) {
	i, ok := s.byName[name]
	return i, ok
}

// Global returns the model-space pose of node i from the last evaluation.
func (s *Skeleton) Global(i int) math.Mat4 { return s.nodes[i].Global }

// Local returns the local pose of node i from the last evaluation.
func (s *Skeleton) Local(i int) math.Mat4 { return s.nodes[i].Local }

// Order returns node indices with every parent before its children.
func (s *Skeleton) Order() []int { return s.order }

// Depth returns the number of ancestors of node i.
func (s *Skeleton) Depth(i int) int {
	d := 0
	for p := s.nodes[i].Parent; p >= 0; p = s.nodes[p].Parent {
		d++
	}
	return d
}

// AttachPart records a rigid mesh part on node i.
func (s *Skeleton) AttachPart(i, part int) {
	s.nodes[i].Parts = append(s.nodes[i].Parts, part)
}
