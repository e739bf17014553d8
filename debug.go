package skel

import (
	"fmt"
	"strings"
)

// debugMaxTreeDepth is the bone depth above which WithDebug warns.
const debugMaxTreeDepth = 32

// debugMaxChildCount is the child count above which WithDebug warns.
const debugMaxChildCount = 64

func (s *Skeleton) debugCheckTreeDepth(b *Bone) {
	depth := 0
	for p := b; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		s.logger.Warn("bone tree depth exceeds threshold",
			"skeleton", s.name, "bone", b.Name, "depth", depth, "threshold", debugMaxTreeDepth)
	}
	if p := b.parent; p != nil && len(p.children) > debugMaxChildCount {
		s.logger.Warn("bone child count exceeds threshold",
			"skeleton", s.name, "bone", p.Name, "children", len(p.children), "threshold", debugMaxChildCount)
	}
}

// Describe returns one line per bone, indented by depth, for debugging.
func (s *Skeleton) Describe() []string {
	if s.root == nil {
		return nil
	}
	var lines []string
	var walk func(b *Bone, depth int)
	walk = func(b *Bone, depth int) {
		j := b.joint
		lines = append(lines, fmt.Sprintf("%s%s joint=(%.3f, %.3f, %.3f) keyframes=%d",
			strings.Repeat("  ", depth), b.Name, j[0], j[1], j[2], len(b.track)))
		for _, c := range b.children {
			walk(c, depth+1)
		}
	}
	walk(s.root, 0)
	return lines
}
