package rules

import (
	"errors"
	"strings"

	"github.com/stopguard/stopguard/internal/normalize"
)

type AhoMatcher struct {
	nodes  []ahoNode
	maxLen int
}

type ahoNode struct {
	next map[byte]int
	fail int
	out  []ahoOut
}

type ahoOut struct {
	index  int
	length int
}

func NewAhoMatcher(terms []string) (*AhoMatcher, error) {
	if len(terms) == 0 {
		return nil, errors.New("terms are required")
	}

	nodes := []ahoNode{{next: map[byte]int{}, fail: 0}}
	maxLen := 0
	for idx, term := range terms {
		pattern := strings.ToLower(term)
		if pattern == "" {
			continue
		}
		if len(pattern) > maxLen {
			maxLen = len(pattern)
		}
		current := 0
		for i := 0; i < len(pattern); i++ {
			b := pattern[i]
			next, ok := nodes[current].next[b]
			if !ok {
				nodes = append(nodes, ahoNode{next: map[byte]int{}, fail: 0})
				next = len(nodes) - 1
				nodes[current].next[b] = next
			}
			current = next
		}
		nodes[current].out = append(nodes[current].out, ahoOut{index: idx, length: len(pattern)})
	}

	queue := make([]int, 0)
	for _, next := range nodes[0].next {
		nodes[next].fail = 0
		queue = append(queue, next)
	}

	for len(queue) > 0 {
		state := queue[0]
		queue = queue[1:]

		for b, next := range nodes[state].next {
			fail := nodes[state].fail
			for {
				if target, ok := nodes[fail].next[b]; ok && target != next {
					nodes[next].fail = target
					break
				}
				if fail == 0 {
					nodes[next].fail = 0
					break
				}
				fail = nodes[fail].fail
			}
			nodes[next].out = append(nodes[next].out, nodes[nodes[next].fail].out...)
			queue = append(queue, next)
		}
	}

	if len(nodes) == 1 {
		return nil, errors.New("no non-empty terms")
	}

	return &AhoMatcher{nodes: nodes, maxLen: maxLen}, nil
}

func (m *AhoMatcher) Match(input string) (Span, bool) {
	folded := normalize.Fold(input)
	text := folded.Normalized

	bestStart, bestEnd, bestIndex := -1, -1, -1
	state := 0
	for i := 0; i < len(text); i++ {
		// nothing starting later can beat the current best
		if bestStart >= 0 && i+1-m.maxLen > bestStart {
			break
		}

		b := text[i]
		for state != 0 {
			if next, ok := m.nodes[state].next[b]; ok {
				state = next
				break
			}
			state = m.nodes[state].fail
		}
		if state == 0 {
			if next, ok := m.nodes[0].next[b]; ok {
				state = next
			}
		}

		for _, out := range m.nodes[state].out {
			start := i + 1 - out.length
			if bestStart < 0 || start < bestStart || (start == bestStart && out.index < bestIndex) {
				bestStart, bestEnd, bestIndex = start, i+1, out.index
			}
		}
	}

	if bestStart < 0 {
		return Span{}, false
	}

	start := folded.Offset(bestStart)
	original := folded.Original(bestStart, bestEnd)
	return Span{Start: start, End: start + len(original), Text: original}, true
}
