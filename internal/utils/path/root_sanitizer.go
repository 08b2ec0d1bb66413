package pathutils

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// RootSanitizer normalizes scan root inputs consistently across commands:
// whitespace is trimmed, home shortcuts expand, duplicates collapse, and
// roots nested inside other roots are pruned so repositories are visited once.
type RootSanitizer struct {
	homeExpander *HomeExpander
}

// NewRootSanitizer constructs a RootSanitizer with the default home expander.
func NewRootSanitizer() *RootSanitizer {
	return NewRootSanitizerWithExpander(nil)
}

// NewRootSanitizerWithExpander constructs a RootSanitizer using the provided expander.
func NewRootSanitizerWithExpander(homeExpander *HomeExpander) *RootSanitizer {
	resolvedExpander := homeExpander
	if resolvedExpander == nil {
		resolvedExpander = NewHomeExpander()
	}
	return &RootSanitizer{homeExpander: resolvedExpander}
}

// Sanitize returns the cleaned scan roots in their original order.
func (sanitizer *RootSanitizer) Sanitize(candidateRoots []string) []string {
	if sanitizer == nil {
		return NewRootSanitizer().Sanitize(candidateRoots)
	}

	expandedRoots := make([]string, 0, len(candidateRoots))
	for _, candidateRoot := range candidateRoots {
		trimmedRoot := strings.TrimSpace(candidateRoot)
		if len(trimmedRoot) == 0 {
			continue
		}
		expandedRoots = append(expandedRoots, sanitizer.homeExpander.Expand(trimmedRoot))
	}

	if len(expandedRoots) == 0 {
		return nil
	}
	return pruneNestedRoots(expandedRoots)
}

type rootDetails struct {
	originalIndex int
	value         string
	canonical     string
}

func pruneNestedRoots(candidateRoots []string) []string {
	details := make([]rootDetails, 0, len(candidateRoots))
	for index, candidateRoot := range candidateRoots {
		details = append(details, rootDetails{
			originalIndex: index,
			value:         candidateRoot,
			canonical:     canonicalizeRoot(candidateRoot),
		})
	}

	// Shorter canonical paths sort first so parents are selected before children.
	sort.SliceStable(details, func(first int, second int) bool {
		if len(details[first].canonical) == len(details[second].canonical) {
			return details[first].canonical < details[second].canonical
		}
		return len(details[first].canonical) < len(details[second].canonical)
	})

	selected := make([]rootDetails, 0, len(details))
	for _, candidate := range details {
		nested := false
		for _, existing := range selected {
			if candidate.canonical == existing.canonical || isNestedRoot(existing.canonical, candidate.canonical) {
				nested = true
				break
			}
		}
		if !nested {
			selected = append(selected, candidate)
		}
	}

	sort.SliceStable(selected, func(first int, second int) bool {
		return selected[first].originalIndex < selected[second].originalIndex
	})

	prunedRoots := make([]string, 0, len(selected))
	for _, candidate := range selected {
		prunedRoots = append(prunedRoots, candidate.value)
	}
	return prunedRoots
}

func canonicalizeRoot(candidateRoot string) string {
	cleanedRoot := filepath.Clean(candidateRoot)
	absoluteRoot, absoluteError := filepath.Abs(cleanedRoot)
	if absoluteError != nil {
		return cleanedRoot
	}
	return filepath.Clean(absoluteRoot)
}

func isNestedRoot(parent string, candidate string) bool {
	if len(candidate) <= len(parent) {
		return false
	}
	if !strings.HasPrefix(candidate, parent) {
		return false
	}
	return candidate[len(parent)] == os.PathSeparator || parent[len(parent)-1] == os.PathSeparator
}
