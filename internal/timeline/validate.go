package timeline

import "fmt"

// MaxNestingDepth bounds recursion through nested stacks. Deeper trees are
// rejected at validation time instead of risking a runaway walk.
const MaxNestingDepth = 32

// Validate checks the structural invariants: non-negative durations,
// transition placement (an item on both sides, never two in a row) and
// the nesting depth guard.
func (tl *Timeline) Validate() error {
	return validateStack(&tl.Tracks, 0)
}

func validateStack(s *Stack, depth int) error {
	if depth > MaxNestingDepth {
		return fmt.Errorf("stack %q: nesting deeper than %d", s.Name, MaxNestingDepth)
	}
	for _, child := range s.Children {
		switch v := child.(type) {
		case *Track:
			if err := validateTrack(v, depth+1); err != nil {
				return err
			}
		case *Stack:
			if err := validateStack(v, depth+1); err != nil {
				return err
			}
		default:
			return fmt.Errorf("stack %q: child %T not allowed, want Track or Stack", s.Name, child)
		}
	}
	return nil
}

func validateTrack(t *Track, depth int) error {
	if depth > MaxNestingDepth {
		return fmt.Errorf("track %q: nesting deeper than %d", t.Name, MaxNestingDepth)
	}
	if err := ValidateTransitionPlacement(t.Children); err != nil {
		return fmt.Errorf("track %q: %w", t.Name, err)
	}
	for i, child := range t.Children {
		switch v := child.(type) {
		case *Clip:
			if v.SourceRange.Duration.IsNegative() {
				return fmt.Errorf("track %q: clip %d has negative duration", t.Name, i)
			}
		case *Gap:
			if v.SourceRange.Duration.IsNegative() {
				return fmt.Errorf("track %q: gap %d has negative duration", t.Name, i)
			}
		case *Transition:
			if v.InOffset.IsNegative() || v.OutOffset.IsNegative() {
				return fmt.Errorf("track %q: transition %d has negative offset", t.Name, i)
			}
		case *Stack:
			if err := validateStack(v, depth+1); err != nil {
				return err
			}
		default:
			return fmt.Errorf("track %q: child %T not allowed", t.Name, child)
		}
	}
	return nil
}

// ValidateTransitionPlacement enforces that a transition has a timed item
// on both sides: never at position 0, never last, never next to another
// transition.
func ValidateTransitionPlacement(children []Item) error {
	for i, child := range children {
		if _, ok := child.(*Transition); !ok {
			continue
		}
		if i == 0 {
			return fmt.Errorf("transition at position 0 has no preceding item")
		}
		if i == len(children)-1 {
			return fmt.Errorf("transition at position %d has no following item", i)
		}
		if _, ok := children[i-1].(*Transition); ok {
			return fmt.Errorf("transitions at positions %d and %d are adjacent", i-1, i)
		}
		if _, ok := children[i+1].(*Transition); ok {
			return fmt.Errorf("transitions at positions %d and %d are adjacent", i, i+1)
		}
	}
	return nil
}
