package document

// Selection is a range of the document between two positions. Anchor is
// the fixed end, Head the moving end; they may be in either order.
type Selection struct {
	Anchor int
	Head   int
}

// Collapsed returns an empty selection at pos.
func Collapsed(pos int) Selection {
	return Selection{Anchor: pos, Head: pos}
}

// SelectRange returns a selection spanning from..to.
func SelectRange(from, to int) Selection {
	return Selection{Anchor: from, Head: to}
}

// From returns the lower bound of the selection.
func (s Selection) From() int {
	if s.Head < s.Anchor {
		return s.Head
	}
	return s.Anchor
}

// To returns the upper bound of the selection.
func (s Selection) To() int {
	if s.Head > s.Anchor {
		return s.Head
	}
	return s.Anchor
}

// Empty reports whether the selection is a bare cursor.
func (s Selection) Empty() bool {
	return s.Anchor == s.Head
}

// clamp restricts the selection to [0, size].
func (s Selection) clamp(size int) Selection {
	c := func(p int) int {
		if p < 0 {
			return 0
		}
		if p > size {
			return size
		}
		return p
	}
	return Selection{Anchor: c(s.Anchor), Head: c(s.Head)}
}
