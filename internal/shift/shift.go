package shift

// Direction selects between sanitizing (forward) and desanitizing
// (backward) shifts.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "desanitize"
	}
	return "sanitize"
}

// edgeCount is how many non-space characters are shifted at each end of a
// value.
const edgeCount = 2

// ShiftForward advances a rune one position within its alphabet: lowercase
// letters wrap z->a, uppercase wrap Z->A, digits wrap 9->0. Underscore and
// every other rune (space, punctuation, non-ASCII) are fixed points.
func ShiftForward(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z':
		return 'a' + (r-'a'+1)%26
	case r >= 'A' && r <= 'Z':
		return 'A' + (r-'A'+1)%26
	case r >= '0' && r <= '9':
		return '0' + (r-'0'+1)%10
	default:
		return r
	}
}

// ShiftBackward is the exact inverse of ShiftForward.
func ShiftBackward(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z':
		return 'a' + (r-'a'+25)%26
	case r >= 'A' && r <= 'Z':
		return 'A' + (r-'A'+25)%26
	case r >= '0' && r <= '9':
		return '0' + (r-'0'+9)%10
	default:
		return r
	}
}

// Transform shifts the first two and last two non-space characters of s in
// the given direction. Only the literal ' ' rune counts as space; tabs and
// other whitespace are treated like any other character. When s has fewer
// than four non-space characters the leading and trailing selections
// overlap, and each selected position is still shifted exactly once. The
// empty string and strings of only spaces come back unchanged.
func Transform(s string, dir Direction) string {
	if s == "" {
		return s
	}
	shiftRune := ShiftForward
	if dir == Backward {
		shiftRune = ShiftBackward
	}
	runes := []rune(s)
	selected := make(map[int]struct{}, edgeCount*2)
	picked := 0
	for i := 0; i < len(runes) && picked < edgeCount; i++ {
		if runes[i] != ' ' {
			selected[i] = struct{}{}
			picked++
		}
	}
	picked = 0
	for i := len(runes) - 1; i >= 0 && picked < edgeCount; i-- {
		if runes[i] != ' ' {
			selected[i] = struct{}{}
			picked++
		}
	}
	for i := range selected {
		runes[i] = shiftRune(runes[i])
	}
	return string(runes)
}

// Codec applies the edge shift in one fixed direction and caches results.
// Identifier columns tend to carry many repeated values, so the cache
// saves recomputing the same string over and over. A Codec is not safe for
// concurrent use.
type Codec struct {
	dir   Direction
	cache map[string]string
}

func NewCodec(dir Direction) *Codec {
	return &Codec{dir: dir, cache: map[string]string{}}
}

func (c *Codec) Direction() Direction { return c.dir }

func (c *Codec) Transform(s string) string {
	if out, ok := c.cache[s]; ok {
		return out
	}
	out := Transform(s, c.dir)
	c.cache[s] = out
	return out
}
