package domain

import "unicode/utf8"

// MaxRootPostLength is the hard character limit for a single feed post.
// Longer content must go through a trail.
const MaxRootPostLength = 287

// ContentFits reports whether content fits in a single post. The limit is
// counted in runes, not bytes.
func ContentFits(content string) bool {
	return utf8.RuneCountInString(content) <= MaxRootPostLength
}

// SplitIntoTrails splits over-limit content into a root chunk and ordered
// trail chunks, each at most MaxRootPostLength runes. Content that already
// fits returns no trail chunks.
func SplitIntoTrails(content string) (root string, trails []string) {
	runes := []rune(content)
	if len(runes) <= MaxRootPostLength {
		return content, nil
	}

	root = string(runes[:MaxRootPostLength])
	for rest := runes[MaxRootPostLength:]; len(rest) > 0; {
		n := len(rest)
		if n > MaxRootPostLength {
			n = MaxRootPostLength
		}
		trails = append(trails, string(rest[:n]))
		rest = rest[n:]
	}
	return root, trails
}
