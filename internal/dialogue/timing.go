package dialogue

import "time"

// DefaultCharSpeed is the per-character display delay absent any `!s`
// override, in milliseconds — a conservative reading speed.
const DefaultCharSpeed = 40

// classify returns the extra pre- and post-display delay (in
// milliseconds, added on top of the current per-char speed) a codepoint
// class assigns to r: opening punctuation gets a pre-delay so it doesn't
// crowd the preceding word, while sentence-final punctuation gets a
// longer post-delay so the reader pauses.
func classify(r rune) (pre, post int) {
	switch r {
	case '「', '『', '(', '"', '\'':
		return 80, 0
	case '。', '.', '!', '?', '！', '？':
		return 0, 260
	case '、', ',', '，':
		return 0, 140
	case '…':
		return 0, 320
	default:
		return 0, 0
	}
}

// charDelay computes one codepoint's total pre+post delay given the
// controller's current per-char speed.
func charDelay(r rune, speedMs int) time.Duration {
	pre, post := classify(r)
	return time.Duration(speedMs+pre+post) * time.Millisecond
}
