// Package dialogue implements the text-display state machine: a dialogue
// line is parsed into segments (plain text, clickstops, pipe-barriers,
// inline commands), each printable codepoint carries a timed pre/post
// delay, and pipe-barriers suspend the script side until it calls
// waitOnDialogue the matching number of times. Render state advances one
// unit at a time, driven by an external clock — the same dot-by-dot
// scanline-stepping shape as a PPU, generalized here from pixels-per-dot
// to codepoints-per-tick.
package dialogue

import (
	"strings"
	"unicode/utf8"
)

// SegmentKind distinguishes the pieces a dialogue line parses into.
type SegmentKind int

const (
	SegText SegmentKind = iota
	SegClickstop          // @ — wait for a click, keep the window
	SegPageBreak          // \ — wait for a click, then clear the window
	SegPipe               // | — a script-visible suspension barrier
	SegInlineWait         // !wN
	SegInlineSpeed        // !sN
	SegInlineDotPause     // !dN
	SegInlineCmd          // {cmd:arg:arg}
)

// Segment is one parsed unit of a dialogue line.
type Segment struct {
	Kind         SegmentKind
	Text         []rune // SegText
	Ms           int    // SegInlineWait/Speed/DotPause
	BarrierIndex int    // SegPipe
	Cmd          string // SegInlineCmd
	Args         []string
}

// Parse splits a raw dialogue line into segments, following the grammar:
// `@`/`\` clickstops, `|` barriers (numbered in encounter
// order), `!wN`/`!sN`/`!dN` inline timing overrides, and `{cmd:arg:arg}`
// inline commands. Everything else accumulates into SegText runs.
func Parse(line string) []Segment {
	var segs []Segment
	var textRun []rune
	flush := func() {
		if len(textRun) > 0 {
			segs = append(segs, Segment{Kind: SegText, Text: append([]rune(nil), textRun...)})
			textRun = textRun[:0]
		}
	}

	barrierCount := 0
	runes := []rune(line)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch r {
		case '@':
			flush()
			segs = append(segs, Segment{Kind: SegClickstop})
			i++
		case '\\':
			flush()
			segs = append(segs, Segment{Kind: SegPageBreak})
			i++
		case '|':
			flush()
			segs = append(segs, Segment{Kind: SegPipe, BarrierIndex: barrierCount})
			barrierCount++
			i++
		case '!':
			flush()
			kind, ms, consumed := parseInlineTiming(runes[i:])
			if consumed > 0 {
				segs = append(segs, Segment{Kind: kind, Ms: ms})
				i += consumed
			} else {
				// Not a recognized !-directive; treat the '!' literally.
				textRun = append(textRun, r)
				i++
			}
		case '{':
			flush()
			end := indexRune(runes[i+1:], '}')
			if end < 0 {
				// Unterminated; treat the rest of the line as literal text
				// rather than silently dropping it.
				textRun = append(textRun, runes[i:]...)
				i = len(runes)
				continue
			}
			body := string(runes[i+1 : i+1+end])
			parts := strings.Split(body, ":")
			cmd := parts[0]
			args := parts[1:]
			segs = append(segs, Segment{Kind: SegInlineCmd, Cmd: cmd, Args: args})
			i += 1 + end + 1
		default:
			textRun = append(textRun, r)
			i++
		}
	}
	flush()
	return segs
}

func indexRune(rs []rune, target rune) int {
	for i, r := range rs {
		if r == target {
			return i
		}
	}
	return -1
}

// parseInlineTiming recognizes !wN, !sN, !dN at the start of rs (rs[0]
// is the '!'). Returns the segment kind, parsed ms, and rune count
// consumed; consumed == 0 means rs doesn't start with a recognized
// directive.
func parseInlineTiming(rs []rune) (SegmentKind, int, int) {
	if len(rs) < 2 {
		return 0, 0, 0
	}
	var kind SegmentKind
	switch rs[1] {
	case 'w':
		kind = SegInlineWait
	case 's':
		kind = SegInlineSpeed
	case 'd':
		kind = SegInlineDotPause
	default:
		return 0, 0, 0
	}
	j := 2
	for j < len(rs) && rs[j] >= '0' && rs[j] <= '9' {
		j++
	}
	if j == 2 {
		return 0, 0, 0
	}
	ms := 0
	for _, d := range rs[2:j] {
		ms = ms*10 + int(d-'0')
	}
	return kind, ms, j
}

// RuneLen reports how many UTF-8 bytes a SegText segment occupies in the
// original source, for cursor arithmetic against script.Buffer addresses.
func (s Segment) RuneLen() int {
	n := 0
	for _, r := range s.Text {
		n += utf8.RuneLen(r)
	}
	return n
}
