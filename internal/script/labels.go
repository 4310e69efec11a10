package script

import (
	"fmt"
	"sort"
	"strings"
)

// Label describes one discovered `*name` label.
type Label struct {
	Name    string // canonical lower-case name, without the leading '*'
	Address int    // byte address just past the label name, on the label line
	Line    int    // 0-based line number the label starts on
	Lines   int    // number of source lines until the next label (or EOF)
}

// LabelIndex is the sorted-by-address label table plus two lookup
// caches. Labels are discovered in a single preprocessing pass over the
// Buffer.
//
// Lookup is case-insensitive at both storage and lookup time; a name
// colliding with an already-stored label (case-insensitively) is rejected
// during preprocessing instead of being silently shadowed.
type LabelIndex struct {
	byAddress []Label          // sorted ascending by Address
	byName    map[string]int   // canonical lower-case name -> index into byAddress

	addrCache *lruCache // address -> index into byAddress
	lineCache *lruCache // line -> index into byAddress
}

// BuildLabelIndex scans buf for `*name` labels that start a line, in a
// single preprocessing pass.
func BuildLabelIndex(buf *Buffer) (*LabelIndex, error) {
	idx := &LabelIndex{
		byName:    make(map[string]int),
		addrCache: newLRU(64),
		lineCache: newLRU(64),
	}

	data := buf.data
	line := 0
	atLineStart := true
	i := 0
	type pending struct {
		name  string
		addr  int
		line  int
	}
	var found []pending

	for i < len(data) {
		c := data[i]
		if c == '\n' {
			line++
			atLineStart = true
			i++
			continue
		}
		if atLineStart && c == '*' {
			start := i + 1
			j := start
			for j < len(data) && isLabelByte(data[j]) {
				j++
			}
			name := string(data[start:j])
			if name == "" {
				return nil, fmt.Errorf("empty label name at line %d", line)
			}
			lower := strings.ToLower(name)
			if _, dup := idx.byName[lower]; dup {
				return nil, fmt.Errorf("duplicate label (case-insensitive) %q at line %d", name, line)
			}
			idx.byName[lower] = len(found)
			found = append(found, pending{name: lower, addr: j, line: line})
			i = j
			atLineStart = false
			continue
		}
		atLineStart = false
		i++
	}

	idx.byAddress = make([]Label, len(found))
	for n, p := range found {
		idx.byAddress[n] = Label{Name: p.name, Address: p.addr, Line: p.line}
	}
	sort.Slice(idx.byAddress, func(a, b int) bool { return idx.byAddress[a].Address < idx.byAddress[b].Address })
	// Rebuild byName to point at post-sort indices.
	for n := range idx.byAddress {
		idx.byName[idx.byAddress[n].Name] = n
	}
	// Fill in Lines (distance to next label's line, or EOF).
	for n := range idx.byAddress {
		if n+1 < len(idx.byAddress) {
			idx.byAddress[n].Lines = idx.byAddress[n+1].Line - idx.byAddress[n].Line
		} else {
			idx.byAddress[n].Lines = line - idx.byAddress[n].Line + 1
		}
	}

	return idx, nil
}

func isLabelByte(c byte) bool {
	return c != '\n' && c != ' ' && c != '\t' && c != ':' && c != ';'
}

// ByName looks up a label case-insensitively. The leading '*' must not be
// included.
func (idx *LabelIndex) ByName(name string) (Label, bool) {
	i, ok := idx.byName[strings.ToLower(name)]
	if !ok {
		return Label{}, false
	}
	return idx.byAddress[i], true
}

// ByAddress returns the label whose range contains addr (the label with
// the greatest Address <= addr), using and populating the LRU cache.
func (idx *LabelIndex) ByAddress(addr int) (Label, bool) {
	if len(idx.byAddress) == 0 {
		return Label{}, false
	}
	if cached, ok := idx.addrCache.get(addr); ok {
		return idx.byAddress[cached], true
	}
	// Binary search for greatest Address <= addr.
	lo, hi := 0, len(idx.byAddress)-1
	best := -1
	for lo <= hi {
		mid := (lo + hi) / 2
		if idx.byAddress[mid].Address <= addr {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	if best < 0 {
		return Label{}, false
	}
	idx.addrCache.put(addr, best)
	return idx.byAddress[best], true
}

// ByLine returns the label whose range contains the given 0-based line.
func (idx *LabelIndex) ByLine(line int) (Label, bool) {
	if len(idx.byAddress) == 0 {
		return Label{}, false
	}
	if cached, ok := idx.lineCache.get(line); ok {
		return idx.byAddress[cached], true
	}
	lo, hi := 0, len(idx.byAddress)-1
	best := -1
	for lo <= hi {
		mid := (lo + hi) / 2
		if idx.byAddress[mid].Line <= line {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	if best < 0 {
		return Label{}, false
	}
	idx.lineCache.put(line, best)
	return idx.byAddress[best], true
}

// All returns every label in address order.
func (idx *LabelIndex) All() []Label { return idx.byAddress }
