package config

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// INI is a parsed INI document: `[section]` headers followed by
// `key="value"` or `key=value` assignments, as `loadreg`/`exec_dll`
// consume for Windows-registry-style lookups.
type INI struct {
	sections map[string]map[string]string
}

// ParseINI reads an INI-format stream.
func ParseINI(r io.Reader) (*INI, error) {
	doc := &INI{sections: map[string]map[string]string{"": {}}}
	section := ""
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			end := strings.IndexByte(line, ']')
			if end < 0 {
				return nil, fmt.Errorf("ini line %d: unterminated section header %q", lineNo, line)
			}
			section = strings.TrimSpace(line[1:end])
			if doc.sections[section] == nil {
				doc.sections[section] = map[string]string{}
			}
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("ini line %d: expected key=value, got %q", lineNo, line)
		}
		value = strings.TrimSpace(value)
		value = strings.TrimSuffix(strings.TrimPrefix(value, `"`), `"`)
		doc.sections[section][strings.TrimSpace(key)] = value
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Get reads a key from the given section ("" for keys before any
// header).
func (d *INI) Get(section, key string) (string, bool) {
	s, ok := d.sections[section]
	if !ok {
		return "", false
	}
	v, ok := s[key]
	return v, ok
}

// Sections returns the document's section names, excluding the
// top-level "" section.
func (d *INI) Sections() []string {
	var out []string
	for name := range d.sections {
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}
