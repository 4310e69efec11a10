// Package config parses the ambient configuration formats that travel
// alongside the scenario script itself: the bespoke `.cfg` line
// format (`ons.cfg` / `<script>.cfg`), INI sections (used by
// `loadreg`/`exec_dll`), and the `vnproject.toml` devkit manifest. The
// first two have no field-for-field match in any third-party ini/toml
// library (no comment-prefix pair, no `env[...]` namespace), so they
// are hand-rolled line scanners in the small-parser style used
// elsewhere for manual record readers; the project manifest instead
// uses BurntSushi/toml, the ecosystem library reached for whenever a
// human hand-edits a typed config file.
package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Cfg is the parsed result of an `ons.cfg`/`<script>.cfg` file: bare
// booleans (`registry`, `cdaudio`, ...), key=value pairs, and an
// `env[KEY]=VALUE` namespace a launcher uses to set process environment
// before forking into the core.
type Cfg struct {
	Bools map[string]bool
	Pairs map[string]string
	Env   map[string]string
}

// ParseCfg reads a `.cfg`-format stream: `;`/`#`-prefixed comment lines,
// blank lines, `key=value` assignments, `env[KEY]=VALUE` environment
// assignments, and bare tokens treated as boolean flags.
func ParseCfg(r io.Reader) (*Cfg, error) {
	c := &Cfg{Bools: map[string]bool{}, Pairs: map[string]string{}, Env: map[string]string{}}
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}
		if rest, ok := strings.CutPrefix(line, "env["); ok {
			key, value, ok := cutEnvAssignment(rest)
			if !ok {
				return nil, fmt.Errorf("cfg line %d: malformed env assignment %q", lineNo, line)
			}
			c.Env[key] = value
			continue
		}
		if key, value, ok := strings.Cut(line, "="); ok {
			c.Pairs[strings.TrimSpace(key)] = strings.TrimSpace(value)
			continue
		}
		c.Bools[line] = true
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

// cutEnvAssignment parses `KEY]=VALUE` (the text after `env[`).
func cutEnvAssignment(rest string) (key, value string, ok bool) {
	idx := strings.Index(rest, "]=")
	if idx < 0 {
		return "", "", false
	}
	return rest[:idx], rest[idx+2:], true
}

// Int reads a pair value as an integer, returning def if unset or
// unparseable.
func (c *Cfg) Int(key string, def int) int {
	v, ok := c.Pairs[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// String reads a pair value, returning def if unset.
func (c *Cfg) String(key, def string) string {
	if v, ok := c.Pairs[key]; ok {
		return v
	}
	return def
}

// Bool reports whether key was present as a bare boolean flag.
func (c *Cfg) Bool(key string) bool { return c.Bools[key] }
