package config

import (
	"strings"
	"testing"
)

func TestParseCfgMixedForms(t *testing.T) {
	src := `; comment
registry
mode=window
env[LANG]=en_US
# another comment
cdaudio
`
	c, err := ParseCfg(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseCfg: %v", err)
	}
	if !c.Bool("registry") || !c.Bool("cdaudio") {
		t.Error("expected bare bools registry and cdaudio to be set")
	}
	if c.String("mode", "") != "window" {
		t.Errorf("mode = %q, want window", c.String("mode", ""))
	}
	if c.Env["LANG"] != "en_US" {
		t.Errorf("env[LANG] = %q, want en_US", c.Env["LANG"])
	}
}

func TestParseINISectionsAndQuotedValues(t *testing.T) {
	src := `[display]
width=800
title="My Game"

[audio]
volume=80
`
	doc, err := ParseINI(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseINI: %v", err)
	}
	if v, ok := doc.Get("display", "width"); !ok || v != "800" {
		t.Errorf("display.width = (%q,%v), want (800,true)", v, ok)
	}
	if v, ok := doc.Get("display", "title"); !ok || v != "My Game" {
		t.Errorf("display.title = (%q,%v), want (My Game,true)", v, ok)
	}
	if v, ok := doc.Get("audio", "volume"); !ok || v != "80" {
		t.Errorf("audio.volume = (%q,%v), want (80,true)", v, ok)
	}
}

func TestIntFallsBackToDefaultWhenUnparseable(t *testing.T) {
	c, err := ParseCfg(strings.NewReader("ramlimit=notanumber\n"))
	if err != nil {
		t.Fatalf("ParseCfg: %v", err)
	}
	if got := c.Int("ramlimit", 42); got != 42 {
		t.Errorf("Int fallback = %d, want 42", got)
	}
}
