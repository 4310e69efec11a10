package eval

import (
	"testing"
	"time"

	"scenario-vn-core/internal/skip"
)

// fakePropertyHost records every call it receives, standing in for
// internal/engine's real property bridge (eval cannot import engine: the
// wiring runs the other way).
type fakePropertyHost struct {
	setSpriteNo       int
	setSpriteProp     string
	setSpriteValue    float64
	setSpriteDuration time.Duration
	setSpriteEquation int
	setSpriteOverride bool

	setGlobalProp     string
	setGlobalChannel  int
	setGlobalValue    float64
	setGlobalDuration time.Duration
	setGlobalEquation int
	setGlobalOverride bool

	spriteValue float64
	globalValue float64

	waitedSpriteNo   int
	waitedSpriteProp string
	waitedGlobal     string
	waitedChannel    int
}

func (f *fakePropertyHost) SetSpriteProperty(no int, prop string, value float64, duration time.Duration, equation int, override bool) error {
	f.setSpriteNo, f.setSpriteProp, f.setSpriteValue = no, prop, value
	f.setSpriteDuration, f.setSpriteEquation, f.setSpriteOverride = duration, equation, override
	return nil
}

func (f *fakePropertyHost) SetGlobalProperty(prop string, channel int, value float64, duration time.Duration, equation int, override bool) error {
	f.setGlobalProp, f.setGlobalChannel, f.setGlobalValue = prop, channel, value
	f.setGlobalDuration, f.setGlobalEquation, f.setGlobalOverride = duration, equation, override
	return nil
}

func (f *fakePropertyHost) SpritePropertyValue(no int, prop string) (float64, error) {
	return f.spriteValue, nil
}

func (f *fakePropertyHost) GlobalPropertyValue(prop string, channel int) (float64, error) {
	return f.globalValue, nil
}

func (f *fakePropertyHost) WaitOnSpriteProperty(no int, prop string) error {
	f.waitedSpriteNo, f.waitedSpriteProp = no, prop
	return nil
}

func (f *fakePropertyHost) WaitOnGlobalProperty(prop string, channel int) error {
	f.waitedGlobal, f.waitedChannel = prop, channel
	return nil
}

func TestAsptDispatchesAbsoluteTween(t *testing.T) {
	ev := newHarness(t, "aspt 1,x,50,200\n")
	host := &fakePropertyHost{}
	ev.Hosts.Property = host
	if err := ev.Run(10); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if host.setSpriteNo != 1 || host.setSpriteProp != "x" || host.setSpriteValue != 50 {
		t.Errorf("SetSpriteProperty(%d, %q, %v, ...)", host.setSpriteNo, host.setSpriteProp, host.setSpriteValue)
	}
	if host.setSpriteDuration != 200*time.Millisecond {
		t.Errorf("duration = %v, want 200ms", host.setSpriteDuration)
	}
	if host.setSpriteEquation != 0 || host.setSpriteOverride {
		t.Errorf("equation/override = %d/%v, want 0/false (defaults)", host.setSpriteEquation, host.setSpriteOverride)
	}
}

func TestSptAddsDeltaToCurrentValue(t *testing.T) {
	ev := newHarness(t, "spt 1,x,5,100\n")
	host := &fakePropertyHost{spriteValue: 10}
	ev.Hosts.Property = host
	if err := ev.Run(10); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if host.setSpriteValue != 15 {
		t.Errorf("SetSpriteProperty value = %v, want 15 (10 current + 5 delta)", host.setSpriteValue)
	}
}

func TestAgptWithEquationAndOverride(t *testing.T) {
	ev := newHarness(t, "agpt volume,0,80,500,2,1\n")
	host := &fakePropertyHost{}
	ev.Hosts.Property = host
	if err := ev.Run(10); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if host.setGlobalProp != "volume" || host.setGlobalChannel != 0 || host.setGlobalValue != 80 {
		t.Errorf("SetGlobalProperty(%q, %d, %v)", host.setGlobalProp, host.setGlobalChannel, host.setGlobalValue)
	}
	if host.setGlobalEquation != 2 || !host.setGlobalOverride {
		t.Errorf("equation/override = %d/%v, want 2/true", host.setGlobalEquation, host.setGlobalOverride)
	}
}

func TestGptUsesCurrentGlobalValue(t *testing.T) {
	ev := newHarness(t, "gpt volume,1,-10,100\n")
	host := &fakePropertyHost{globalValue: 60}
	ev.Hosts.Property = host
	if err := ev.Run(10); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if host.setGlobalValue != 50 {
		t.Errorf("SetGlobalProperty value = %v, want 50 (60 current - 10 delta)", host.setGlobalValue)
	}
	if host.setGlobalChannel != 1 {
		t.Errorf("channel = %d, want 1", host.setGlobalChannel)
	}
}

func TestWaitOnSpritePropertyDispatches(t *testing.T) {
	ev := newHarness(t, "waitonspriteproperty 3,opacity\n")
	host := &fakePropertyHost{}
	ev.Hosts.Property = host
	if err := ev.Run(10); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if host.waitedSpriteNo != 3 || host.waitedSpriteProp != "opacity" {
		t.Errorf("WaitOnSpriteProperty(%d, %q)", host.waitedSpriteNo, host.waitedSpriteProp)
	}
}

func TestWaitOnGlobalPropertyDispatches(t *testing.T) {
	ev := newHarness(t, "waitonglobalproperty volume,2\n")
	host := &fakePropertyHost{}
	ev.Hosts.Property = host
	if err := ev.Run(10); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if host.waitedGlobal != "volume" || host.waitedChannel != 2 {
		t.Errorf("WaitOnGlobalProperty(%q, %d)", host.waitedGlobal, host.waitedChannel)
	}
}

func TestWaitZeroReturnsImmediately(t *testing.T) {
	ev := newHarness(t, "wait 0\n")
	ev.Hosts.Skip = skip.New()
	start := time.Now()
	if err := ev.Run(10); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("wait 0 took %v, want near-instant", elapsed)
	}
}

func TestWaitUnderSuperSkipIgnoresMagnitude(t *testing.T) {
	ev := newHarness(t, "wait 100000\n")
	s := skip.New()
	if err := s.EnterSuperSkip(); err != nil {
		t.Fatalf("EnterSuperSkip: %v", err)
	}
	ev.Hosts.Skip = s
	start := time.Now()
	if err := ev.Run(10); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("wait under super-skip took %v, want near-instant regardless of magnitude", elapsed)
	}
}

func TestWaitUnderOrdinarySkipShrinksToWithinBudget(t *testing.T) {
	ev := newHarness(t, "wait 5000\n")
	s := skip.New()
	if err := s.EnterSkip(); err != nil {
		t.Fatalf("EnterSkip: %v", err)
	}
	ev.Hosts.Skip = s
	start := time.Now()
	if err := ev.Run(10); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("wait 5000 under ordinary skip took %v, want <= 500ms", elapsed)
	}
}

func TestDelayShrinksToZeroUnderSkip(t *testing.T) {
	ev := newHarness(t, "delay 500\n")
	s := skip.New()
	if err := s.EnterSkip(); err != nil {
		t.Fatalf("EnterSkip: %v", err)
	}
	ev.Hosts.Skip = s
	start := time.Now()
	if err := ev.Run(10); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("delay under skip took %v, want near-instant (shrinks to 0)", elapsed)
	}
}
