package dialogue

import (
	"testing"

	"scenario-vn-core/internal/scheduler"
)

func TestParseSplitsTextClickstopsAndPipes(t *testing.T) {
	segs := Parse("Hello@World|Again!w100!s5{color:ff0000}tail")
	wantKinds := []SegmentKind{SegText, SegClickstop, SegText, SegPipe, SegText, SegInlineWait, SegInlineSpeed, SegInlineCmd, SegText}
	if len(segs) != len(wantKinds) {
		t.Fatalf("got %d segments, want %d: %+v", len(segs), len(wantKinds), segs)
	}
	for i, k := range wantKinds {
		if segs[i].Kind != k {
			t.Errorf("segment %d kind = %v, want %v", i, segs[i].Kind, k)
		}
	}
	if segs[5].Ms != 100 {
		t.Errorf("!w100 parsed Ms = %d, want 100", segs[5].Ms)
	}
	if segs[6].Ms != 5 {
		t.Errorf("!s5 parsed Ms = %d, want 5", segs[6].Ms)
	}
	if segs[7].Cmd != "color" || len(segs[7].Args) != 1 || segs[7].Args[0] != "ff0000" {
		t.Errorf("inline cmd = %+v, want color:ff0000", segs[7])
	}
}

func TestEmitTracksBarrierCrossingsAndWaitOnDialogue(t *testing.T) {
	c := New(scheduler.New(), nil)
	if err := c.Emit("one|two|three"); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if err := c.WaitOnDialogue(0); err != nil {
		t.Errorf("WaitOnDialogue(0): %v", err)
	}
	if err := c.WaitOnDialogue(1); err != nil {
		t.Errorf("WaitOnDialogue(1): %v", err)
	}
	if err := c.WaitOnDialogue(0); err == nil {
		t.Error("expected an error calling waitOnDialogue past the crossed count")
	}
}

func TestEmitRejectsUnknownInlineCommandWithoutHandler(t *testing.T) {
	c := New(scheduler.New(), nil)
	if err := c.Emit("{definetext:foo}"); err == nil {
		t.Error("expected an error for an unrecognized inline command with no OnUnknownCmd hook")
	}
}

func TestEmitDelegatesUnknownInlineCommand(t *testing.T) {
	c := New(scheduler.New(), nil)
	var gotCmd string
	var gotArgs []string
	c.OnUnknownCmd = func(cmd string, args []string) error {
		gotCmd, gotArgs = cmd, args
		return nil
	}
	if err := c.Emit("{mytext:a:b}"); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if gotCmd != "mytext" || len(gotArgs) != 2 || gotArgs[0] != "a" || gotArgs[1] != "b" {
		t.Errorf("OnUnknownCmd got (%q, %v)", gotCmd, gotArgs)
	}
}

func TestClickPartCountsAccumulate(t *testing.T) {
	c := New(scheduler.New(), nil)
	if err := c.Emit("abc@de@f"); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	counts := c.ClickPartCounts()
	if len(counts) != 2 || counts[0] != 3 || counts[1] != 2 {
		t.Errorf("ClickPartCounts() = %v, want [3 2]", counts)
	}
}

func TestDrainEventsReturnsLineCompleteAndClears(t *testing.T) {
	c := New(scheduler.New(), nil)
	if err := c.Emit("hi"); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	events := c.DrainEvents()
	if len(events) == 0 || events[len(events)-1].Kind != EventLineComplete {
		t.Fatalf("events = %+v, want a trailing EventLineComplete", events)
	}
	if more := c.DrainEvents(); len(more) != 0 {
		t.Errorf("second DrainEvents() = %+v, want empty", more)
	}
}
