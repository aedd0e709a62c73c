/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package frames

import "testing"

func TestCreateFramePreSizesStackAndEmptyTOS(t *testing.T) {
	f := CreateFrame(8)
	if len(f.OpStack) != 8 {
		t.Errorf("expected OpStack len 8, got %d", len(f.OpStack))
	}
	if f.TOS != -1 {
		t.Errorf("expected TOS -1, got %d", f.TOS)
	}
}

func TestPushPopRoundTrip(t *testing.T) {
	f := CreateFrame(2)
	f.Push(int64(1))
	f.Push(int64(2))
	if got := f.Pop(); got != int64(2) {
		t.Errorf("expected 2, got %v", got)
	}
	if got := f.Pop(); got != int64(1) {
		t.Errorf("expected 1, got %v", got)
	}
	if f.TOS != -1 {
		t.Errorf("expected empty stack, TOS=%d", f.TOS)
	}
}

func TestPushGrowsBeyondInitialCapacity(t *testing.T) {
	f := CreateFrame(1)
	f.Push(int64(1))
	f.Push(int64(2))
	f.Push(int64(3))
	if f.Pop() != int64(3) || f.Pop() != int64(2) || f.Pop() != int64(1) {
		t.Error("push beyond initial capacity did not preserve order")
	}
}

func TestPopOnEmptyStackReturnsNil(t *testing.T) {
	f := CreateFrame(2)
	if f.Pop() != nil {
		t.Error("expected nil from popping an empty stack")
	}
}

func TestPeekTOSDoesNotRemove(t *testing.T) {
	f := CreateFrame(2)
	f.Push(int64(42))
	if got := f.PeekTOS(); got != int64(42) {
		t.Errorf("expected 42, got %v", got)
	}
	if f.TOS != 0 {
		t.Errorf("PeekTOS should not advance TOS, got %d", f.TOS)
	}
}

func TestPeekTOSOnEmptyStackReturnsNil(t *testing.T) {
	f := CreateFrame(2)
	if f.PeekTOS() != nil {
		t.Error("expected nil from peeking an empty stack")
	}
}

func TestPushPopFrameOrderingIsLIFO(t *testing.T) {
	fs := CreateFrameStack()
	first := CreateFrame(1)
	first.MethName = "first"
	second := CreateFrame(1)
	second.MethName = "second"

	if err := PushFrame(fs, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := PushFrame(fs, second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	top := PeekFrame(fs)
	if top.MethName != "second" {
		t.Errorf("expected second on top, got %s", top.MethName)
	}

	PopFrame(fs)
	top = PeekFrame(fs)
	if top.MethName != "first" {
		t.Errorf("expected first on top after pop, got %s", top.MethName)
	}
}

func TestPushFrameSetsFrameStackBackref(t *testing.T) {
	fs := CreateFrameStack()
	f := CreateFrame(1)
	if err := PushFrame(fs, f); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.FrameStack != fs {
		t.Error("expected Frame.FrameStack to point back at its stack")
	}
}

func TestPushFrameOnNilStackErrors(t *testing.T) {
	f := CreateFrame(1)
	if err := PushFrame(nil, f); err == nil {
		t.Error("expected error pushing onto a nil frame stack")
	}
}

func TestPeekAndPopFrameOnEmptyStack(t *testing.T) {
	fs := CreateFrameStack()
	if PeekFrame(fs) != nil {
		t.Error("expected nil from peeking an empty frame stack")
	}
	PopFrame(fs) // must not panic
}
