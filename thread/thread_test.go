/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package thread

import "testing"

func TestCreateThreadInitializesFrameStack(t *testing.T) {
	th := CreateThread()
	if th.Stack == nil {
		t.Fatal("expected a non-nil frame stack")
	}
	if th.Stack.Len() != 0 {
		t.Errorf("expected an empty frame stack, got len %d", th.Stack.Len())
	}
}

func TestCreateThreadAssignsUniqueIncreasingIDs(t *testing.T) {
	a := CreateThread()
	b := CreateThread()
	if a.ID == b.ID {
		t.Errorf("expected distinct thread IDs, both got %d", a.ID)
	}
	if b.ID <= a.ID {
		t.Errorf("expected monotonically increasing IDs, got %d then %d", a.ID, b.ID)
	}
}

func TestNewThreadHasNoPendingExceptionOrFailure(t *testing.T) {
	th := CreateThread()
	if th.PendingException != nil {
		t.Error("expected no pending exception on a freshly created thread")
	}
	if th.ExecFailed != nil {
		t.Error("expected no exec failure on a freshly created thread")
	}
}
