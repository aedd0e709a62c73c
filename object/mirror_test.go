/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package object

import "testing"

func TestNewClassMirrorRoundTrip(t *testing.T) {
	mirror := NewClassMirror("java/lang/String")
	if mirror.ClassName() != "java/lang/Class" {
		t.Errorf("expected java/lang/Class, got %s", mirror.ClassName())
	}
	if got := MirroredClassName(mirror); got != "java/lang/String" {
		t.Errorf("expected java/lang/String, got %s", got)
	}
}

func TestMirroredClassNameNonMirrorReturnsEmpty(t *testing.T) {
	obj := MakeObject("java/lang/Object")
	if got := MirroredClassName(obj); got != "" {
		t.Errorf("expected empty string for non-mirror object, got %q", got)
	}
	if got := MirroredClassName(nil); got != "" {
		t.Errorf("expected empty string for nil object, got %q", got)
	}
}
