/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package object

import "testing"

func TestNewPrimitiveArrayZeroFillsEachElementType(t *testing.T) {
	cases := []struct {
		descriptor string
		length     int
	}{
		{"[I", 3}, {"[J", 2}, {"[F", 2}, {"[D", 2},
		{"[B", 4}, {"[S", 2}, {"[C", 2}, {"[Z", 3},
	}
	for _, c := range cases {
		arr := NewPrimitiveArray(c.descriptor, c.length)
		if ArrayLength(arr) != c.length {
			t.Errorf("%s: expected length %d, got %d", c.descriptor, c.length, ArrayLength(arr))
		}
		if arr.FieldTable["value"].Ftype != c.descriptor {
			t.Errorf("%s: expected Ftype %s, got %s", c.descriptor, c.descriptor, arr.FieldTable["value"].Ftype)
		}
	}
}

func TestNewReferenceArrayDescriptorWrapsElementClass(t *testing.T) {
	arr := NewReferenceArray("java/lang/String", 5)
	if ArrayLength(arr) != 5 {
		t.Errorf("expected length 5, got %d", ArrayLength(arr))
	}
	if arr.FieldTable["value"].Ftype != "[Ljava/lang/String;" {
		t.Errorf("expected descriptor [Ljava/lang/String;, got %s", arr.FieldTable["value"].Ftype)
	}
}

func TestNewReferenceArrayOfArraysKeepsArrayDescriptor(t *testing.T) {
	arr := NewReferenceArray("[I", 2)
	if arr.FieldTable["value"].Ftype != "[[I" {
		t.Errorf("expected [[I, got %s", arr.FieldTable["value"].Ftype)
	}
}

func TestArrayLengthNonArrayObjectReturnsNegativeOne(t *testing.T) {
	obj := MakeObject("java/lang/Object")
	if ArrayLength(obj) != -1 {
		t.Errorf("expected -1 for non-array object, got %d", ArrayLength(obj))
	}
	if ArrayLength(nil) != -1 {
		t.Errorf("expected -1 for nil object")
	}
}

func TestStoreReferenceAcceptsMatchingClass(t *testing.T) {
	arr := NewReferenceArray("java/lang/String", 2)
	s := StringObjectFromGoString("hi")
	if err := StoreReference(arr, 0, s); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if arr.FieldTable["value"].Fvalue.([]*Object)[0] != s {
		t.Errorf("stored value not reflected in backing slice")
	}
}

func TestStoreReferenceAcceptsNil(t *testing.T) {
	arr := NewReferenceArray("java/lang/String", 1)
	if err := StoreReference(arr, 0, nil); err != nil {
		t.Errorf("unexpected error storing nil: %v", err)
	}
}

func TestStoreReferenceRejectsIncompatibleClass(t *testing.T) {
	arr := NewReferenceArray("java/lang/String", 1)
	badVal := MakeObject("java/lang/Integer")
	err := StoreReference(arr, 0, badVal)
	if err == nil {
		t.Fatal("expected ErrArrayStore, got nil")
	}
	if _, ok := err.(*ErrArrayStore); !ok {
		t.Errorf("expected *ErrArrayStore, got %T", err)
	}
}

func TestStoreReferenceOutOfBoundsErrors(t *testing.T) {
	arr := NewReferenceArray("java/lang/String", 1)
	s := StringObjectFromGoString("x")
	if err := StoreReference(arr, 5, s); err == nil {
		t.Error("expected out-of-bounds error, got nil")
	}
}

func TestStoreReferenceOnPrimitiveArrayErrors(t *testing.T) {
	arr := NewPrimitiveArray("[I", 2)
	err := StoreReference(arr, 0, MakeObject("java/lang/Object"))
	if err == nil {
		t.Fatal("expected error storing a reference into a primitive array")
	}
}
