/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package object

import "testing"

func TestObjectToString1(t *testing.T) {
	obj := MakeObject("java/lang/madeUpClass")

	obj.FieldTable["myFloat"] = &Field{Ftype: "F", Fvalue: 1.0}
	obj.FieldTable["myDouble"] = &Field{Ftype: "D", Fvalue: 2.0}
	obj.FieldTable["myInt"] = &Field{Ftype: "I", Fvalue: int64(42)}
	obj.FieldTable["myLong"] = &Field{Ftype: "J", Fvalue: int64(42)}
	obj.FieldTable["myShort"] = &Field{Ftype: "S", Fvalue: int64(42)}
	obj.FieldTable["myByte"] = &Field{Ftype: "B", Fvalue: int64(0x61)}
	obj.FieldTable["myFalse"] = &Field{Ftype: "Z", Fvalue: false}
	obj.FieldTable["myChar"] = &Field{Ftype: "C", Fvalue: int64('C')}
	obj.FieldTable["myString"] = &Field{Ftype: "Ljava/lang/String;", Fvalue: "Hello, Unka Andoo !"}

	str := obj.ToString()
	if len(str) == 0 {
		t.Errorf("empty string for object.ToString()")
	}
}

func TestObjectToString2(t *testing.T) {
	literal := "This is a compact string from a Go string"
	csObj := CreateCompactStringFromGoString(&literal)
	if csObj.ToString() != literal {
		t.Errorf("expected %q, got %q", literal, csObj.ToString())
	}

	obj := MakeObject("java/lang/madeUpClass")
	obj.Fields = append(obj.Fields, Field{Ftype: "F", Fvalue: 1.0})
	if len(obj.ToString()) == 0 {
		t.Errorf("empty string for object.ToString()")
	}

	obj.Fields[0] = Field{Ftype: "J", Fvalue: int64(42)}
	if len(obj.ToString()) == 0 {
		t.Errorf("empty string for object.ToString()")
	}
}

func TestStringObjectRoundTrip(t *testing.T) {
	obj := StringObjectFromGoString("hello")
	if GoStringFromStringObject(obj) != "hello" {
		t.Errorf("expected hello, got %q", GoStringFromStringObject(obj))
	}
	if !obj.IsStringObject() {
		t.Error("expected IsStringObject to be true")
	}

	UpdateStringObjectFromBytes(obj, []byte("world"))
	if GoStringFromStringObject(obj) != "world" {
		t.Errorf("expected world, got %q", GoStringFromStringObject(obj))
	}
}

func TestJavaByteArrayConversions(t *testing.T) {
	s := "abc"
	jb := JavaByteArrayFromGoString(s)
	if GoStringFromJavaByteArray(jb) != s {
		t.Errorf("round-trip failed: got %q", GoStringFromJavaByteArray(jb))
	}
	if !JavaByteArrayEquals(jb, JavaByteArrayFromGoString(s)) {
		t.Error("expected equal byte arrays")
	}
}
