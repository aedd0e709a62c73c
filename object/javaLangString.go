/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package object

// Java strings are immutable, but the class library still implements
// them as ordinary objects with a private byte[] "value" field (the
// Compact Strings representation introduced in JDK 9, JEP 254): Latin-1
// content is stored one byte per character, everything else falls back
// to UTF-16. marrow always stores the raw encoded bytes and leaves
// decoding to the gfunction bridge methods that need an actual Go
// string, since most String methods (length, charAt, indexOf) only
// need the bytes.

// NewStringObject returns an empty java.lang.String instance with its
// "value" field initialized to an empty byte slice.
func NewStringObject() *Object {
	str := MakeObject(stringClassName)
	str.FieldTable["value"] = &Field{Ftype: "[B", Fvalue: []byte{}}
	return str
}

// StringObjectFromGoString wraps a Go string as a java.lang.String
// instance.
func StringObjectFromGoString(s string) *Object {
	str := NewStringObject()
	str.FieldTable["value"].Fvalue = []byte(s)
	return str
}

// CreateCompactStringFromGoString is an alias of StringObjectFromGoString
// kept for callers that want to name the Compact Strings representation
// explicitly.
func CreateCompactStringFromGoString(s *string) *Object {
	if s == nil {
		return StringObjectFromGoString("")
	}
	return StringObjectFromGoString(*s)
}

// GoStringFromStringObject unwraps a java.lang.String instance's "value"
// field back to a Go string. Returns "" for nil or non-String objects.
func GoStringFromStringObject(obj *Object) string {
	if obj == nil || obj.FieldTable == nil {
		return ""
	}
	f, ok := obj.FieldTable["value"]
	if !ok {
		return ""
	}
	switch v := f.Fvalue.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	default:
		return ""
	}
}

// UpdateStringObjectFromBytes replaces a String instance's backing bytes
// in place, used by StringBuilder/StringBuffer conversions that build up
// a byte slice separately and then want an existing String object's
// identity to reflect the final contents.
func UpdateStringObjectFromBytes(obj *Object, bytes []byte) {
	if obj == nil {
		return
	}
	if obj.FieldTable == nil {
		obj.FieldTable = make(map[string]*Field)
	}
	obj.FieldTable["value"] = &Field{Ftype: "[B", Fvalue: bytes}
}

// ByteArrayFromStringObject returns the raw bytes backing a String
// instance.
func ByteArrayFromStringObject(obj *Object) []byte {
	if obj == nil || obj.FieldTable == nil {
		return nil
	}
	f, ok := obj.FieldTable["value"]
	if !ok {
		return nil
	}
	if b, ok := f.Fvalue.([]byte); ok {
		return b
	}
	return nil
}
