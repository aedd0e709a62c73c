/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package object implements the runtime object model (JVMS 2.7): the
// header every heap value carries, and the handful of instance shapes
// built on top of it -- ordinary class instances, reference arrays,
// primitive arrays, and the String special case the rest of the class
// library leans on constantly.
package object

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Header is the fixed-size prefix every heap object carries: a one-word
// identity hash (used by Object.hashCode() and by the default, identity
// form of equals()) and a monitor slot reserved for the locking
// implementation (unused for now -- marrow does not yet implement
// synchronized method/block entry, but the slot is here so adding it
// later doesn't change the object's shape).
type Header struct {
	Hash    uint32
	Monitor uintptr
}

var nextHash uint32

func newHash() uint32 {
	return atomic.AddUint32(&nextHash, 1)
}

// Field is one field slot of an object instance: its descriptor (JVMS
// 4.3.2) and its current value. Fvalue holds a Go value whose dynamic
// type matches Ftype: int64 for B/C/S/I/J, float64 for F/D, bool for Z,
// []byte for a String's internal buffer, []types.JavaByte/[]int32/...
// for primitive arrays, or *Object for a reference.
type Field struct {
	Ftype  string
	Fvalue interface{}
}

// Object is the runtime representation of every class instance and
// array. Klass names the class this object is an instance of (nil for
// values that predate a class being loaded, e.g. bootstrapping). Fields
// holds the instance fields as jvm.instantiateClass set them up,
// superclass fields first (within one class the order is not defined);
// FieldTable holds copies of them keyed by name and is what
// getfield/putfield and native (gfunction) code read and write, so later
// writes are not reflected in Fields.
type Object struct {
	Klass      *string
	Mark       Header
	Fields     []Field
	FieldTable map[string]*Field
}

// MakeEmptyObject returns a new Object with no class name set yet and
// an empty field table, the shape callers build up incrementally before
// Klass is known (class loading, hidden classes) or as a scratch object
// in tests.
func MakeEmptyObject() *Object {
	return &Object{
		Mark:       Header{Hash: newHash()},
		FieldTable: make(map[string]*Field),
	}
}

// MakeObject returns a new instance of the named class with an empty
// field table; instance fields are populated by the class-instantiation
// path (jvm.instantiateClass) once the class's own Fields have been
// walked.
func MakeObject(className string) *Object {
	obj := MakeEmptyObject()
	obj.Klass = &className
	return obj
}

// ClassName returns the object's class name, or "" if unset.
func (o *Object) ClassName() string {
	if o == nil || o.Klass == nil {
		return ""
	}
	return *o.Klass
}

// IsStringObject reports whether o is an instance of java.lang.String.
func (o *Object) IsStringObject() bool {
	return o != nil && o.Klass != nil && *o.Klass == stringClassName
}

const stringClassName = "java/lang/String"

// ToString renders the object for display/logging purposes: a String
// instance renders as its Go string contents; anything else renders as
// "className: field=value, ...", good enough for trace output and test
// assertions, not meant to match java.lang.Object.toString()'s default
// "class@hexhash" exactly since callers needing that format call the
// gfunction-level Object.toString() bridge instead.
func (o *Object) ToString() string {
	if o == nil {
		return "null"
	}
	if o.IsStringObject() {
		return GoStringFromStringObject(o)
	}

	var sb strings.Builder
	sb.WriteString(o.ClassName())
	sb.WriteString(": ")

	wrote := false
	for name, f := range o.FieldTable {
		if wrote {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s=%v", name, f.Fvalue)
		wrote = true
	}
	for i, f := range o.Fields {
		if wrote {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "field%d=%v", i, f.Fvalue)
		wrote = true
	}
	return sb.String()
}
