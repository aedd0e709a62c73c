/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package jvm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marrowvm/marrow/classloader"
	"github.com/marrowvm/marrow/frames"
	"github.com/marrowvm/marrow/object"
)

// cpWithOneFieldRef builds a constant pool whose index 1 is a FieldRef
// resolving to className.fieldName:descriptor, the full indirection chain
// fieldRefInfo walks (FieldRef -> ClassRef -> Utf8, FieldRef -> NameAndType
// -> two Utf8 entries).
func cpWithOneFieldRef(className, fieldName, descriptor string) *classloader.CPool {
	return &classloader.CPool{
		CpIndex: []classloader.CpEntry{
			{},                                       // 0 unused
			{Type: classloader.FieldRef, Slot: 0},    // 1 -> FieldRefs[0]
			{Type: classloader.ClassRef, Slot: 0},    // 2 -> ClassRefs[0]
			{Type: classloader.UTF8, Slot: 0},        // 3 -> Utf8Refs[0] (class name)
			{Type: classloader.NameAndType, Slot: 0}, // 4 -> NameAndTypes[0]
			{Type: classloader.UTF8, Slot: 1},        // 5 -> Utf8Refs[1] (field name)
			{Type: classloader.UTF8, Slot: 2},        // 6 -> Utf8Refs[2] (descriptor)
		},
		FieldRefs:    []classloader.FieldRefEntry{{ClassIndex: 2, NameAndType: 4}},
		ClassRefs:    []uint32{3},
		NameAndTypes: []classloader.NameAndTypeEntry{{NameIndex: 5, DescIndex: 6}},
		Utf8Refs:     []string{className, fieldName, descriptor},
	}
}

func TestExecuteGetfieldReturnsFieldValue(t *testing.T) {
	f := frames.CreateFrame(4)
	f.CP = cpWithOneFieldRef("com/example/Point", "x", "I")
	f.Meth = []byte{opGetfield, 0, 1}

	obj := object.MakeObject("com/example/Point")
	obj.FieldTable["x"] = &object.Field{Ftype: "I", Fvalue: int64(7)}
	f.Push(obj)

	assert.NoError(t, executeGetfield(f))
	assert.Equal(t, int64(7), f.Pop())
}

func TestExecuteGetfieldMissingFieldPushesNil(t *testing.T) {
	f := frames.CreateFrame(4)
	f.CP = cpWithOneFieldRef("com/example/Point", "y", "I")
	f.Meth = []byte{opGetfield, 0, 1}

	obj := object.MakeObject("com/example/Point")
	f.Push(obj)

	assert.NoError(t, executeGetfield(f))
	assert.Nil(t, f.Pop())
}

func TestExecuteGetfieldNilReceiverThrowsNPE(t *testing.T) {
	f := frames.CreateFrame(4)
	f.CP = cpWithOneFieldRef("com/example/Point", "x", "I")
	f.Meth = []byte{opGetfield, 0, 1}
	f.Push(nil)

	err := executeGetfield(f)
	er, ok := err.(*excReturn)
	assert.True(t, ok)
	assert.Equal(t, "java/lang/NullPointerException", er.Obj.ClassName())
}

func TestExecutePutfieldSetsFieldValue(t *testing.T) {
	f := frames.CreateFrame(4)
	f.CP = cpWithOneFieldRef("com/example/Point", "x", "I")
	f.Meth = []byte{opPutfield, 0, 1}

	obj := object.MakeObject("com/example/Point")
	f.Push(obj)
	f.Push(int64(9))

	assert.NoError(t, executePutfield(f))
	assert.Equal(t, int64(9), obj.FieldTable["x"].Fvalue)
}

func TestExecutePutfieldNilReceiverThrowsNPE(t *testing.T) {
	f := frames.CreateFrame(4)
	f.CP = cpWithOneFieldRef("com/example/Point", "x", "I")
	f.Meth = []byte{opPutfield, 0, 1}
	f.Push(nil)
	f.Push(int64(9))

	err := executePutfield(f)
	er, ok := err.(*excReturn)
	assert.True(t, ok)
	assert.Equal(t, "java/lang/NullPointerException", er.Obj.ClassName())
}
