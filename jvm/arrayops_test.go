/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package jvm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marrowvm/marrow/frames"
	"github.com/marrowvm/marrow/object"
)

func TestPrimitiveArrayDescriptor(t *testing.T) {
	cases := []struct {
		atype byte
		want  string
	}{
		{4, "[Z"}, {5, "[C"}, {6, "[F"}, {7, "[D"},
		{8, "[B"}, {9, "[S"}, {10, "[I"}, {11, "[J"},
	}
	for _, c := range cases {
		got, ok := primitiveArrayDescriptor(c.atype)
		assert.True(t, ok)
		assert.Equal(t, c.want, got)
	}

	_, ok := primitiveArrayDescriptor(0xFF)
	assert.False(t, ok)
}

func TestArrayLoadOpWidensIntTypes(t *testing.T) {
	f := frames.CreateFrame(4)
	arr := object.NewPrimitiveArray("[I", 3)
	arr.FieldTable["value"].Fvalue.([]int32)[1] = 42

	f.Push(arr)
	f.Push(int64(1))
	assert.NoError(t, arrayLoadOp(f))
	assert.Equal(t, int64(42), f.Pop())
}

func TestArrayLoadOpWidensFloatTypes(t *testing.T) {
	f := frames.CreateFrame(4)
	arr := object.NewPrimitiveArray("[F", 2)
	arr.FieldTable["value"].Fvalue.([]float32)[0] = 1.5

	f.Push(arr)
	f.Push(int64(0))
	assert.NoError(t, arrayLoadOp(f))
	assert.Equal(t, float64(float32(1.5)), f.Pop())
}

func TestArrayLoadOpBooleanWidensToIntZeroOrOne(t *testing.T) {
	f := frames.CreateFrame(4)
	arr := object.NewPrimitiveArray("[Z", 2)
	arr.FieldTable["value"].Fvalue.([]bool)[1] = true

	f.Push(arr)
	f.Push(int64(1))
	assert.NoError(t, arrayLoadOp(f))
	assert.Equal(t, int64(1), f.Pop())
}

func TestArrayLoadOpReferenceArray(t *testing.T) {
	f := frames.CreateFrame(4)
	arr := object.NewReferenceArray("java/lang/String", 2)
	s := object.StringObjectFromGoString("hi")
	arr.FieldTable["value"].Fvalue.([]*object.Object)[0] = s

	f.Push(arr)
	f.Push(int64(0))
	assert.NoError(t, arrayLoadOp(f))
	assert.Same(t, s, f.Pop().(*object.Object))
}

func TestArrayLoadOpOutOfBoundsThrows(t *testing.T) {
	f := frames.CreateFrame(4)
	arr := object.NewPrimitiveArray("[I", 2)

	f.Push(arr)
	f.Push(int64(5))
	err := arrayLoadOp(f)
	assert.Error(t, err)
	er, ok := err.(*excReturn)
	assert.True(t, ok)
	assert.Equal(t, "java/lang/ArrayIndexOutOfBoundsException", er.Obj.ClassName())
}

func TestArrayLoadOpNilArrayThrowsNPE(t *testing.T) {
	f := frames.CreateFrame(4)
	f.Push(nil)
	f.Push(int64(0))
	err := arrayLoadOp(f)
	er, ok := err.(*excReturn)
	assert.True(t, ok)
	assert.Equal(t, "java/lang/NullPointerException", er.Obj.ClassName())
}

func TestArrayStoreOpNarrowsIntTypes(t *testing.T) {
	f := frames.CreateFrame(4)
	arr := object.NewPrimitiveArray("[S", 3)

	f.Push(arr)
	f.Push(int64(2))
	f.Push(int64(1000))
	assert.NoError(t, arrayStoreOp(f, opSastore))
	assert.Equal(t, int16(1000), arr.FieldTable["value"].Fvalue.([]int16)[2])
}

func TestArrayStoreOpByteNarrowing(t *testing.T) {
	f := frames.CreateFrame(4)
	arr := object.NewPrimitiveArray("[B", 1)

	f.Push(arr)
	f.Push(int64(0))
	f.Push(int64(200)) // overflows a signed byte
	assert.NoError(t, arrayStoreOp(f, opBastore))
	assert.Equal(t, int8(int64(200)), arr.FieldTable["value"].Fvalue.([]int8)[0])
}

func TestArrayStoreOpReferenceAssignmentCompatible(t *testing.T) {
	f := frames.CreateFrame(4)
	arr := object.NewReferenceArray("java/lang/String", 2)
	s := object.StringObjectFromGoString("x")

	f.Push(arr)
	f.Push(int64(1))
	f.Push(s)
	assert.NoError(t, arrayStoreOp(f, opAastore))
	assert.Same(t, s, arr.FieldTable["value"].Fvalue.([]*object.Object)[1])
}

func TestArrayStoreOpReferenceIncompatibleThrowsArrayStoreException(t *testing.T) {
	f := frames.CreateFrame(4)
	arr := object.NewReferenceArray("java/lang/String", 1)
	badVal := object.MakeObject("java/lang/Integer")

	f.Push(arr)
	f.Push(int64(0))
	f.Push(badVal)
	err := arrayStoreOp(f, opAastore)
	er, ok := err.(*excReturn)
	assert.True(t, ok)
	assert.Equal(t, "java/lang/ArrayStoreException", er.Obj.ClassName())
}

func TestArrayStoreOpOutOfBoundsThrows(t *testing.T) {
	f := frames.CreateFrame(4)
	arr := object.NewPrimitiveArray("[I", 1)

	f.Push(arr)
	f.Push(int64(5))
	f.Push(int64(1))
	err := arrayStoreOp(f, opIastore)
	er, ok := err.(*excReturn)
	assert.True(t, ok)
	assert.Equal(t, "java/lang/ArrayIndexOutOfBoundsException", er.Obj.ClassName())
}

func TestLongCompare(t *testing.T) {
	assert.Equal(t, 1, longCompare(5, 3))
	assert.Equal(t, -1, longCompare(3, 5))
	assert.Equal(t, 0, longCompare(4, 4))
}

func TestFloatCompareOrdered(t *testing.T) {
	assert.Equal(t, 1, floatCompare(2.0, 1.0, 1))
	assert.Equal(t, -1, floatCompare(1.0, 2.0, -1))
	assert.Equal(t, 0, floatCompare(1.0, 1.0, 1))
}

func TestFloatCompareNaNUsesSuppliedSentinel(t *testing.T) {
	nan := math.NaN()
	assert.Equal(t, 1, floatCompare(nan, 1.0, 1))
	assert.Equal(t, -1, floatCompare(nan, 1.0, -1))
	assert.Equal(t, -1, floatCompare(1.0, nan, -1))
}

func TestElementClassNameFromDescriptor(t *testing.T) {
	assert.Equal(t, "java/lang/String", elementClassNameFromDescriptor("Ljava/lang/String;"))
	assert.Equal(t, "[I", elementClassNameFromDescriptor("[I"))
	assert.Equal(t, "I", elementClassNameFromDescriptor("I"))
}

func TestNewMultiArrayTwoDimensionalPrimitive(t *testing.T) {
	arr, err := newMultiArray("[[I", []int{2, 3})
	assert.NoError(t, err)
	assert.Equal(t, 2, object.ArrayLength(arr))

	rows := arr.FieldTable["value"].Fvalue.([]*object.Object)
	for _, row := range rows {
		assert.Equal(t, 3, object.ArrayLength(row))
	}
}

func TestNewMultiArrayPartialDimensionsLeaveDeeperLevelsNil(t *testing.T) {
	// Requesting only the outer dimension of a 2D array type leaves the
	// inner arrays unallocated (JVMS 6.5 multianewarray).
	arr, err := newMultiArray("[[Ljava/lang/String;", []int{2})
	assert.NoError(t, err)
	rows := arr.FieldTable["value"].Fvalue.([]*object.Object)
	assert.Len(t, rows, 2)
	for _, row := range rows {
		assert.Nil(t, row)
	}
}

func TestNewMultiArrayInvalidDescriptorRejected(t *testing.T) {
	_, err := newMultiArray("", []int{1})
	assert.Error(t, err)
}
