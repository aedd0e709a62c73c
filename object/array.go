/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package object

import (
	"fmt"

	"github.com/marrowvm/marrow/types"
)

// NewPrimitiveArray allocates a one-dimensional primitive array of the
// given descriptor ("[B", "[I", "[J", "[F", "[D", "[S", "[C", "[Z") and
// length, zero-filled per JVMS 2.5.3's default-value rule. Dispatch is a
// runtime switch over the element type code rather than per-type
// generated code, matching how the array's element type is only known
// at class-load/newarray time, not at compile time.
func NewPrimitiveArray(descriptor string, length int) *Object {
	arr := MakeObject(descriptor)
	elem := descriptor[1:]

	var fvalue interface{}
	switch elem {
	case types.Byte:
		fvalue = make([]types.JavaByte, length)
	case types.Bool:
		fvalue = make([]bool, length)
	case types.Char:
		fvalue = make([]uint16, length)
	case types.Short:
		fvalue = make([]int16, length)
	case types.Int:
		fvalue = make([]int32, length)
	case types.Long:
		fvalue = make([]int64, length)
	case types.Float:
		fvalue = make([]float32, length)
	case types.Double:
		fvalue = make([]float64, length)
	default:
		fvalue = make([]interface{}, length)
	}

	arr.FieldTable = map[string]*Field{
		"value": {Ftype: descriptor, Fvalue: fvalue},
	}
	return arr
}

// NewReferenceArray allocates a one-dimensional array of references to
// instances of elementClassName (or further arrays, if elementClassName
// itself is an array descriptor), zero-filled to nil per JVMS 2.5.3.
func NewReferenceArray(elementClassName string, length int) *Object {
	descriptor := "[" + refDescriptor(elementClassName)
	arr := MakeObject(descriptor)
	arr.FieldTable = map[string]*Field{
		"value": {Ftype: descriptor, Fvalue: make([]*Object, length)},
	}
	return arr
}

func refDescriptor(className string) string {
	if len(className) > 0 && className[0] == '[' {
		return className
	}
	return "L" + className + ";"
}

// ArrayLength returns the length of an array object's backing slice, or
// -1 if obj is not an array.
func ArrayLength(obj *Object) int {
	if obj == nil || obj.FieldTable == nil {
		return -1
	}
	f, ok := obj.FieldTable["value"]
	if !ok {
		return -1
	}
	switch v := f.Fvalue.(type) {
	case []types.JavaByte:
		return len(v)
	case []bool:
		return len(v)
	case []uint16:
		return len(v)
	case []int16:
		return len(v)
	case []int32:
		return len(v)
	case []int64:
		return len(v)
	case []float32:
		return len(v)
	case []float64:
		return len(v)
	case []*Object:
		return len(v)
	case []interface{}:
		return len(v)
	default:
		return -1
	}
}

// ErrArrayStore is returned by StoreReference when the value being
// stored is not assignment-compatible with the array's element type
// (JVMS aastore, ArrayStoreException).
type ErrArrayStore struct {
	ArrayType string
	ValueType string
}

func (e *ErrArrayStore) Error() string {
	return fmt.Sprintf("array of type %s cannot hold a value of type %s", e.ArrayType, e.ValueType)
}

// StoreReference stores value at index in a reference array, after a
// shallow assignment check: it accepts null, a value whose class name
// matches the array's element class exactly, or any value when the
// element class is java/lang/Object. The value's class hierarchy is not
// walked, so a subclass or an interface implementation of the element
// class is rejected with ErrArrayStore.
func StoreReference(arr *Object, index int, value *Object) error {
	f := arr.FieldTable["value"]
	slice, ok := f.Fvalue.([]*Object)
	if !ok {
		return &ErrArrayStore{ArrayType: f.Ftype, ValueType: "non-reference"}
	}
	if index < 0 || index >= len(slice) {
		return fmt.Errorf("array index %d out of bounds for length %d", index, len(slice))
	}
	if value != nil {
		elemDesc := f.Ftype[1:]
		if elemDesc != refDescriptor(value.ClassName()) && elemDesc != "Ljava/lang/Object;" {
			return &ErrArrayStore{ArrayType: f.Ftype, ValueType: value.ClassName()}
		}
	}
	slice[index] = value
	return nil
}
