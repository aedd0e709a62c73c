/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package jvm

import (
	"container/list"
	"fmt"
	"math"
	"strings"

	"github.com/marrowvm/marrow/classloader"
	"github.com/marrowvm/marrow/frames"
	"github.com/marrowvm/marrow/object"
)

// excReturn is a sentinel error type wrapping a thrown Java object, so
// findExceptionHandler (and ultimately an uncaught-exception report at
// the top level) can recover the original object rather than just a
// string.
type excReturn struct {
	Obj *object.Object
}

func (e *excReturn) Error() string {
	if e.Obj == nil {
		return "null pointer exception"
	}
	return e.Obj.ClassName()
}

func i32(v interface{}) int32 {
	switch n := v.(type) {
	case int32:
		return n
	case int64:
		return int32(n)
	case int:
		return int32(n)
	default:
		return 0
	}
}

func u16At(code []byte, pc int) int {
	return int(code[pc+1])<<8 | int(code[pc+2])
}

// executeOpcode runs the single instruction at f.PC. It returns the
// number of bytes to advance PC by (the instruction's own encoded
// length; 0 for a taken branch, which has already moved f.PC by its
// signed offset) on normal execution, -1 if the instruction returned from the
// method (the frame has already been popped and its result, if any,
// pushed to the caller), a non-nil err for an internal interpreter
// fault, or a non-nil exc for a thrown/propagating Java exception that
// the caller should match against f's exception table.
func executeOpcode(f *frames.Frame, fs *list.List) (advance int, err error, exc error) {
	op := f.Meth[f.PC]

	switch op {
	case opNop:
		return 1, nil, nil

	case opAconstNull:
		f.Push(nil)
		return 1, nil, nil

	case opIconstM1, opIconst0, opIconst1, opIconst2, opIconst3, opIconst4, opIconst5:
		f.Push(int64(int(op) - opIconst0))
		return 1, nil, nil

	case opLconst0, opLconst1:
		f.Push(int64(op - opLconst0))
		return 1, nil, nil

	case opFconst0, opFconst1, opFconst2:
		f.Push(float64(op - opFconst0))
		return 1, nil, nil

	case opDconst0, opDconst1:
		f.Push(float64(op - opDconst0))
		return 1, nil, nil

	case opBipush:
		v := int8(f.Meth[f.PC+1])
		f.Push(int64(v))
		return 2, nil, nil

	case opSipush:
		v := int16(u16At(f.Meth, f.PC))
		f.Push(int64(v))
		return 3, nil, nil

	case opLdc:
		idx := int(f.Meth[f.PC+1])
		f.Push(loadConstant(f.CP, idx))
		return 2, nil, nil

	case opLdcW, opLdc2W:
		idx := u16At(f.Meth, f.PC)
		f.Push(loadConstant(f.CP, idx))
		return 3, nil, nil

	case opIload, opLload, opFload, opDload, opAload:
		idx := int(f.Meth[f.PC+1])
		f.Push(f.Locals[idx])
		return 2, nil, nil

	case opIload0, opIload1, opIload2, opIload3:
		f.Push(f.Locals[int(op-opIload0)])
		return 1, nil, nil

	case opAload0, opAload1, opAload2, opAload3:
		f.Push(f.Locals[int(op-opAload0)])
		return 1, nil, nil

	case opIaload, opLaload, opFaload, opDaload, opAaload, opBaload, opCaload, opSaload:
		return 1, nil, arrayLoadOp(f)

	case opIstore, opLstore, opFstore, opDstore, opAstore:
		idx := int(f.Meth[f.PC+1])
		setLocal(f, idx, f.Pop())
		return 2, nil, nil

	case opIstore0, opIstore1, opIstore2, opIstore3:
		setLocal(f, int(op-opIstore0), f.Pop())
		return 1, nil, nil

	case opAstore0, opAstore1, opAstore2, opAstore3:
		setLocal(f, int(op-opAstore0), f.Pop())
		return 1, nil, nil

	case opIastore, opLastore, opFastore, opDastore, opAastore, opBastore, opCastore, opSastore:
		return 1, nil, arrayStoreOp(f, op)

	case opPop:
		f.Pop()
		return 1, nil, nil

	case opPop2:
		f.Pop()
		f.Pop()
		return 1, nil, nil

	case opDup:
		v := f.PeekTOS()
		f.Push(v)
		return 1, nil, nil

	case opSwap:
		a := f.Pop()
		b := f.Pop()
		f.Push(a)
		f.Push(b)
		return 1, nil, nil

	case opIadd:
		b, a := i32(f.Pop()), i32(f.Pop())
		f.Push(int64(a + b))
		return 1, nil, nil

	case opLadd:
		b, a := f.Pop().(int64), f.Pop().(int64)
		f.Push(a + b)
		return 1, nil, nil

	case opFadd, opDadd:
		b, a := f.Pop().(float64), f.Pop().(float64)
		f.Push(a + b)
		return 1, nil, nil

	case opIsub:
		b, a := i32(f.Pop()), i32(f.Pop())
		f.Push(int64(a - b))
		return 1, nil, nil

	case opImul:
		b, a := i32(f.Pop()), i32(f.Pop())
		f.Push(int64(a * b))
		return 1, nil, nil

	case opIdiv:
		b, a := i32(f.Pop()), i32(f.Pop())
		if b == 0 {
			return 0, nil, throwException("java/lang/ArithmeticException", "/ by zero")
		}
		f.Push(int64(a / b))
		return 1, nil, nil

	case opIrem:
		b, a := i32(f.Pop()), i32(f.Pop())
		if b == 0 {
			return 0, nil, throwException("java/lang/ArithmeticException", "/ by zero")
		}
		f.Push(int64(a % b))
		return 1, nil, nil

	case opIneg:
		f.Push(int64(-i32(f.Pop())))
		return 1, nil, nil

	case opLcmp:
		b, a := f.Pop().(int64), f.Pop().(int64)
		f.Push(int64(longCompare(a, b)))
		return 1, nil, nil

	case opFcmpl, opDcmpl:
		b, a := f.Pop().(float64), f.Pop().(float64)
		f.Push(int64(floatCompare(a, b, -1)))
		return 1, nil, nil

	case opFcmpg, opDcmpg:
		b, a := f.Pop().(float64), f.Pop().(float64)
		f.Push(int64(floatCompare(a, b, 1)))
		return 1, nil, nil

	case opIinc:
		idx := int(f.Meth[f.PC+1])
		delta := int8(f.Meth[f.PC+2])
		f.Locals[idx] = i32(f.Locals[idx]) + int32(delta)
		return 3, nil, nil

	case opIfeq, opIfne, opIflt, opIfge, opIfgt, opIfle:
		v := i32(f.Pop())
		if compareToZero(op, v) {
			f.PC += int(int16(u16At(f.Meth, f.PC)))
			return 0, nil, nil
		}
		return 3, nil, nil

	case opIfIcmpeq, opIfIcmpne, opIfIcmplt, opIfIcmpge, opIfIcmpgt, opIfIcmple:
		b, a := i32(f.Pop()), i32(f.Pop())
		if compareInts(op, a, b) {
			f.PC += int(int16(u16At(f.Meth, f.PC)))
			return 0, nil, nil
		}
		return 3, nil, nil

	case opIfAcmpeq, opIfAcmpne:
		b, a := f.Pop(), f.Pop()
		eq := a == b
		if (op == opIfAcmpeq) == eq {
			f.PC += int(int16(u16At(f.Meth, f.PC)))
			return 0, nil, nil
		}
		return 3, nil, nil

	case opIfnull, opIfnonnull:
		v := f.Pop()
		isNull := v == nil
		if (op == opIfnull) == isNull {
			f.PC += int(int16(u16At(f.Meth, f.PC)))
			return 0, nil, nil
		}
		return 3, nil, nil

	case opGoto:
		f.PC += int(int16(u16At(f.Meth, f.PC)))
		return 0, nil, nil

	case opIreturn, opFreturn:
		return popAndReturn(f, fs), nil, nil

	case opLreturn, opDreturn, opAreturn:
		return popAndReturn(f, fs), nil, nil

	case opReturn:
		frames.PopFrame(fs)
		return -1, nil, nil

	case opGetstatic:
		return 3, nil, executeGetstatic(f)

	case opPutstatic:
		return 3, nil, executePutstatic(f)

	case opGetfield:
		return 3, nil, executeGetfield(f)

	case opPutfield:
		return 3, nil, executePutfield(f)

	case opNew:
		idx := u16At(f.Meth, f.PC)
		className := classloader.GetClassNameFromCPclassref(f.CP, uint16(idx))
		obj, err := instantiateClass(className)
		if err != nil {
			return 0, nil, throwException("java/lang/NoClassDefFoundError", className)
		}
		f.Push(obj)
		return 3, nil, nil

	case opNewarray:
		atype := f.Meth[f.PC+1]
		count := i32(f.Pop())
		if count < 0 {
			return 0, nil, throwException("java/lang/NegativeArraySizeException", fmt.Sprintf("%d", count))
		}
		descriptor, ok := primitiveArrayDescriptor(atype)
		if !ok {
			return 0, fmt.Errorf("newarray: invalid atype 0x%02X at %s.%s pc=%d", atype, f.ClName, f.MethName, f.PC), nil
		}
		f.Push(object.NewPrimitiveArray(descriptor, int(count)))
		return 2, nil, nil

	case opAnewarray:
		idx := u16At(f.Meth, f.PC)
		className := classloader.GetClassNameFromCPclassref(f.CP, uint16(idx))
		count := i32(f.Pop())
		if count < 0 {
			return 0, nil, throwException("java/lang/NegativeArraySizeException", fmt.Sprintf("%d", count))
		}
		f.Push(object.NewReferenceArray(className, int(count)))
		return 3, nil, nil

	case opMultianewarray:
		idx := u16At(f.Meth, f.PC)
		dimensions := int(f.Meth[f.PC+3])
		descriptor := classloader.GetClassNameFromCPclassref(f.CP, uint16(idx))
		counts := make([]int, dimensions)
		for i := dimensions - 1; i >= 0; i-- {
			counts[i] = int(i32(f.Pop()))
		}
		for _, c := range counts {
			if c < 0 {
				return 0, nil, throwException("java/lang/NegativeArraySizeException", fmt.Sprintf("%d", c))
			}
		}
		arr, merr := newMultiArray(descriptor, counts)
		if merr != nil {
			return 0, merr, nil
		}
		f.Push(arr)
		return 4, nil, nil

	case opArraylength:
		arr, ok := f.Pop().(*object.Object)
		if !ok || arr == nil {
			return 0, nil, throwException("java/lang/NullPointerException", "")
		}
		f.Push(int64(object.ArrayLength(arr)))
		return 1, nil, nil

	case opAthrow:
		thrown := f.Pop()
		if thrown == nil {
			return 0, nil, throwException("java/lang/NullPointerException", "")
		}
		return 0, nil, &excReturn{Obj: thrown.(*object.Object)}

	case opInvokevirt, opInvokespec, opInvokestat:
		return 3, nil, executeInvoke(f, fs, op)

	case opInvokeintf:
		// index (2 bytes) + count (1 byte) + reserved zero byte
		return 5, nil, executeInvoke(f, fs, op)

	default:
		return 0, fmt.Errorf("executeOpcode: unimplemented opcode 0x%02X (%s) at %s.%s pc=%d",
			op, opcodeName(op), f.ClName, f.MethName, f.PC), nil
	}
}

func setLocal(f *frames.Frame, idx int, v interface{}) {
	for len(f.Locals) <= idx {
		f.Locals = append(f.Locals, nil)
	}
	f.Locals[idx] = v
}

func compareToZero(op byte, v int32) bool {
	switch op {
	case opIfeq:
		return v == 0
	case opIfne:
		return v != 0
	case opIflt:
		return v < 0
	case opIfge:
		return v >= 0
	case opIfgt:
		return v > 0
	case opIfle:
		return v <= 0
	}
	return false
}

func compareInts(op byte, a, b int32) bool {
	switch op {
	case opIfIcmpeq:
		return a == b
	case opIfIcmpne:
		return a != b
	case opIfIcmplt:
		return a < b
	case opIfIcmpge:
		return a >= b
	case opIfIcmpgt:
		return a > b
	case opIfIcmple:
		return a <= b
	}
	return false
}

// popAndReturn pops this frame, passing its single return value (if
// any) to the frame now exposed beneath it, matching JVMS 3.6's
// "invoke and return" value-passing convention.
func popAndReturn(f *frames.Frame, fs *list.List) int {
	var ret interface{}
	hasRet := f.TOS >= 0
	if hasRet {
		ret = f.Pop()
	}
	frames.PopFrame(fs)
	if caller := frames.PeekFrame(fs); caller != nil && hasRet {
		caller.Push(ret)
	}
	return -1
}

// loadConstant resolves a Ldc/Ldc_w/Ldc2_w operand through the current
// frame's constant pool into the Go value the interpreter's operand
// stack expects.
func loadConstant(cp *classloader.CPool, idx int) interface{} {
	entry := classloader.FetchCPentry(cp, idx)
	switch entry.RetType {
	case classloader.IS_INT64:
		return entry.IntVal
	case classloader.IS_FLOAT64:
		return entry.FloatVal
	case classloader.IS_STRING_ADDR:
		return object.StringObjectFromGoString(*entry.StringVal)
	default:
		return nil
	}
}

// longCompare implements JVMS 6.5 lcmp: -1, 0, or 1 with no NaN case to
// consider (longs have no unordered value).
func longCompare(a, b int64) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

// floatCompare implements the shared shape of JVMS 6.5 fcmpl/fcmpg/
// dcmpl/dcmpg (the float and double forms only differ in that the
// interpreter represents both as float64 on the operand stack):
// -1/0/1 for ordered operands, and nanResult (1 for the *g forms, -1
// for the *l forms) whenever either operand is NaN.
func floatCompare(a, b float64, nanResult int) int {
	if math.IsNaN(a) || math.IsNaN(b) {
		return nanResult
	}
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

// primitiveArrayDescriptor maps a newarray atype operand (JVMS 6.5's
// Table 6.5.newarray-A) to the one-dimensional array descriptor
// object.NewPrimitiveArray expects.
func primitiveArrayDescriptor(atype byte) (string, bool) {
	switch atype {
	case 4:
		return "[Z", true
	case 5:
		return "[C", true
	case 6:
		return "[F", true
	case 7:
		return "[D", true
	case 8:
		return "[B", true
	case 9:
		return "[S", true
	case 10:
		return "[I", true
	case 11:
		return "[J", true
	default:
		return "", false
	}
}

// arrayLoadOp implements the i/l/f/d/a/b/c/s-aload family (JVMS 6.5):
// pop index then arrayref, bounds-check, and push the element widened
// to the operand-stack representation the rest of the interpreter uses
// (int64 for every integral element type, float64 for float and
// double, the raw reference for aaload).
func arrayLoadOp(f *frames.Frame) error {
	idx := int(i32(f.Pop()))
	arr, ok := f.Pop().(*object.Object)
	if !ok || arr == nil {
		return throwException("java/lang/NullPointerException", "")
	}
	length := object.ArrayLength(arr)
	if idx < 0 || idx >= length {
		return throwException("java/lang/ArrayIndexOutOfBoundsException",
			fmt.Sprintf("Index %d out of bounds for length %d", idx, length))
	}
	fld := arr.FieldTable["value"]
	switch v := fld.Fvalue.(type) {
	case []int32:
		f.Push(int64(v[idx]))
	case []int64:
		f.Push(v[idx])
	case []float32:
		f.Push(float64(v[idx]))
	case []float64:
		f.Push(v[idx])
	case []bool:
		if v[idx] {
			f.Push(int64(1))
		} else {
			f.Push(int64(0))
		}
	case []uint16:
		f.Push(int64(v[idx]))
	case []int16:
		f.Push(int64(v[idx]))
	case []int8:
		f.Push(int64(v[idx]))
	case []*object.Object:
		f.Push(v[idx])
	default:
		return fmt.Errorf("arrayLoadOp: unsupported array element type %T", v)
	}
	return nil
}

// arrayStoreOp implements the i/l/f/d/a/b/c/s-astore family (JVMS 6.5):
// pop value, index, then arrayref (in that order -- value is on top),
// bounds-check, and narrow the stack-representation value back down to
// the array's backing element type. aastore defers to
// object.StoreReference for the assignment-compatibility check.
func arrayStoreOp(f *frames.Frame, op byte) error {
	value := f.Pop()
	idx := int(i32(f.Pop()))
	arr, ok := f.Pop().(*object.Object)
	if !ok || arr == nil {
		return throwException("java/lang/NullPointerException", "")
	}
	length := object.ArrayLength(arr)
	if idx < 0 || idx >= length {
		return throwException("java/lang/ArrayIndexOutOfBoundsException",
			fmt.Sprintf("Index %d out of bounds for length %d", idx, length))
	}

	if op == opAastore {
		var ref *object.Object
		if value != nil {
			ref = value.(*object.Object)
		}
		if err := object.StoreReference(arr, idx, ref); err != nil {
			return throwException("java/lang/ArrayStoreException", err.Error())
		}
		return nil
	}

	fld := arr.FieldTable["value"]
	switch v := fld.Fvalue.(type) {
	case []int32:
		v[idx] = i32(value)
	case []int64:
		v[idx] = value.(int64)
	case []float32:
		v[idx] = float32(value.(float64))
	case []float64:
		v[idx] = value.(float64)
	case []bool:
		v[idx] = i32(value) != 0
	case []uint16:
		v[idx] = uint16(i32(value))
	case []int16:
		v[idx] = int16(i32(value))
	case []int8:
		v[idx] = int8(i32(value))
	default:
		return fmt.Errorf("arrayStoreOp: unsupported array element type %T", v)
	}
	return nil
}

// elementClassNameFromDescriptor converts one level of an array type
// descriptor's component into the form object.NewReferenceArray expects:
// an array descriptor is passed through as-is, and an "L...;" object
// descriptor is unwrapped to its plain binary class name.
func elementClassNameFromDescriptor(d string) string {
	if strings.HasPrefix(d, "[") {
		return d
	}
	if strings.HasPrefix(d, "L") && strings.HasSuffix(d, ";") {
		return d[1 : len(d)-1]
	}
	return d
}

// newMultiArray implements multianewarray (JVMS 6.5): descriptor is the
// full array type (e.g. "[[I", "[[Ljava/lang/String;") and counts holds
// one length per requested dimension, outermost first. Dimensions of
// the type beyond len(counts) are left as the default nil element value,
// per spec, rather than eagerly allocated.
func newMultiArray(descriptor string, counts []int) (*object.Object, error) {
	if len(counts) == 0 || len(descriptor) < 2 || descriptor[0] != '[' {
		return nil, fmt.Errorf("multianewarray: invalid descriptor %q for %d dimensions", descriptor, len(counts))
	}
	count := counts[0]
	component := descriptor[1:]

	if len(counts) == 1 {
		switch component[0] {
		case '[', 'L':
			return object.NewReferenceArray(elementClassNameFromDescriptor(component), count), nil
		default:
			return object.NewPrimitiveArray(descriptor, count), nil
		}
	}

	arr := object.NewReferenceArray(elementClassNameFromDescriptor(component), count)
	slice := arr.FieldTable["value"].Fvalue.([]*object.Object)
	for i := range slice {
		sub, err := newMultiArray(component, counts[1:])
		if err != nil {
			return nil, err
		}
		slice[i] = sub
	}
	return arr, nil
}
