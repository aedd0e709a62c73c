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
	"github.com/marrowvm/marrow/stringPool"
)

// insertFakeClass registers a minimal, already-"linked" Klass directly in
// the method area, bypassing the parser entirely -- adequate for testing
// the superclass-chain walks in this file without a real .class file.
func insertFakeClass(name, superName string) {
	var superIdx uint32
	if superName != "" {
		superIdx = stringPool.GetStringIndex(superName)
	}
	classloader.MethAreaInsert(name, &classloader.Klass{
		Status: 'L',
		Data: &classloader.ClData{
			Name:            name,
			SuperclassIndex: superIdx,
		},
	})
}

func TestIsSubtypeOfDirectMatch(t *testing.T) {
	classloader.InitMethodArea()
	insertFakeClass("java/lang/Exception", "")

	assert.True(t, isSubtypeOf("java/lang/Exception", "java/lang/Exception"))
}

func TestIsSubtypeOfWalksSuperclassChain(t *testing.T) {
	classloader.InitMethodArea()
	insertFakeClass("java/lang/Throwable", "")
	insertFakeClass("java/lang/Exception", "java/lang/Throwable")
	insertFakeClass("com/example/MyException", "java/lang/Exception")

	assert.True(t, isSubtypeOf("com/example/MyException", "java/lang/Exception"))
	assert.True(t, isSubtypeOf("com/example/MyException", "java/lang/Throwable"))
	assert.False(t, isSubtypeOf("com/example/MyException", "java/lang/RuntimeException"))
}

func TestIsSubtypeOfStopsAtUnloadedAncestor(t *testing.T) {
	classloader.InitMethodArea()
	insertFakeClass("com/example/Orphan", "com/example/NeverLoaded")

	assert.False(t, isSubtypeOf("com/example/Orphan", "java/lang/Exception"))
}

// cpWithOneClassRef builds a constant pool whose index 1 is a ClassRef
// resolving to className (index 1 -> ClassRefs[0], a CpIndex index of a
// Utf8 entry holding the name), matching what
// classloader.GetClassNameFromCPclassref expects to walk.
func cpWithOneClassRef(className string) *classloader.CPool {
	return &classloader.CPool{
		CpIndex: []classloader.CpEntry{
			{},                                    // index 0 unused
			{Type: classloader.ClassRef, Slot: 0}, // index 1 -> ClassRefs[0]
			{Type: classloader.UTF8, Slot: 0},     // index 2 -> Utf8Refs[0]
		},
		ClassRefs: []uint32{2},
		Utf8Refs:  []string{className},
	}
}

func TestFindExceptionHandlerMatchesExactCatchType(t *testing.T) {
	classloader.InitMethodArea()
	insertFakeClass("java/lang/Throwable", "")
	insertFakeClass("java/lang/Exception", "java/lang/Throwable")
	insertFakeClass("java/lang/ArithmeticException", "java/lang/Exception")

	f := frames.CreateFrame(4)
	f.CP = cpWithOneClassRef("java/lang/ArithmeticException")
	f.ExcTable = []classloader.CodeException{
		{StartPc: 0, EndPc: 10, HandlerPc: 20, CatchType: 1},
	}
	f.PC = 5

	exc := &excReturn{Obj: object.MakeObject("java/lang/ArithmeticException")}
	pc, found := findExceptionHandler(f, exc)
	assert.True(t, found)
	assert.Equal(t, 20, pc)
}

func TestFindExceptionHandlerMatchesSupertype(t *testing.T) {
	classloader.InitMethodArea()
	insertFakeClass("java/lang/Throwable", "")
	insertFakeClass("java/lang/Exception", "java/lang/Throwable")
	insertFakeClass("java/lang/ArithmeticException", "java/lang/Exception")

	f := frames.CreateFrame(4)
	f.CP = cpWithOneClassRef("java/lang/Exception")
	f.ExcTable = []classloader.CodeException{
		{StartPc: 0, EndPc: 10, HandlerPc: 20, CatchType: 1},
	}
	f.PC = 5

	exc := &excReturn{Obj: object.MakeObject("java/lang/ArithmeticException")}
	pc, found := findExceptionHandler(f, exc)
	assert.True(t, found)
	assert.Equal(t, 20, pc)
}

func TestFindExceptionHandlerRejectsUnrelatedCatchType(t *testing.T) {
	classloader.InitMethodArea()
	insertFakeClass("java/lang/Throwable", "")
	insertFakeClass("java/lang/Exception", "java/lang/Throwable")
	insertFakeClass("java/lang/RuntimeException", "java/lang/Exception")
	insertFakeClass("java/io/IOException", "java/lang/Exception")

	f := frames.CreateFrame(4)
	f.CP = cpWithOneClassRef("java/io/IOException")
	f.ExcTable = []classloader.CodeException{
		{StartPc: 0, EndPc: 10, HandlerPc: 20, CatchType: 1},
	}
	f.PC = 5

	exc := &excReturn{Obj: object.MakeObject("java/lang/RuntimeException")}
	_, found := findExceptionHandler(f, exc)
	assert.False(t, found)
}

func TestFindExceptionHandlerCatchAllMatchesAnyThrowable(t *testing.T) {
	classloader.InitMethodArea()
	insertFakeClass("java/lang/Throwable", "")
	insertFakeClass("java/lang/Exception", "java/lang/Throwable")

	f := frames.CreateFrame(4)
	f.ExcTable = []classloader.CodeException{
		{StartPc: 0, EndPc: 10, HandlerPc: 30, CatchType: 0},
	}
	f.PC = 2

	exc := &excReturn{Obj: object.MakeObject("java/lang/Exception")}
	pc, found := findExceptionHandler(f, exc)
	assert.True(t, found)
	assert.Equal(t, 30, pc)
}

func TestFindExceptionHandlerOutsideRangeNotFound(t *testing.T) {
	f := frames.CreateFrame(4)
	f.ExcTable = []classloader.CodeException{
		{StartPc: 0, EndPc: 10, HandlerPc: 30, CatchType: 0},
	}
	f.PC = 15

	exc := &excReturn{Obj: object.MakeObject("java/lang/Exception")}
	_, found := findExceptionHandler(f, exc)
	assert.False(t, found)
}
