/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package gfunction is the native-method tier: Go implementations of the
// handful of java.* methods the interpreter can't (or needn't) run as
// bytecode -- either because the JDK itself declares them native
// (Thread.sleep, Object.registerNatives) or because reimplementing them
// in bytecode would just be reinventing a Go stdlib call (String's
// locale-aware comparisons, StringBuilder's buffer growth).
package gfunction

import "github.com/marrowvm/marrow/excNames"

// GFunction is the uniform signature every native method implementation
// carries, regardless of the Java signature it stands in for: a slice of
// already-popped argument values (the receiver first, for instance
// methods) in and a single return value out (nil for void).
type GFunction func(params []interface{}) interface{}

// GMeth is a native method's entry in MethodSignatures: how many operand
// stack slots the interpreter must pop off the caller before invoking it,
// and the Go function to run.
type GMeth struct {
	ParamSlots int
	GFunction  GFunction
}

// MethodSignatures maps "class/name.method(descriptor)" to its native
// implementation. Populated by each Load_* function below at package
// init time.
var MethodSignatures = make(map[string]GMeth)

func init() {
	Load_Lang_String()
	Load_Lang_StringBuilder()
	Load_Lang_Thread()
	Load_Util_HashMap()
	Load_Io_InputStreamReader()
	Load_Jdk_Internal_Misc_ScopedMemoryAccess()
}

// justReturn is the native implementation for methods whose entire
// contract, as far as marrow is concerned, is registering themselves
// with the VM and returning (Object.registerNatives and friends).
func justReturn(params []interface{}) interface{} {
	return nil
}

// trapFunction is the native implementation for signatures marrow
// recognizes but deliberately doesn't implement (locale-/charset-aware
// overloads with no Go stdlib equivalent worth reimplementing); it
// reports a clear UnsupportedOperationException instead of silently
// misbehaving or panicking.
func trapFunction(params []interface{}) interface{} {
	return getGErrBlk(excNames.UnsupportedOperationException, "method not implemented")
}

// FilePath and FileHandle are the FieldTable keys InputStream/Reader
// native methods use to stash the underlying os.File and its path on
// the Java-level object, alongside its declared Java fields.
const (
	FilePath   = "FilePath"
	FileHandle = "FileHandle"
)

// GErrBlk is what a native method returns in place of a normal value to
// signal that it wants a Java exception thrown rather than completing
// normally; runGmethod's caller recognizes this type and routes it
// through the interpreter's exception machinery instead of pushing it as
// a result.
type GErrBlk struct {
	ExceptionType excNames.JVMexception
	ErrMsg        string
}

func getGErrBlk(excType excNames.JVMexception, msg string) *GErrBlk {
	return &GErrBlk{ExceptionType: excType, ErrMsg: msg}
}

// MethodSignature looks up the native implementation registered for a
// fully qualified method, reporting whether one exists.
func MethodSignature(className, methodName, descriptor string) (GMeth, bool) {
	g, ok := MethodSignatures[className+"."+methodName+descriptor]
	return g, ok
}
