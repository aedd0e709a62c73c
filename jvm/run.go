/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package jvm is the execution tier: the bytecode interpreter, the
// frame-stack-driven call/return machinery, and the glue that lets the
// classloader tier trigger <clinit> execution (via
// classloader.RunInitializer) without an import cycle.
package jvm

import (
	"container/list"
	"fmt"

	"github.com/marrowvm/marrow/classloader"
	"github.com/marrowvm/marrow/frames"
	"github.com/marrowvm/marrow/gfunction"
	"github.com/marrowvm/marrow/object"
	"github.com/marrowvm/marrow/thread"
	"github.com/marrowvm/marrow/trace"
)

// MainThread is the JavaThread running the application's main() method.
// <clinit> execution (runJavaInitializer) deliberately runs its own,
// separate frame stack rather than pushing onto MainThread's, so a
// class being initialized mid-call doesn't entangle the two call
// chains; MainThread.Trace still governs whether that initializer code
// logs per-instruction detail. No code sets MainThread.Trace; the CLI's
// --trace flag sets the trace package's level instead.
var MainThread thread.JavaThread

func init() {
	MainThread = thread.CreateThread()
	classloader.RunInitializer = runClinitByName
}

// runClinitByName is installed into classloader.RunInitializer so the
// class-initialization state machine (classloader/init.go) can execute
// a class's <clinit> without the classloader package importing jvm.
func runClinitByName(className string) error {
	k := classloader.MethAreaFetch(className)
	if k == nil || k.Data == nil {
		return fmt.Errorf("runClinitByName: class %s not loaded", className)
	}
	fs := list.New()
	return runInitializationBlock(k, nil, fs)
}

// loadThisClass ensures className is present in the method area,
// loading it from the classpath if this is the first reference.
func loadThisClass(className string) error {
	if classloader.MethAreaFetch(className) != nil {
		return nil
	}
	return classloader.LoadClassFromNameOnly(className)
}

// RunMain loads className, runs its static initializers, and
// interprets its public static void main(String[]) method to
// completion, returning any uncaught error.
func RunMain(className string, args []string) error {
	if err := loadThisClass(className); err != nil {
		return err
	}
	if err := classloader.Initialize(className); err != nil {
		return fmt.Errorf("%s: %s", err.Kind, err.Message)
	}

	mt, err := classloader.FetchMethodAndCP(className, "main", "([Ljava/lang/String;)V")
	if err != nil {
		return err
	}

	MainThread.Stack = frames.CreateFrameStack()
	argsObj := stringArrayFromArgs(args)

	switch mt.MType {
	case 'G':
		runGmethod(mt, MainThread.Stack, className, "main", "([Ljava/lang/String;)V", []interface{}{argsObj}, false)
		return MainThread.ExecFailed
	case 'J':
		je := mt.Meth.(classloader.JmEntry)
		f := frames.CreateFrame(je.MaxStack + 2)
		f.MethName = "main"
		f.ClName = className
		f.CP = mt.Cp
		f.Meth = append([]byte(nil), je.Code...)
		f.ExcTable = je.CodeAttr.Exceptions
		f.Locals = append(f.Locals, argsObj)
		for j := 1; j < je.MaxLocals; j++ {
			f.Locals = append(f.Locals, nil)
		}
		if err := frames.PushFrame(MainThread.Stack, f); err != nil {
			return err
		}
		if rerr := runFrame(MainThread.Stack); rerr != nil {
			showFrameStack(&MainThread)
			return rerr
		}
	}
	return nil
}

func stringArrayFromArgs(args []string) *object.Object {
	arr := object.NewReferenceArray("java/lang/String", len(args))
	values := arr.FieldTable["value"].Fvalue.([]*object.Object)
	for i, a := range args {
		values[i] = object.StringObjectFromGoString(a)
	}
	return arr
}

// runGmethod invokes a native (Go-implemented) method by looking it up in
// gfunction's registry by its fully qualified signature. mt itself isn't
// consulted: the classloader can't import gfunction (gfunction already
// imports classloader), so it can only flag a method as native, not carry
// its native payload; this is where that payload actually gets resolved.
// A signature with no registered implementation logs a clear diagnostic
// and returns nil rather than panicking the interpreter.
func runGmethod(mt classloader.MTentry, fs *list.List, className, methodName, descriptor string, params []interface{}, async bool) interface{} {
	g, ok := gfunction.MethodSignature(className, methodName, descriptor)
	if !ok {
		trace.Warning(fmt.Sprintf("runGmethod: no native implementation registered for %s.%s%s", className, methodName, descriptor))
		return nil
	}
	if async {
		go g.GFunction(params)
		return nil
	}
	return g.GFunction(params)
}

// runFrame is the bytecode interpreter's outer loop: it runs the frame
// at the top of fs until it returns (popping itself and propagating its
// result to the caller frame beneath it) or an exception propagates out
// unhandled.
func runFrame(fs *list.List) error {
	f := frames.PeekFrame(fs)
	if f == nil {
		return fmt.Errorf("runFrame: empty frame stack")
	}

	for f.PC < len(f.Meth) {
		op := f.Meth[f.PC]
		if MainThread.Trace {
			trace.Trace(fmt.Sprintf("class: %-18s meth: %-12s pc: %03d, inst: %s",
				f.ClName, f.MethName, f.PC, opcodeName(op)))
		}

		advance, retErr, exc := executeOpcode(f, fs)
		if exc != nil {
			handlerPC, found := findExceptionHandler(f, exc)
			if !found {
				frames.PopFrame(fs)
				return exc
			}
			f.TOS = -1
			if er, ok := exc.(*excReturn); ok {
				f.Push(er.Obj)
			} else {
				f.Push(exc)
			}
			f.PC = handlerPC
			continue
		}
		if retErr != nil {
			frames.PopFrame(fs)
			return retErr
		}
		if advance < 0 {
			// method returned; frame has already been popped by
			// executeOpcode's return-opcode handling.
			return nil
		}
		f.PC += advance
	}
	return nil
}

// findExceptionHandler searches f's exception table for a handler whose
// range covers the PC the exception was thrown at AND whose CatchType
// (JVMS 2.10) either is the catch-all value (0) or names a class that is
// the thrown object's own class or one of its supertypes.
func findExceptionHandler(f *frames.Frame, exc error) (int, bool) {
	er, ok := exc.(*excReturn)
	if !ok || er.Obj == nil {
		for _, e := range f.ExcTable {
			if f.PC >= e.StartPc && f.PC < e.EndPc {
				return e.HandlerPc, true
			}
		}
		return 0, false
	}

	thrownClass := er.Obj.ClassName()
	for _, e := range f.ExcTable {
		if f.PC < e.StartPc || f.PC >= e.EndPc {
			continue
		}
		if e.CatchType == 0 {
			return e.HandlerPc, true
		}
		catchClass := classloader.GetClassNameFromCPclassref(f.CP, e.CatchType)
		if isSubtypeOf(thrownClass, catchClass) {
			return e.HandlerPc, true
		}
	}
	return 0, false
}

// isSubtypeOf reports whether class is catchClass or descends from it,
// walking the already-loaded superclass chain -- adequate for exception
// matching since every Throwable ancestor is a class, never an interface,
// so this needs none of ResolveField/ResolveMethodNonInterface's
// superinterface search.
func isSubtypeOf(class, catchClass string) bool {
	for cls := class; cls != ""; {
		if cls == catchClass {
			return true
		}
		k := classloader.MethAreaFetch(cls)
		if k == nil {
			return false
		}
		cls = classloader.SuperclassName(k)
	}
	return false
}
