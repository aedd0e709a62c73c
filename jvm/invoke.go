/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package jvm

import (
	"container/list"
	"fmt"

	"github.com/marrowvm/marrow/classloader"
	"github.com/marrowvm/marrow/excNames"
	"github.com/marrowvm/marrow/frames"
	"github.com/marrowvm/marrow/gfunction"
	"github.com/marrowvm/marrow/object"
	"github.com/marrowvm/marrow/util"
)

// methodRefInfo resolves a MethodRef/InterfaceRef CP entry to the
// class/name/descriptor triple invocation needs, reusing
// CPutils.GetMethInfoFromCPmethref for the MethodRef case and falling
// back to a parallel walk for InterfaceMethodref (a distinct CP tag
// with an identical layout).
func methodRefInfo(cp *classloader.CPool, cpIndex int) (className, methodName, descriptor string) {
	entry := cp.CpIndex[cpIndex]
	if entry.Type == classloader.MethodRef {
		return classloader.GetMethInfoFromCPmethref(cp, cpIndex)
	}

	ir := cp.InterfaceRefs[entry.Slot]
	classEntry := cp.CpIndex[ir.ClassIndex]
	classRefIdx := cp.ClassRefs[classEntry.Slot]
	className = classloader.FetchUTF8stringFromCPEntryNumber(cp, classRefIdx)

	natEntry := cp.CpIndex[ir.NameAndType]
	nat := cp.NameAndTypes[natEntry.Slot]
	methodName = cp.Utf8Refs[cp.CpIndex[nat.NameIndex].Slot]
	descriptor = cp.Utf8Refs[cp.CpIndex[nat.DescIndex].Slot]
	return
}

// executeInvoke dispatches invokestatic/invokespecial/invokevirtual/
// invokeinterface: it resolves the call target, pops the receiver (for
// every form but invokestatic) and the declared arguments off the
// caller's operand stack, and pushes a new frame (or runs a native
// method directly) for the callee.
func executeInvoke(f *frames.Frame, fs *list.List, op byte) error {
	idx := u16At(f.Meth, f.PC)
	className, methodName, descriptor := methodRefInfo(f.CP, idx)

	var receiver *object.Object
	argTypes := util.ParseIncomingParamsFromMethTypeString(descriptor)
	args := make([]interface{}, len(argTypes))
	for i := len(argTypes) - 1; i >= 0; i-- {
		args[i] = f.Pop()
	}

	if op != opInvokestat {
		recv := f.Pop()
		if recv == nil {
			return throwException("java/lang/NullPointerException", methodName)
		}
		receiver = recv.(*object.Object)
		if op == opInvokevirt || op == opInvokeintf {
			className = receiver.ClassName()
		}
	}

	var mt classloader.MTentry
	var rerr error
	definingClass := className

	if op == opInvokevirt || op == opInvokeintf {
		// JVMS 5.4.6: dispatch on the receiver's actual runtime class,
		// walking up toward Object to the first class that defines the
		// method (AbstractMethodError if that definition is abstract),
		// rather than the statically-resolved className from the
		// constant pool.
		target, selErr := classloader.SelectMethodVirtual(className, methodName, descriptor)
		if selErr != nil {
			return throwException(excNames.JVMClassName(selErr.Kind), className+"."+methodName+descriptor)
		}
		definingClass = target
		mt, rerr = classloader.FetchMethodAndCP(target, methodName, descriptor)
	} else {
		mt, rerr = classloader.FetchMethodAndCP(className, methodName, descriptor)
		if rerr != nil {
			target, resolveErr := classloader.ResolveMethodNonInterface(className, methodName, descriptor)
			if resolveErr != nil {
				return throwException("java/lang/NoSuchMethodError", className+"."+methodName+descriptor)
			}
			definingClass = target
			mt, rerr = classloader.FetchMethodAndCP(target, methodName, descriptor)
		}
	}
	if rerr != nil {
		return rerr
	}

	switch mt.MType {
	case 'G':
		fullArgs := args
		if receiver != nil {
			fullArgs = append([]interface{}{receiver}, args...)
		}
		result := runGmethod(mt, fs, className, methodName, descriptor, fullArgs, false)
		if errBlk, ok := result.(*gfunction.GErrBlk); ok {
			return throwException(excNames.JVMClassName(errBlk.ExceptionType), errBlk.ErrMsg)
		}
		if result != nil {
			f.Push(result)
		}
		return nil

	case 'J':
		je := mt.Meth.(classloader.JmEntry)
		callee := frames.CreateFrame(je.MaxStack + 2)
		callee.MethName = methodName
		callee.ClName = definingClass
		callee.CP = mt.Cp
		callee.Meth = append([]byte(nil), je.Code...)
		callee.ExcTable = je.CodeAttr.Exceptions

		if receiver != nil {
			callee.Locals = append(callee.Locals, receiver)
		}
		for i, a := range args {
			callee.Locals = append(callee.Locals, a)
			if argTypes[i] == "J" || argTypes[i] == "D" {
				// long and double take two local slots (JVMS 2.6.1)
				callee.Locals = append(callee.Locals, nil)
			}
		}
		for len(callee.Locals) < je.MaxLocals {
			callee.Locals = append(callee.Locals, nil)
		}

		if err := frames.PushFrame(fs, callee); err != nil {
			return err
		}
		return runFrame(fs)
	}

	return fmt.Errorf("executeInvoke: unknown method-table entry type for %s.%s%s", className, methodName, descriptor)
}
