/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import (
	"github.com/marrowvm/marrow/excNames"
	"github.com/marrowvm/marrow/stringPool"
)

// ResolveField implements the field-resolution algorithm of JVMS 5.4.3.2:
// search the class's own declared fields first, then its superinterfaces
// (depth-first, which finds a field brought in through an interface's own
// default/static field declarations), and finally recurse into the
// superclass.
func ResolveField(className, fieldName, descriptor string) (*Field, string, *excNames.JVMerror) {
	k := MethAreaFetch(className)
	if k == nil || k.Data == nil {
		return nil, "", excNames.NewError(excNames.NoClassDefFoundError, className)
	}

	for i := range k.Data.Fields {
		f := &k.Data.Fields[i]
		if fieldNameOf(k, f) == fieldName && fieldDescOf(k, f) == descriptor {
			return f, className, nil
		}
	}

	for _, ifaceIdx := range k.Data.Interfaces {
		ifaceName := stringPoolGet(uint32(ifaceIdx))
		if f, owner, err := ResolveField(ifaceName, fieldName, descriptor); err == nil {
			return f, owner, nil
		}
	}

	if k.Data.SuperclassIndex != 0 {
		superName := stringPoolGet(k.Data.SuperclassIndex)
		return ResolveField(superName, fieldName, descriptor)
	}

	return nil, "", excNames.NewError(excNames.NoSuchFieldError, className+"."+fieldName)
}

// ResolveMethodNonInterface implements the 3-step non-interface
// method-resolution algorithm of JVMS 5.4.3.3: a signature-polymorphic
// check (skipped here -- MethodHandle invokers are handled directly by the
// native bridge), an exact name+descriptor match in the class itself, then
// a recursive search up the superclass chain; only once that whole chain
// is exhausted does step 2 (maximally-specific superinterface methods)
// apply.
func ResolveMethodNonInterface(className, methodName, descriptor string) (string, *excNames.JVMerror) {
	for cls := className; cls != ""; {
		k := MethAreaFetch(cls)
		if k == nil || k.Data == nil {
			return "", excNames.NewError(excNames.NoClassDefFoundError, cls)
		}
		if _, ok := k.Data.MethodTable[methodName+descriptor]; ok {
			return cls, nil
		}
		if k.Data.SuperclassIndex == 0 {
			break
		}
		cls = stringPoolGet(k.Data.SuperclassIndex)
	}

	// step 2: search maximally-specific superinterface methods
	if owner, ok := resolveMaximallySpecificInterfaceMethod(className, methodName, descriptor); ok {
		return owner, nil
	}

	return "", excNames.NewError(excNames.NoSuchMethodError, className+"."+methodName+descriptor)
}

// ResolveMethodInterface implements JVMS 5.4.3.4: declared methods of the
// interface itself, then java/lang/Object's public non-static methods,
// then maximally-specific superinterface methods, then the first
// non-static superinterface method found depth-first, regardless of
// specificity or of its abstract flag.
func ResolveMethodInterface(className, methodName, descriptor string) (string, *excNames.JVMerror) {
	k := MethAreaFetch(className)
	if k == nil || k.Data == nil {
		return "", excNames.NewError(excNames.NoClassDefFoundError, className)
	}
	if _, ok := k.Data.MethodTable[methodName+descriptor]; ok {
		return className, nil
	}

	if ok := objectHasPublicMethod(methodName, descriptor); ok {
		return "java/lang/Object", nil
	}

	if owner, ok := resolveMaximallySpecificInterfaceMethod(className, methodName, descriptor); ok {
		return owner, nil
	}

	if owner, ok := resolveAnySuperinterfaceMethod(className, methodName, descriptor); ok {
		return owner, nil
	}

	return "", excNames.NewError(excNames.NoSuchMethodError, className+"."+methodName+descriptor)
}

func resolveMaximallySpecificInterfaceMethod(className, methodName, descriptor string) (string, bool) {
	candidates := collectInterfaceMethodOwners(className, methodName, descriptor, map[string]bool{})
	if len(candidates) == 0 {
		return "", false
	}
	// The first non-static candidate found depth-first through className
	// and its superinterfaces is returned. Candidates are not compared
	// with each other for specificity, abstract candidates are not
	// skipped, and the superinterfaces of className's superclasses are
	// not searched.
	return candidates[0], true
}

func resolveAnySuperinterfaceMethod(className, methodName, descriptor string) (string, bool) {
	candidates := collectInterfaceMethodOwners(className, methodName, descriptor, map[string]bool{})
	if len(candidates) == 0 {
		return "", false
	}
	return candidates[0], true
}

func collectInterfaceMethodOwners(className, methodName, descriptor string, visited map[string]bool) []string {
	if visited[className] {
		return nil
	}
	visited[className] = true

	k := MethAreaFetch(className)
	if k == nil || k.Data == nil {
		return nil
	}

	var owners []string
	if m, ok := k.Data.MethodTable[methodName+descriptor]; ok && !isStaticMethod(m) {
		owners = append(owners, className)
	}
	for _, ifaceIdx := range k.Data.Interfaces {
		ifaceName := stringPoolGet(uint32(ifaceIdx))
		owners = append(owners, collectInterfaceMethodOwners(ifaceName, methodName, descriptor, visited)...)
	}
	return owners
}

func isStaticMethod(m *Method) bool {
	return m.AccessFlags&accStatic != 0
}

const (
	accStatic    = 0x0008
	accPrivate   = 0x0002
	accFinal2    = 0x0010
)

// objectHasPublicMethod is a conservative allowlist of java/lang/Object's
// public non-static instance methods, consulted by interface method
// resolution (JVMS 5.4.3.4 step 2) without requiring java/lang/Object's
// bytecode to already be loaded.
func objectHasPublicMethod(methodName, descriptor string) bool {
	switch methodName + descriptor {
	case "toString()Ljava/lang/String;",
		"equals(Ljava/lang/Object;)Z",
		"hashCode()I",
		"getClass()Ljava/lang/Class;",
		"notify()V", "notifyAll()V",
		"wait()V", "wait(J)V", "wait(JI)V":
		return true
	default:
		return false
	}
}

// SelectMethodVirtual implements invokevirtual/invokeinterface method
// selection (JVMS 5.4.6): walking from the receiver's actual runtime class
// up toward Object, it picks the first class whose method table holds
// name+descriptor (AbstractMethodError if that method is abstract), and
// otherwise falls back to a superinterface method. Access flags other
// than ACC_ABSTRACT are not checked: a private or package-private method
// met on the way is selected like any other.
func SelectMethodVirtual(receiverClass, methodName, descriptor string) (string, *excNames.JVMerror) {
	for cls := receiverClass; cls != ""; {
		k := MethAreaFetch(cls)
		if k == nil || k.Data == nil {
			return "", excNames.NewError(excNames.NoClassDefFoundError, cls)
		}
		if m, ok := k.Data.MethodTable[methodName+descriptor]; ok {
			if m.AccessFlags&accAbstract != 0 {
				return "", excNames.NewError(excNames.AbstractMethodError, cls+"."+methodName+descriptor)
			}
			return cls, nil
		}
		if k.Data.SuperclassIndex == 0 {
			break
		}
		cls = stringPoolGet(k.Data.SuperclassIndex)
	}

	if owner, ok := resolveMaximallySpecificInterfaceMethod(receiverClass, methodName, descriptor); ok {
		return owner, nil
	}

	return "", excNames.NewError(excNames.AbstractMethodError, receiverClass+"."+methodName+descriptor)
}

func fieldNameOf(k *Klass, f *Field) string {
	return resolveFromCP(&k.Data.CP, int(f.Name))
}

func fieldDescOf(k *Klass, f *Field) string {
	return resolveFromCP(&k.Data.CP, int(f.Desc))
}

func resolveFromCP(cp *CPool, cpIdx int) string {
	if cpIdx < 0 || cpIdx >= len(cp.CpIndex) {
		return ""
	}
	e := cp.CpIndex[cpIdx]
	if e.Type != UTF8 || int(e.Slot) >= len(cp.Utf8Refs) {
		return ""
	}
	return cp.Utf8Refs[e.Slot]
}

func stringPoolGet(i uint32) string {
	return stringPool.GetString(i)
}

// SuperclassName returns k's direct superclass's binary name, or "" if
// k has none (i.e. k is java/lang/Object itself).
func SuperclassName(k *Klass) string {
	if k == nil || k.Data == nil || k.Data.SuperclassIndex == 0 {
		return ""
	}
	return stringPoolGet(k.Data.SuperclassIndex)
}
