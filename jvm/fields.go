/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package jvm

import (
	"github.com/marrowvm/marrow/classloader"
	"github.com/marrowvm/marrow/frames"
	"github.com/marrowvm/marrow/object"
)

// fieldRefInfo resolves a FieldRef/InterfaceRef-shaped CP entry at
// cpIndex to the class/name/descriptor triple getfield/putfield/
// getstatic/putstatic all need, mirroring CPutils.GetMethInfoFromCPmethref
// but for field references.
func fieldRefInfo(cp *classloader.CPool, cpIndex int) (className, fieldName, descriptor string) {
	entry := cp.CpIndex[cpIndex]
	fr := cp.FieldRefs[entry.Slot]

	classEntry := cp.CpIndex[fr.ClassIndex]
	classRefIdx := cp.ClassRefs[classEntry.Slot]
	className = classloader.FetchUTF8stringFromCPEntryNumber(cp, classRefIdx)

	natEntry := cp.CpIndex[fr.NameAndType]
	nat := cp.NameAndTypes[natEntry.Slot]
	fieldName = cp.Utf8Refs[cp.CpIndex[nat.NameIndex].Slot]
	descriptor = cp.Utf8Refs[cp.CpIndex[nat.DescIndex].Slot]
	return
}

func executeGetstatic(f *frames.Frame) error {
	idx := int(f.Meth[f.PC+1])<<8 | int(f.Meth[f.PC+2])
	className, fieldName, descriptor := fieldRefInfo(f.CP, idx)

	if err := classloader.Initialize(className); err != nil {
		return err
	}
	k := classloader.MethAreaFetch(className)
	if k == nil || k.Data == nil {
		return throwException("java/lang/NoClassDefFoundError", className)
	}
	f.Push(k.Data.GetStaticField(fieldName, descriptor))
	return nil
}

func executePutstatic(f *frames.Frame) error {
	idx := int(f.Meth[f.PC+1])<<8 | int(f.Meth[f.PC+2])
	className, fieldName, _ := fieldRefInfo(f.CP, idx)

	if err := classloader.Initialize(className); err != nil {
		return err
	}
	k := classloader.MethAreaFetch(className)
	if k == nil || k.Data == nil {
		return throwException("java/lang/NoClassDefFoundError", className)
	}
	k.Data.SetStaticField(fieldName, f.Pop())
	return nil
}

func executeGetfield(f *frames.Frame) error {
	idx := int(f.Meth[f.PC+1])<<8 | int(f.Meth[f.PC+2])
	_, fieldName, _ := fieldRefInfo(f.CP, idx)

	ref := f.Pop()
	obj, ok := ref.(*object.Object)
	if !ok || obj == nil {
		return throwException("java/lang/NullPointerException", "")
	}
	if fv, ok := obj.FieldTable[fieldName]; ok {
		f.Push(fv.Fvalue)
		return nil
	}
	f.Push(nil)
	return nil
}

func executePutfield(f *frames.Frame) error {
	idx := int(f.Meth[f.PC+1])<<8 | int(f.Meth[f.PC+2])
	_, fieldName, descriptor := fieldRefInfo(f.CP, idx)

	value := f.Pop()
	ref := f.Pop()
	obj, ok := ref.(*object.Object)
	if !ok || obj == nil {
		return throwException("java/lang/NullPointerException", "")
	}
	if obj.FieldTable == nil {
		obj.FieldTable = make(map[string]*object.Field)
	}
	obj.FieldTable[fieldName] = &object.Field{Ftype: descriptor, Fvalue: value}
	return nil
}
