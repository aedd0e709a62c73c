/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package jvm

import (
	"fmt"

	"github.com/marrowvm/marrow/classloader"
	"github.com/marrowvm/marrow/object"
	"github.com/marrowvm/marrow/trace"
	"github.com/marrowvm/marrow/types"
)

// instantiating a class is a two-part process:
// 1) the class needs to be loaded, so that its details and its methods are knowable
// 2) the instance fields are allocated and set to their default values, per JVMS 2.5.3.

func instantiateClass(classname string) (*object.Object, error) {
	trace.Trace("Instantiating class: " + classname)

	k := classloader.MethAreaFetch(classname)
	if k == nil {
		if err := classloader.LoadClassFromNameOnly(classname); err != nil {
			trace.Error("Error loading class: " + classname)
			return nil, err
		}
		k = classloader.MethAreaFetch(classname)
	}
	if k == nil || k.Data == nil {
		return nil, fmt.Errorf("instantiateClass: class %s not found after load", classname)
	}

	obj := object.MakeObject(classname)

	// Walk from java/lang/Object down to classname so every ancestor's
	// declared instance fields are present (JVMS 2.5.3/5.4.3.2: a class's
	// instance layout includes every superclass's own fields), loading
	// any superclass not yet in the method area along the way.
	var chain []*classloader.Klass
	for cur := k; cur != nil; {
		chain = append(chain, cur)
		super := classloader.SuperclassName(cur)
		if super == "" {
			break
		}
		if err := loadThisClass(super); err != nil {
			return nil, err
		}
		cur = classloader.MethAreaFetch(super)
	}

	for i := len(chain) - 1; i >= 0; i-- {
		for name, f := range collectInstanceFields(chain[i]) {
			obj.Fields = append(obj.Fields, f)
			fCopy := f
			obj.FieldTable[name] = &fCopy
		}
	}

	return obj, nil
}

// collectInstanceFields walks a class's own declared instance fields and
// sets each to its JVMS 2.5.3 default value, keyed by field name so the
// caller can also populate the object's FieldTable.
func collectInstanceFields(k *classloader.Klass) map[string]object.Field {
	out := make(map[string]object.Field)
	for i := range k.Data.Fields {
		f := k.Data.Fields[i]
		if f.IsStatic {
			continue
		}
		name := classloader.FetchUTF8stringFromCPEntryNumber(&k.Data.CP, uint32(f.Name))
		ftype := classloader.FetchUTF8stringFromCPEntryNumber(&k.Data.CP, uint32(f.Desc))
		out[name] = object.Field{
			Ftype:  ftype,
			Fvalue: types.DefaultValue(ftype),
		}
	}
	return out
}
