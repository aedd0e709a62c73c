/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package jvm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marrowvm/marrow/classloader"
	"github.com/marrowvm/marrow/stringPool"
)

// cpWithOneField builds a constant pool whose indices 1 and 2 are Utf8
// entries holding a field's name and descriptor, the shape
// instantiateClass's collectInstanceFields resolves through
// FetchUTF8stringFromCPEntryNumber.
func cpWithOneField(name, desc string) classloader.CPool {
	return classloader.CPool{
		CpIndex: []classloader.CpEntry{
			{},                                // index 0 unused
			{Type: classloader.UTF8, Slot: 0}, // index 1 -> name
			{Type: classloader.UTF8, Slot: 1}, // index 2 -> descriptor
		},
		Utf8Refs: []string{name, desc},
	}
}

func insertInstantiableClass(name, superName string, cp classloader.CPool, fields []classloader.Field) {
	var superIdx uint32
	if superName != "" {
		superIdx = stringPool.GetStringIndex(superName)
	}
	classloader.MethAreaInsert(name, &classloader.Klass{
		Status: 'L',
		Data: &classloader.ClData{
			Name:            name,
			SuperclassIndex: superIdx,
			CP:              cp,
			Fields:          fields,
		},
	})
}

func TestInstantiateClassPopulatesDefaultFieldValues(t *testing.T) {
	classloader.InitMethodArea()
	cp := cpWithOneField("count", "I")
	insertInstantiableClass("com/example/Widget", "", cp, []classloader.Field{
		{Name: 1, Desc: 2},
	})

	obj, err := instantiateClass("com/example/Widget")
	assert.NoError(t, err)
	assert.Len(t, obj.Fields, 1)

	f, ok := obj.FieldTable["count"]
	assert.True(t, ok)
	assert.Equal(t, "I", f.Ftype)
	assert.Equal(t, int64(0), f.Fvalue)
}

func TestInstantiateClassSkipsStaticFields(t *testing.T) {
	classloader.InitMethodArea()
	cp := cpWithOneField("INSTANCE_COUNT", "I")
	insertInstantiableClass("com/example/Counter", "", cp, []classloader.Field{
		{Name: 1, Desc: 2, IsStatic: true},
	})

	obj, err := instantiateClass("com/example/Counter")
	assert.NoError(t, err)
	assert.Empty(t, obj.Fields)
	_, ok := obj.FieldTable["INSTANCE_COUNT"]
	assert.False(t, ok)
}

func TestInstantiateClassInheritsSuperclassFields(t *testing.T) {
	classloader.InitMethodArea()
	baseCP := cpWithOneField("id", "I")
	insertInstantiableClass("com/example/Base", "", baseCP, []classloader.Field{
		{Name: 1, Desc: 2},
	})

	derivedCP := cpWithOneField("label", "Ljava/lang/String;")
	insertInstantiableClass("com/example/Derived", "com/example/Base", derivedCP, []classloader.Field{
		{Name: 1, Desc: 2},
	})

	obj, err := instantiateClass("com/example/Derived")
	assert.NoError(t, err)
	assert.Len(t, obj.Fields, 2)

	_, hasID := obj.FieldTable["id"]
	_, hasLabel := obj.FieldTable["label"]
	assert.True(t, hasID)
	assert.True(t, hasLabel)
}

func TestInstantiateClassSubclassFieldOverridesAncestorNameInTable(t *testing.T) {
	classloader.InitMethodArea()
	baseCP := cpWithOneField("value", "I")
	insertInstantiableClass("com/example/Base", "", baseCP, []classloader.Field{
		{Name: 1, Desc: 2},
	})

	derivedCP := cpWithOneField("value", "Ljava/lang/String;")
	insertInstantiableClass("com/example/Derived", "com/example/Base", derivedCP, []classloader.Field{
		{Name: 1, Desc: 2},
	})

	obj, err := instantiateClass("com/example/Derived")
	assert.NoError(t, err)
	// two declared slots (one per class), but FieldTable's "value" key
	// resolves to the most-derived declaration.
	assert.Len(t, obj.Fields, 2)
	assert.Equal(t, "Ljava/lang/String;", obj.FieldTable["value"].Ftype)
}

func TestInstantiateClassUnknownClassErrors(t *testing.T) {
	classloader.InitMethodArea()
	_, err := instantiateClass("com/example/NeverRegistered")
	assert.Error(t, err)
}
