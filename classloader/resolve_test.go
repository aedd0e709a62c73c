package classloader

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marrowvm/marrow/excNames"
	"github.com/marrowvm/marrow/stringPool"
)

func fakeMethodTable(entries ...string) map[string]*Method {
	mt := make(map[string]*Method)
	for _, e := range entries {
		mt[e] = &Method{}
	}
	return mt
}

func insertFakeKlass(name, superName string, methods map[string]*Method) {
	var superIdx uint32
	if superName != "" {
		superIdx = stringPool.GetStringIndex(superName)
	}
	MethAreaInsert(name, &Klass{
		Status: 'L',
		Data: &ClData{
			Name:            name,
			SuperclassIndex: superIdx,
			MethodTable:     methods,
		},
	})
}

func TestSelectMethodVirtualFindsMethodOnReceiverClass(t *testing.T) {
	InitMethodArea()
	insertFakeKlass("com/example/Widget", "", fakeMethodTable("paint()V"))

	owner, err := SelectMethodVirtual("com/example/Widget", "paint", "()V")
	assert.Nil(t, err)
	assert.Equal(t, "com/example/Widget", owner)
}

func TestSelectMethodVirtualWalksSuperclassChain(t *testing.T) {
	InitMethodArea()
	insertFakeKlass("com/example/Base", "", fakeMethodTable("paint()V"))
	insertFakeKlass("com/example/Derived", "com/example/Base", fakeMethodTable("other()V"))

	owner, err := SelectMethodVirtual("com/example/Derived", "paint", "()V")
	assert.Nil(t, err)
	assert.Equal(t, "com/example/Base", owner)
}

func TestSelectMethodVirtualOverrideWinsOverAncestor(t *testing.T) {
	InitMethodArea()
	insertFakeKlass("com/example/Base", "", fakeMethodTable("paint()V"))
	insertFakeKlass("com/example/Derived", "com/example/Base", fakeMethodTable("paint()V"))

	owner, err := SelectMethodVirtual("com/example/Derived", "paint", "()V")
	assert.Nil(t, err)
	assert.Equal(t, "com/example/Derived", owner)
}

func TestSelectMethodVirtualAbstractMethodOnReceiverClassErrors(t *testing.T) {
	InitMethodArea()
	abstractMethod := &Method{AccessFlags: accAbstract}
	insertFakeKlass("com/example/Shape", "", map[string]*Method{"paint()V": abstractMethod})

	_, err := SelectMethodVirtual("com/example/Shape", "paint", "()V")
	assert.NotNil(t, err)
	assert.Equal(t, excNames.AbstractMethodError, err.Kind)
}

func TestSelectMethodVirtualUnloadedClassReturnsNoClassDefFoundError(t *testing.T) {
	InitMethodArea()

	_, err := SelectMethodVirtual("com/example/NeverLoaded", "run", "()V")
	assert.NotNil(t, err)
	assert.Equal(t, excNames.NoClassDefFoundError, err.Kind)
}

func TestSelectMethodVirtualNoMatchAnywhereReturnsAbstractMethodError(t *testing.T) {
	InitMethodArea()
	insertFakeKlass("com/example/Base", "", fakeMethodTable("other()V"))
	insertFakeKlass("com/example/Derived", "com/example/Base", fakeMethodTable("another()V"))

	_, err := SelectMethodVirtual("com/example/Derived", "missing", "()V")
	assert.NotNil(t, err)
	assert.Equal(t, excNames.AbstractMethodError, err.Kind)
}
