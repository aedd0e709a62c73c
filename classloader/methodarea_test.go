package classloader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMethAreaInsertAndFetch(t *testing.T) {
	InitMethodArea()
	k := &Klass{Status: 'L', Data: &ClData{Name: "com/example/Foo"}}
	MethAreaInsert("com/example/Foo", k)

	got := MethAreaFetch("com/example/Foo")
	assert.Same(t, k, got)
}

func TestMethAreaFetchUnknownReturnsNil(t *testing.T) {
	InitMethodArea()
	assert.Nil(t, MethAreaFetch("com/example/NeverInserted"))
}

func TestMethAreaSizeTracksInsertions(t *testing.T) {
	InitMethodArea()
	assert.Equal(t, 0, MethAreaSize())

	MethAreaInsert("a/A", &Klass{})
	MethAreaInsert("b/B", &Klass{})
	assert.Equal(t, 2, MethAreaSize())
	assert.Equal(t, 2, GetCountOfLoadedClasses())
}

func TestFetchMethodAndCPMaterializesFromMethodTable(t *testing.T) {
	InitMethodArea()
	cp := CPool{}
	m := &Method{
		AccessFlags: 0,
		CodeAttr:    CodeAttrib{MaxStack: 2, MaxLocals: 1, Code: []byte{0xB1}}, // return
	}
	MethAreaInsert("com/example/Greeter", &Klass{
		Status: 'L',
		Data: &ClData{
			Name:        "com/example/Greeter",
			CP:          cp,
			MethodTable: map[string]*Method{"greet()V": m},
		},
	})

	mt, err := FetchMethodAndCP("com/example/Greeter", "greet", "()V")
	assert.NoError(t, err)
	assert.Equal(t, byte('J'), mt.MType)

	// a second lookup hits the cached mTable entry rather than
	// re-walking the class's MethodTable.
	mt2, err2 := FetchMethodAndCP("com/example/Greeter", "greet", "()V")
	assert.NoError(t, err2)
	assert.Equal(t, mt.MType, mt2.MType)
}

func TestFetchMethodAndCPNativeMethodGetsGType(t *testing.T) {
	InitMethodArea()
	nativeMethod := &Method{AccessFlags: accNative}
	MethAreaInsert("com/example/NativeHolder", &Klass{
		Status: 'L',
		Data: &ClData{
			Name:        "com/example/NativeHolder",
			MethodTable: map[string]*Method{"doIt()V": nativeMethod},
		},
	})

	mt, err := FetchMethodAndCP("com/example/NativeHolder", "doIt", "()V")
	assert.NoError(t, err)
	assert.Equal(t, byte('G'), mt.MType)
}

func TestFetchMethodAndCPUnknownClassErrors(t *testing.T) {
	InitMethodArea()
	_, err := FetchMethodAndCP("com/example/NeverLoaded", "run", "()V")
	assert.Error(t, err)
}

func TestFetchMethodAndCPUnknownMethodErrors(t *testing.T) {
	InitMethodArea()
	MethAreaInsert("com/example/Empty", &Klass{
		Status: 'L',
		Data:   &ClData{Name: "com/example/Empty", MethodTable: map[string]*Method{}},
	})
	_, err := FetchMethodAndCP("com/example/Empty", "missing", "()V")
	assert.Error(t, err)
}
