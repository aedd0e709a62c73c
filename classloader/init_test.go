package classloader

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marrowvm/marrow/excNames"
	"github.com/marrowvm/marrow/stringPool"
	"github.com/marrowvm/marrow/types"
)

func TestInitializeUnloadedClassReturnsNoClassDefFoundError(t *testing.T) {
	InitMethodArea()
	err := Initialize("com/example/NeverLoaded")
	assert.NotNil(t, err)
}

func TestInitializeAlreadyRunIsANoop(t *testing.T) {
	InitMethodArea()
	MethAreaInsert("com/example/Ready", &Klass{
		Status: 'L',
		Data:   &ClData{Name: "com/example/Ready", ClInit: types.ClInitRun},
	})

	assert.Nil(t, Initialize("com/example/Ready"))
}

func TestInitializePreviouslyFailedStaysFailed(t *testing.T) {
	InitMethodArea()
	MethAreaInsert("com/example/Broken", &Klass{
		Status: 'L',
		Data:   &ClData{Name: "com/example/Broken", ClInit: types.ClInitFailed},
	})

	err := Initialize("com/example/Broken")
	assert.NotNil(t, err)
	assert.Equal(t, excNames.NoClassDefFoundError, err.Kind)
}

func TestInitializeWithNoRunInitializerInstalledMarksRun(t *testing.T) {
	saved := RunInitializer
	RunInitializer = nil
	defer func() { RunInitializer = saved }()

	InitMethodArea()
	MethAreaInsert("com/example/Plain", &Klass{
		Status: 'L',
		Data:   &ClData{Name: "com/example/Plain"},
	})

	assert.Nil(t, Initialize("com/example/Plain"))
	k := MethAreaFetch("com/example/Plain")
	assert.Equal(t, types.ClInitRun, k.Data.ClInit)
}

func TestInitializeInitializesSuperclassFirst(t *testing.T) {
	saved := RunInitializer
	RunInitializer = nil
	defer func() { RunInitializer = saved }()

	InitMethodArea()
	superIdx := stringPool.GetStringIndex("com/example/Base")
	MethAreaInsert("com/example/Base", &Klass{
		Status: 'L',
		Data:   &ClData{Name: "com/example/Base"},
	})
	MethAreaInsert("com/example/Derived", &Klass{
		Status: 'L',
		Data:   &ClData{Name: "com/example/Derived", SuperclassIndex: superIdx},
	})

	assert.Nil(t, Initialize("com/example/Derived"))
	base := MethAreaFetch("com/example/Base")
	assert.Equal(t, types.ClInitRun, base.Data.ClInit)
}
