/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import (
	"fmt"
	"sync"

	"github.com/marrowvm/marrow/trace"
)

// MethArea is the JVM-wide dictionary of loaded classes, keyed by binary
// class name (java/lang/Object style). A class is present here from the
// moment loading begins (with Status 'I') so that a second, concurrent
// request for the same class finds a placeholder rather than starting a
// duplicate load.
var (
	methAreaMu sync.RWMutex
	methArea   map[string]*Klass
)

// MTable is the JVM-wide method table, keyed by "class.name(descriptor)".
// Methods are hoisted out of individual ClData entries and into this one
// table so that resolution and invocation share a single lookup path.
var (
	mTableMu sync.RWMutex
	mTable   map[string]MTentry
)

// InitMethodArea allocates the method area and method table. Safe to call
// more than once (a fresh VM run, or a test, gets an empty dictionary).
func InitMethodArea() {
	methAreaMu.Lock()
	methArea = make(map[string]*Klass)
	methAreaMu.Unlock()

	mTableMu.Lock()
	mTable = make(map[string]MTentry)
	mTableMu.Unlock()
}

// MethAreaInsert adds or replaces the dictionary entry for name.
func MethAreaInsert(name string, k *Klass) {
	methAreaMu.Lock()
	defer methAreaMu.Unlock()
	methArea[name] = k
}

// MethAreaFetch returns the dictionary entry for name, or nil if no class
// by that name has been loaded (or started loading).
func MethAreaFetch(name string) *Klass {
	methAreaMu.RLock()
	defer methAreaMu.RUnlock()
	return methArea[name]
}

// MethAreaSize returns the number of classes currently tracked in the
// method area, including those still mid-load.
func MethAreaSize() int {
	methAreaMu.RLock()
	defer methAreaMu.RUnlock()
	return len(methArea)
}

// AddMethodToMTable registers a method's ready-to-run payload under its
// class-qualified key.
func AddMethodToMTable(className, methodName, descriptor string, entry MTentry) {
	key := className + "." + methodName + descriptor
	mTableMu.Lock()
	defer mTableMu.Unlock()
	mTable[key] = entry
}

// FetchMethodAndCP looks up a method in the given class (not its
// superclasses -- callers that need inherited lookup use
// ResolveMethodNonInterface or ResolveMethodInterface instead) and returns
// its ready-to-run entry.
func FetchMethodAndCP(className, methodName, descriptor string) (MTentry, error) {
	key := className + "." + methodName + descriptor
	mTableMu.RLock()
	entry, ok := mTable[key]
	mTableMu.RUnlock()
	if ok {
		return entry, nil
	}

	// lazily materialize the entry from the class's own MethodTable the
	// first time it's asked for.
	k := MethAreaFetch(className)
	if k == nil || k.Data == nil {
		return MTentry{}, fmt.Errorf("FetchMethodAndCP: class %s not loaded", className)
	}

	m, ok := k.Data.MethodTable[methodName+descriptor]
	if !ok {
		return MTentry{}, fmt.Errorf("FetchMethodAndCP: %s.%s%s not found", className, methodName, descriptor)
	}

	je := JmEntry{
		AccessFlags: m.AccessFlags,
		MaxStack:    m.CodeAttr.MaxStack,
		MaxLocals:   m.CodeAttr.MaxLocals,
		Code:        m.CodeAttr.Code,
		CodeAttr:    m.CodeAttr,
		Attribs:     m.Attributes,
		Exceptions:  m.Exceptions,
		params:      m.Parameters,
		deprecated:  m.Deprecated,
		Cp:          &k.Data.CP,
	}
	mt := MTentry{MType: 'J', Meth: je, Cp: &k.Data.CP}
	if isNativeMethod(m.AccessFlags) {
		mt.MType = 'G'
	}

	mTableMu.Lock()
	mTable[key] = mt
	mTableMu.Unlock()

	return mt, nil
}

func isNativeMethod(accessFlags int) bool {
	return accessFlags&accNative != 0
}

// GetCountOfLoadedClasses returns the number of classes currently resident
// in the method area, across all classloaders.
func GetCountOfLoadedClasses() int {
	return MethAreaSize()
}

func logClassEvent(format string, args ...interface{}) {
	trace.Trace(fmt.Sprintf(format, args...))
}
