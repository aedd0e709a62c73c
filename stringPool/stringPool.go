/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package stringPool is the VM-wide symbol table: every class, field,
// method, and descriptor name the loader encounters is interned here once
// and thereafter referred to by a uint32 index, so that constant-pool
// entries, Klass records, and vtables can compare names with an integer
// compare instead of a string compare. A fixed set of well-known names
// (primitive wrapper classes, java/lang/Object, common descriptors) is
// pre-interned at Init() so loader code can compare against a constant
// index instead of a string literal.
package stringPool

import (
	"sync"

	"github.com/marrowvm/marrow/types"
)

var (
	mu      sync.RWMutex
	strings_ []string
	index   map[string]uint32
)

// wellKnown is pre-interned in this exact order so that index 1 is always
// "java/lang/Object" (types.ObjectPoolStringIndex), matching the classes
// that the loader special-cases by index rather than by string compare.
var wellKnown = []string{
	"", // index 0 is reserved/invalid
	"java/lang/Object",
	"java/lang/Class",
	"java/lang/String",
	"java/lang/Throwable",
	"java/lang/Exception",
	"java/lang/Error",
	"java/lang/Cloneable",
	"java/io/Serializable",
	"java/lang/Integer",
	"java/lang/Long",
	"java/lang/Short",
	"java/lang/Byte",
	"java/lang/Character",
	"java/lang/Boolean",
	"java/lang/Float",
	"java/lang/Double",
	"java/lang/Void",
	"<init>",
	"<clinit>",
	"()V",
}

func init() {
	Init()
}

// Init (re)builds the pool from the well-known name table. Safe to call
// more than once (tests rely on this to get a clean pool).
func Init() {
	mu.Lock()
	defer mu.Unlock()
	strings_ = make([]string, 0, len(wellKnown)+256)
	index = make(map[string]uint32, len(wellKnown)+256)
	for _, s := range wellKnown {
		strings_ = append(strings_, s)
		index[s] = uint32(len(strings_) - 1)
	}
}

// GetStringIndex interns s if necessary and returns its pool index.
func GetStringIndex(s string) uint32 {
	mu.RLock()
	if i, ok := index[s]; ok {
		mu.RUnlock()
		return i
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	// re-check: another goroutine may have interned it while we waited
	// for the write lock.
	if i, ok := index[s]; ok {
		return i
	}
	strings_ = append(strings_, s)
	i := uint32(len(strings_) - 1)
	index[s] = i
	return i
}

// GetStringPointer returns a pointer to the interned string at i, or nil
// if i is out of range.
func GetStringPointer(i uint32) *string {
	mu.RLock()
	defer mu.RUnlock()
	if int(i) >= len(strings_) {
		return nil
	}
	return &strings_[i]
}

// GetString is the value form of GetStringPointer; it returns "" for an
// out-of-range index rather than failing.
func GetString(i uint32) string {
	p := GetStringPointer(i)
	if p == nil {
		return ""
	}
	return *p
}

// Size returns the number of distinct interned strings (diagnostics only).
func Size() int {
	mu.RLock()
	defer mu.RUnlock()
	return len(strings_)
}

// IsObjectIndex reports whether i refers to java/lang/Object, the one
// comparison the loader performs constantly enough to deserve a helper.
func IsObjectIndex(i uint32) bool {
	return i == types.ObjectPoolStringIndex
}
