/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/marrowvm/marrow/types"
)

// hiddenClassCounter gives every hidden class a unique numeric suffix, the
// same role the JDK's internal sequence number plays for
// MethodHandles.Lookup.defineHiddenClass (JVMS 5.3, JLS 15.1).
var hiddenClassCounter int64

// mangleHiddenClassName appends "/0x<hex>" to a parsed class's own name,
// matching HotSpot's hidden-class naming convention closely enough that
// log output and exceptions naming the class look familiar. The counter
// gives every call a different suffix, so no two hidden classes share a
// mangled name.
func mangleHiddenClassName(className string) string {
	n := atomic.AddInt64(&hiddenClassCounter, 1)
	return fmt.Sprintf("%s/0x%016x", className, n)
}

// DeriveHiddenClass implements the derivation half of
// MethodHandles.Lookup.defineHiddenClass (JVMS 5.4.4 note; JEP 371): parse
// and format-check rawBytes exactly as an ordinary class would be, then
// rename it with a unique, unlookupable suffix before publishing it to the
// method area, so multiple hidden classes generated from otherwise
// identical bytecode (as invokedynamic lambda factories do) never collide.
func DeriveHiddenClass(cl *Classloader, rawBytes []byte) (string, error) {
	pc, err := parse(rawBytes)
	if err != nil {
		return "", err
	}
	if formatCheckClass(&pc) != nil {
		return "", fmt.Errorf("DeriveHiddenClass: format-check failed")
	}
	if codeCheckClass(&pc) != nil {
		return "", fmt.Errorf("DeriveHiddenClass: code-check failed")
	}

	hiddenName := mangleHiddenClassName(pc.className)
	pc.className = hiddenName

	kd := convertToPostableClass(&pc)
	k := &Klass{Status: 'F', Loader: cl.Name, Data: &kd}
	MethAreaInsert(hiddenName, k)

	return hiddenName, nil
}

// CreateArrayClass synthesizes the method-area entry for an array class
// (JVMS 5.3.3): array classes have no class file of their own. Their
// superclass is always java/lang/Object (the record built here lists no
// interfaces, although JVMS has arrays implement Cloneable and
// java.io.Serializable), and their own "loading" is really just building
// this synthetic record once per distinct array descriptor
// (e.g. "[I", "[[Ljava/lang/String;").
//
// elementDescriptor is the array's own descriptor, starting with at least
// one '['.
func CreateArrayClass(elementDescriptor string) (*Klass, error) {
	if !strings.HasPrefix(elementDescriptor, types.Array) {
		return nil, fmt.Errorf("CreateArrayClass: %q is not an array descriptor", elementDescriptor)
	}
	if existing := MethAreaFetch(elementDescriptor); existing != nil {
		return existing, nil
	}

	// for reference-element arrays, the element class must itself be
	// loadable; this triggers that load so ArrayStoreException checks
	// later have a real class to compare against.
	component := strings.TrimPrefix(elementDescriptor, types.Array)
	if strings.HasPrefix(component, types.Ref) {
		elemName := strings.TrimSuffix(strings.TrimPrefix(component, types.Ref), ";")
		if MethAreaFetch(elemName) == nil {
			if err := LoadClassFromNameOnly(elemName); err != nil {
				return nil, err
			}
		}
	} else if strings.HasPrefix(component, types.Array) {
		if _, err := CreateArrayClass(component); err != nil {
			return nil, err
		}
	}

	kd := &ClData{
		Name:            elementDescriptor,
		SuperclassIndex: types.ObjectPoolStringIndex,
		ClInit:          types.NoClinit,
		MethodTable:     make(map[string]*Method),
		Access:          AccessFlags{ClassIsPublic: true, ClassIsFinal: true},
	}
	k := &Klass{Status: 'L', Loader: "bootstrap", Data: kd}
	MethAreaInsert(elementDescriptor, k)
	return k, nil
}
