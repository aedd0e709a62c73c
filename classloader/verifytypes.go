/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

// VerificationType models the lattice JVMS 4.10.1.2 defines for
// StackMapTable entries: every concrete type is a subtype of its word-size
// category, which is a subtype of top. Reference types further form their
// own tree (rooted at java/lang/Object, with null as a subtype of every
// reference type), and two extra pseudo-types track an uninitialized
// `this` or an object freshly allocated by a `new` at a given bytecode
// offset, until the matching <init> call completes.
//
// No code in this repository uses the lattice: StackMapTable attributes
// are kept undecoded (see attributes.go), so no frame's locals or stack
// entries are checked against it, and no merge/subtype dataflow is run.
type VerificationType struct {
	Tag    VerifTag
	Class  string // set when Tag == VerifReference
	Offset int    // set when Tag == VerifUninitialized (the `new` offset)
}

type VerifTag int

const (
	VerifTop VerifTag = iota
	VerifInteger
	VerifFloat
	VerifLong
	VerifDouble
	VerifNull
	VerifUninitializedThis
	VerifUninitialized // offset identifies the `new` instruction
	VerifReference      // Class identifies the reference type
)

// IsOneWord reports whether a verification type occupies a single
// operand-stack/local-variable slot (everything except long/double).
func (v VerificationType) IsOneWord() bool {
	return v.Tag != VerifLong && v.Tag != VerifDouble
}

// IsTwoWord is the complement of IsOneWord.
func (v VerificationType) IsTwoWord() bool {
	return v.Tag == VerifLong || v.Tag == VerifDouble
}

// IsReference reports whether v is some kind of object reference --
// including null and the two uninitialized pseudo-types, which may only
// be stored where a reference is expected.
func (v VerificationType) IsReference() bool {
	switch v.Tag {
	case VerifNull, VerifUninitializedThis, VerifUninitialized, VerifReference:
		return true
	default:
		return false
	}
}

// IsAssignableTo reports whether a value of type v may be used where a
// value of type target is expected, per the subtyping lattice of JVMS
// 4.10.1.2. For two references it does not walk the class hierarchy: it
// accepts only when the class names match exactly or target is
// java/lang/Object, so a subclass, an implemented interface or a
// covariant array type is reported as not assignable.
func (v VerificationType) IsAssignableTo(target VerificationType) bool {
	if target.Tag == VerifTop {
		return true
	}
	if v.Tag == VerifNull && target.IsReference() {
		return true
	}
	if v.Tag == target.Tag {
		if v.Tag != VerifReference {
			return true
		}
		return v.Class == target.Class
	}
	if target.Tag == VerifReference && target.Class == "java/lang/Object" && v.IsReference() {
		return true
	}
	return false
}
