/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

// Constant-pool tag values, per JVMS 4.4 Table 4.4-A. Declared untyped so
// they compare cleanly against both the raw parse-time cpEntry.entryType
// (int) and the postable CpEntry.Type (uint16).
const (
	UTF8          = 1
	IntConst      = 3
	FloatConst    = 4
	LongConst     = 5
	DoubleConst   = 6
	ClassRef      = 7
	StringConst   = 8
	FieldRef      = 9
	MethodRef     = 10
	Interface     = 11
	NameAndType   = 12
	MethodHandle  = 15
	MethodType    = 16
	Dynamic       = 17
	InvokeDynamic = 18
	Module        = 19
	Package       = 20
)

// cpEntry is the parse-time constant-pool index entry: it says what kind
// of constant lives at this slot and where in the kind-specific slice
// (ParsedClass.intConsts, .classRefs, etc.) to find it.
type cpEntry struct {
	entryType int
	slot      int
}

// utf8Entry holds a decoded Modified-UTF-8 constant.
type utf8Entry struct {
	content string
}

// fieldRefEntry/methodRefEntry/interfaceRefEntry all share the same shape:
// a class index and a name-and-type index, both themselves indices into
// cpIndex.
type fieldRefEntry struct {
	classIndex       int
	nameAndTypeIndex int
}

type methodRefEntry struct {
	classIndex       int
	nameAndTypeIndex int
}

type interfaceRefEntry struct {
	classIndex       int
	nameAndTypeIndex int
}

type nameAndTypeEntry struct {
	nameIndex       int
	descriptorIndex int
}

// stringConstantEntry records the cpIndex slot of the CONSTANT_Utf8 entry
// a CONSTANT_String constant's value is taken from.
type stringConstantEntry struct {
	index int
}

type methodHandleEntry struct {
	referenceKind  int
	referenceIndex int
}

// dynamic covers both CONSTANT_Dynamic and CONSTANT_InvokeDynamic, which
// have identical layouts (a bootstrap-method-table index and a
// name-and-type index).
type dynamic struct {
	bootstrapIndex int
	nameAndType    int
}

type invokeDynamic struct {
	bootstrapIndex int
	nameAndType    int
}
