/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import "sync"

// Klass is the method-area entry for a loaded class: a status byte tracking
// how far through format-check/link/prepare/verify it has progressed, the
// name of the classloader that owns it, and (once parsing succeeds) the
// postable class data itself.
//
// Status values:
//
//	'I' loading in progress (placeholder inserted to block concurrent loads)
//	'F' format-checked
//	'V' bytecode-verified (shape only; see classloader/verifytypes.go)
//	'L' linked (superclass/interfaces resolved, ready to prepare)
//	'N' instantiated at least once
type Klass struct {
	Status byte
	Loader string
	Data   *ClData
}

// AccessFlags is the decoded set of boolean access/property flags carried
// by a class's access_flags field (JVMS 4.1 Table 4.1-B).
type AccessFlags struct {
	ClassIsPublic     bool
	ClassIsFinal      bool
	ClassIsSuper      bool
	ClassIsInterface  bool
	ClassIsAbstract   bool
	ClassIsSynthetic  bool
	ClassIsAnnotation bool
	ClassIsEnum       bool
	ClassIsModule     bool
}

// ClData is the postable, runtime form of a parsed class: smaller indices
// (uint16 rather than int), the class's methods in MethodTable (from which
// FetchMethodAndCP builds JVM-wide MTable entries on first use), and its
// constant pool.
type ClData struct {
	Name            string
	NameIndex       uint32
	SuperclassIndex uint32
	Module          string
	Pkg             string
	Interfaces      []uint16
	Fields          []Field
	MethodTable     map[string]*Method
	Attributes      []Attr
	SourceFile      string
	Bootstraps      []BootstrapMethod
	Access          AccessFlags
	CP              CPool
	ClInit          byte

	// JavaVersion is the major version this class was compiled for
	// (45..69 for Java 1.1 through Java 25); parse rejects a class file
	// outside that range before this record is built.
	JavaVersion int

	mu           sync.Mutex
	InitLock     sync.Mutex
	InitCond     *sync.Cond
	InitThreadID int64

	// StaticFields holds this class's own static field values, keyed by
	// field name, lazily populated with JVMS 2.5.3 default values the
	// first time a getstatic/putstatic reaches a field that hasn't been
	// touched yet.
	StaticFields map[string]interface{}
}

// GetStaticField returns the current value of a class's own static
// field, initializing it to its default value on first access.
func (cd *ClData) GetStaticField(name, descriptor string) interface{} {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	if cd.StaticFields == nil {
		cd.StaticFields = make(map[string]interface{})
	}
	if v, ok := cd.StaticFields[name]; ok {
		return v
	}
	v := defaultValueFor(descriptor)
	cd.StaticFields[name] = v
	return v
}

// SetStaticField overwrites the current value of a class's own static
// field.
func (cd *ClData) SetStaticField(name string, value interface{}) {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	if cd.StaticFields == nil {
		cd.StaticFields = make(map[string]interface{})
	}
	cd.StaticFields[name] = value
}

func defaultValueFor(descriptor string) interface{} {
	if descriptor == "" {
		return nil
	}
	switch descriptor[0] {
	case 'L', '[':
		return nil
	case 'J':
		return int64(0)
	case 'D', 'F':
		return float64(0)
	case 'Z':
		return false
	default:
		return int64(0)
	}
}

// Field is one entry of ClData.Fields: name/descriptor as CP-name indices
// (uint16, resolved through the class's own CP at lookup time) plus the
// handful of booleans and attributes callers need without a further
// lookup.
type Field struct {
	Name       uint16
	Desc       uint16
	IsStatic   bool
	AccessFlags int
	ConstValue interface{}
	Attributes []Attr
}

// Attr is a generic, still-encoded class/field/method/Code attribute. Only
// the attributes the loader understands (Code, Exceptions, ConstantValue,
// BootstrapMethods, AnnotationDefault, ...) are decoded further; everything
// else is kept as raw bytes so unfamiliar/vendor attributes round-trip
// safely.
type Attr struct {
	AttrName    uint16
	AttrSize    int
	AttrContent []byte
}

// Method is the postable record of one method in the class -- the pieces
// that belong to the *class* (its raw Code array and attributes survive
// here too), while the JmEntry built for fast invocation lives in the
// per-JVM-wide MTable instead, keyed by class+name+descriptor.
type Method struct {
	Name        uint16
	Desc        uint16
	AccessFlags int
	CodeAttr    CodeAttrib
	Attributes  []Attr
	Exceptions  []uint16
	Parameters  []ParamAttrib
	Deprecated  bool
}

// CodeAttrib is the decoded form of the method's Code attribute (JVMS
// 4.7.3).
type CodeAttrib struct {
	MaxStack          int
	MaxLocals         int
	Code              []byte
	Exceptions        []CodeException
	Attributes        []Attr
	BytecodeSourceMap []BytecodeToSourceLine
}

// CodeException is one entry of a Code attribute's exception_table.
type CodeException struct {
	StartPc   int
	EndPc     int
	HandlerPc int
	CatchType uint16 // 0 = catch-all; else a ClassRef CP index
}

// BytecodeToSourceLine maps a bytecode offset to the .java source line that
// produced it, decoded from the LineNumberTable attribute.
type BytecodeToSourceLine struct {
	Pc   int
	Line int
}

// ParamAttrib is one entry of a MethodParameters attribute.
type ParamAttrib struct {
	Name        string
	AccessFlags int
}

// BootstrapMethod is one entry of the BootstrapMethods attribute, used to
// resolve CONSTANT_Dynamic and CONSTANT_InvokeDynamic constant-pool
// entries.
type BootstrapMethod struct {
	MethodRef uint16
	Args      []uint16
}

// CPool is the postable constant pool: CpIndex maps a CP index to a tag and
// a slot into one of the kind-specific slices below, matching the layout
// CPutils.go's FetchCPentry already switches over.
type CPool struct {
	CpIndex        []CpEntry
	ClassRefs      []uint32 // CP index of the Class entry's name_index (a Utf8 entry)
	Doubles        []float64
	Dynamics       []DynamicEntry
	FieldRefs      []FieldRefEntry
	Floats         []float32
	IntConsts      []int32
	InterfaceRefs  []InterfaceRefEntry
	InvokeDynamics []InvokeDynamicEntry
	LongConsts     []int64
	MethodHandles  []MethodHandleEntry
	MethodRefs     []MethodRefEntry
	MethodTypes    []uint16
	NameAndTypes   []NameAndTypeEntry
	Utf8Refs       []string

	// resolved is a slot for caching resolved entries. No lookup reads or
	// writes it: every MethodRef/ClassRef lookup walks the resolution
	// algorithm again.
	resolveMu sync.Mutex
	resolved  map[int]interface{}
}

// CpEntry is the postable constant-pool index entry.
type CpEntry struct {
	Type uint16
	Slot uint16
}

type DynamicEntry struct {
	BootstrapIndex uint16
	NameAndType    uint16
}

type InvokeDynamicEntry struct {
	BootstrapIndex uint16
	NameAndType    uint16
}

type FieldRefEntry struct {
	ClassIndex  uint16
	NameAndType uint16
}

type InterfaceRefEntry struct {
	ClassIndex  uint16
	NameAndType uint16
}

type MethodRefEntry struct {
	ClassIndex  uint16
	NameAndType uint16
}

type MethodHandleEntry struct {
	RefKind  uint16
	RefIndex uint16
}

type NameAndTypeEntry struct {
	NameIndex uint16
	DescIndex uint16
}

// MData is the payload a method-table entry carries. For a 'J' entry it is
// a JmEntry (a Java method, ready to be framed and interpreted). A 'G'
// (native) entry carries no gfunction.GMeth: jvm.runGmethod ignores the
// payload and looks the implementation up by signature in package
// gfunction.
type MData interface{}

// MTentry is one entry of the JVM-wide method table (MTable), keyed by
// "class.name(descriptor)".
type MTentry struct {
	MType byte // 'J' = Java method, 'G' = native/golang method
	Meth  MData
	Cp    *CPool
}

// JmEntry is the ready-to-run form of a Java (bytecode) method.
type JmEntry struct {
	AccessFlags int
	MaxStack    int
	MaxLocals   int
	Code        []byte
	CodeAttr    CodeAttrib
	Attribs     []Attr
	Exceptions  []uint16
	params      []ParamAttrib
	deprecated  bool
	Cp          *CPool
}
