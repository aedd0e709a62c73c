/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import (
	"fmt"

	"github.com/marrowvm/marrow/mutf8"
	"github.com/marrowvm/marrow/stringPool"
)

const classMagic = 0xCAFEBABE

// MinSupportedMajor/MaxSupportedMajor are the major class-file versions
// this VM accepts, corresponding to Java 1.1 through Java 25 (JVMS 4.1).
const (
	MinSupportedMajor = 45
	MaxSupportedMajor = 69
)

// classReader is a cursor over a class file's raw bytes, with the
// big-endian fixed-width reads the format requires (JVMS 4 uses u1/u2/u4
// throughout, never a variable-length integer encoding).
type classReader struct {
	data []byte
	pos  int
}

func (r *classReader) u1() (byte, error) {
	if r.pos+1 > len(r.data) {
		return 0, fmt.Errorf("unexpected end of class file at offset %d", r.pos)
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *classReader) u2() (uint16, error) {
	if r.pos+2 > len(r.data) {
		return 0, fmt.Errorf("unexpected end of class file at offset %d", r.pos)
	}
	v := uint16(r.data[r.pos])<<8 | uint16(r.data[r.pos+1])
	r.pos += 2
	return v, nil
}

func (r *classReader) u4() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, fmt.Errorf("unexpected end of class file at offset %d", r.pos)
	}
	v := uint32(r.data[r.pos])<<24 | uint32(r.data[r.pos+1])<<16 |
		uint32(r.data[r.pos+2])<<8 | uint32(r.data[r.pos+3])
	r.pos += 4
	return v, nil
}

func (r *classReader) bytes(n int) ([]byte, error) {
	if r.pos+n > len(r.data) {
		return nil, fmt.Errorf("unexpected end of class file at offset %d", r.pos)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// parse decodes a raw .class byte slice into a ParsedClass. Apart from
// rejecting a major version outside MinSupportedMajor..MaxSupportedMajor,
// it performs no semantic validation beyond what's needed to walk the
// structure (that's
// formatCheckClass's job, run immediately afterward by ParseAndPostClass).
func parse(raw []byte) (ParsedClass, error) {
	pc := ParsedClass{}
	r := &classReader{data: raw}

	magic, err := r.u4()
	if err != nil {
		return pc, cfe("could not read magic number: " + err.Error())
	}
	if magic != classMagic {
		return pc, cfe(fmt.Sprintf("invalid magic number: 0x%08X", magic))
	}

	minor, err := r.u2()
	if err != nil {
		return pc, cfe("could not read minor version: " + err.Error())
	}
	major, err := r.u2()
	if err != nil {
		return pc, cfe("could not read major version: " + err.Error())
	}
	_ = minor
	pc.javaVersion = int(major)
	if pc.javaVersion < MinSupportedMajor || pc.javaVersion > MaxSupportedMajor {
		return pc, cfe(fmt.Sprintf("unsupported class file version %d.%d", major, minor))
	}

	cpCount, err := r.u2()
	if err != nil {
		return pc, cfe("could not read constant_pool_count: " + err.Error())
	}
	pc.cpCount = int(cpCount)

	if err := parseConstantPool(r, &pc); err != nil {
		return pc, err
	}

	accessFlags, err := r.u2()
	if err != nil {
		return pc, cfe("could not read access_flags: " + err.Error())
	}
	parseAccessFlags(&pc, int(accessFlags))

	thisClass, err := r.u2()
	if err != nil {
		return pc, cfe("could not read this_class: " + err.Error())
	}
	className, err := resolveClassRefName(&pc, int(thisClass))
	if err != nil {
		return pc, cfe("invalid this_class index: " + err.Error())
	}
	pc.className = className
	pc.classNameIndex = stringPool.GetStringIndex(className)
	if idx := lastSlash(className); idx >= 0 {
		pc.packageName = className[:idx]
	}

	superClass, err := r.u2()
	if err != nil {
		return pc, cfe("could not read super_class: " + err.Error())
	}
	if superClass == 0 {
		// only java/lang/Object may have a zero super_class
		pc.superClassIndex = 0
	} else {
		superName, err := resolveClassRefName(&pc, int(superClass))
		if err != nil {
			return pc, cfe("invalid super_class index: " + err.Error())
		}
		pc.superClassIndex = stringPool.GetStringIndex(superName)
	}

	ifaceCount, err := r.u2()
	if err != nil {
		return pc, cfe("could not read interfaces_count: " + err.Error())
	}
	pc.interfaceCount = int(ifaceCount)
	for i := 0; i < int(ifaceCount); i++ {
		idx, err := r.u2()
		if err != nil {
			return pc, cfe("could not read interface index: " + err.Error())
		}
		name, err := resolveClassRefName(&pc, int(idx))
		if err != nil {
			return pc, cfe("invalid interface index: " + err.Error())
		}
		pc.interfaces = append(pc.interfaces, stringPool.GetStringIndex(name))
	}

	if err := parseFields(r, &pc); err != nil {
		return pc, err
	}
	if err := parseMethods(r, &pc); err != nil {
		return pc, err
	}
	if err := parseClassAttributes(r, &pc); err != nil {
		return pc, err
	}

	return pc, nil
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return i
		}
	}
	return -1
}

// resolveClassRefName follows a this_class/super_class/interfaces[i] index
// (pointing at a CONSTANT_Class entry) down to its UTF-8 class name.
func resolveClassRefName(pc *ParsedClass, cpIdx int) (string, error) {
	if cpIdx < 1 || cpIdx >= len(pc.cpIndex) {
		return "", fmt.Errorf("index %d out of range", cpIdx)
	}
	entry := pc.cpIndex[cpIdx]
	if entry.entryType != ClassRef {
		return "", fmt.Errorf("index %d does not point to a Class entry", cpIdx)
	}
	utf8Idx := pc.classRefs[entry.slot]
	return resolveUtf8(pc, int(utf8Idx))
}

// resolveUtf8 follows a CP index that must point at a CONSTANT_Utf8 entry
// and returns its decoded string.
func resolveUtf8(pc *ParsedClass, cpIdx int) (string, error) {
	if cpIdx < 1 || cpIdx >= len(pc.cpIndex) {
		return "", fmt.Errorf("utf8 index %d out of range", cpIdx)
	}
	entry := pc.cpIndex[cpIdx]
	if entry.entryType != UTF8 {
		return "", fmt.Errorf("index %d does not point to a Utf8 entry", cpIdx)
	}
	return pc.utf8Refs[entry.slot].content, nil
}

func parseAccessFlags(pc *ParsedClass, flags int) {
	pc.accessFlags = flags
	pc.classIsPublic = flags&0x0001 != 0
	pc.classIsFinal = flags&0x0010 != 0
	pc.classIsSuper = flags&0x0020 != 0
	pc.classIsInterface = flags&0x0200 != 0
	pc.classIsAbstract = flags&0x0400 != 0
	pc.classIsSynthetic = flags&0x1000 != 0
	pc.classIsAnnotation = flags&0x2000 != 0
	pc.classIsEnum = flags&0x4000 != 0
	pc.classIsModule = flags&0x8000 != 0
}

// parseConstantPool reads constant_pool_count-1 entries (indices run 1..N-1;
// index 0 is reserved, and Long/Double entries consume two indices per
// JVMS 4.4.5).
func parseConstantPool(r *classReader, pc *ParsedClass) error {
	pc.cpIndex = make([]cpEntry, pc.cpCount)

	for i := 1; i < pc.cpCount; i++ {
		tag, err := r.u1()
		if err != nil {
			return cfe(fmt.Sprintf("could not read constant pool tag at index %d: %s", i, err))
		}

		switch int(tag) {
		case UTF8:
			length, err := r.u2()
			if err != nil {
				return cfe("could not read Utf8 length: " + err.Error())
			}
			raw, err := r.bytes(int(length))
			if err != nil {
				return cfe("could not read Utf8 bytes: " + err.Error())
			}
			decoded, err := mutf8.Decode(raw)
			if err != nil {
				return cfe("malformed modified UTF-8 constant at index " + itoa(i))
			}
			pc.cpIndex[i] = cpEntry{entryType: UTF8, slot: len(pc.utf8Refs)}
			pc.utf8Refs = append(pc.utf8Refs, utf8Entry{content: decoded})

		case IntConst:
			v, err := r.u4()
			if err != nil {
				return cfe("could not read Integer constant: " + err.Error())
			}
			pc.cpIndex[i] = cpEntry{entryType: IntConst, slot: len(pc.intConsts)}
			pc.intConsts = append(pc.intConsts, int(int32(v)))

		case FloatConst:
			v, err := r.u4()
			if err != nil {
				return cfe("could not read Float constant: " + err.Error())
			}
			pc.cpIndex[i] = cpEntry{entryType: FloatConst, slot: len(pc.floats)}
			pc.floats = append(pc.floats, float32FromBits(v))

		case LongConst:
			hi, err := r.u4()
			if err != nil {
				return cfe("could not read Long constant (high): " + err.Error())
			}
			lo, err := r.u4()
			if err != nil {
				return cfe("could not read Long constant (low): " + err.Error())
			}
			pc.cpIndex[i] = cpEntry{entryType: LongConst, slot: len(pc.longConsts)}
			pc.longConsts = append(pc.longConsts, int64(uint64(hi)<<32|uint64(lo)))
			i++ // Long/Double take two constant-pool slots

		case DoubleConst:
			hi, err := r.u4()
			if err != nil {
				return cfe("could not read Double constant (high): " + err.Error())
			}
			lo, err := r.u4()
			if err != nil {
				return cfe("could not read Double constant (low): " + err.Error())
			}
			pc.cpIndex[i] = cpEntry{entryType: DoubleConst, slot: len(pc.doubles)}
			pc.doubles = append(pc.doubles, float64FromBits(uint64(hi)<<32|uint64(lo)))
			i++

		case ClassRef:
			nameIdx, err := r.u2()
			if err != nil {
				return cfe("could not read Class name_index: " + err.Error())
			}
			pc.cpIndex[i] = cpEntry{entryType: ClassRef, slot: len(pc.classRefs)}
			pc.classRefs = append(pc.classRefs, uint32(nameIdx))

		case StringConst:
			idx, err := r.u2()
			if err != nil {
				return cfe("could not read String index: " + err.Error())
			}
			pc.cpIndex[i] = cpEntry{entryType: StringConst, slot: len(pc.stringRefs)}
			pc.stringRefs = append(pc.stringRefs, stringConstantEntry{index: int(idx)})

		case FieldRef:
			classIdx, err := r.u2()
			if err != nil {
				return cfe("could not read Fieldref class_index: " + err.Error())
			}
			natIdx, err := r.u2()
			if err != nil {
				return cfe("could not read Fieldref name_and_type_index: " + err.Error())
			}
			pc.cpIndex[i] = cpEntry{entryType: FieldRef, slot: len(pc.fieldRefs)}
			pc.fieldRefs = append(pc.fieldRefs, fieldRefEntry{classIndex: int(classIdx), nameAndTypeIndex: int(natIdx)})

		case MethodRef:
			classIdx, err := r.u2()
			if err != nil {
				return cfe("could not read Methodref class_index: " + err.Error())
			}
			natIdx, err := r.u2()
			if err != nil {
				return cfe("could not read Methodref name_and_type_index: " + err.Error())
			}
			pc.cpIndex[i] = cpEntry{entryType: MethodRef, slot: len(pc.methodRefs)}
			pc.methodRefs = append(pc.methodRefs, methodRefEntry{classIndex: int(classIdx), nameAndTypeIndex: int(natIdx)})

		case Interface:
			classIdx, err := r.u2()
			if err != nil {
				return cfe("could not read InterfaceMethodref class_index: " + err.Error())
			}
			natIdx, err := r.u2()
			if err != nil {
				return cfe("could not read InterfaceMethodref name_and_type_index: " + err.Error())
			}
			pc.cpIndex[i] = cpEntry{entryType: Interface, slot: len(pc.interfaceRefs)}
			pc.interfaceRefs = append(pc.interfaceRefs, interfaceRefEntry{classIndex: int(classIdx), nameAndTypeIndex: int(natIdx)})

		case NameAndType:
			nameIdx, err := r.u2()
			if err != nil {
				return cfe("could not read NameAndType name_index: " + err.Error())
			}
			descIdx, err := r.u2()
			if err != nil {
				return cfe("could not read NameAndType descriptor_index: " + err.Error())
			}
			pc.cpIndex[i] = cpEntry{entryType: NameAndType, slot: len(pc.nameAndTypes)}
			pc.nameAndTypes = append(pc.nameAndTypes, nameAndTypeEntry{nameIndex: int(nameIdx), descriptorIndex: int(descIdx)})

		case MethodHandle:
			kind, err := r.u1()
			if err != nil {
				return cfe("could not read MethodHandle reference_kind: " + err.Error())
			}
			idx, err := r.u2()
			if err != nil {
				return cfe("could not read MethodHandle reference_index: " + err.Error())
			}
			pc.cpIndex[i] = cpEntry{entryType: MethodHandle, slot: len(pc.methodHandles)}
			pc.methodHandles = append(pc.methodHandles, methodHandleEntry{referenceKind: int(kind), referenceIndex: int(idx)})

		case MethodType:
			descIdx, err := r.u2()
			if err != nil {
				return cfe("could not read MethodType descriptor_index: " + err.Error())
			}
			pc.cpIndex[i] = cpEntry{entryType: MethodType, slot: len(pc.methodTypes)}
			pc.methodTypes = append(pc.methodTypes, int(descIdx))

		case Dynamic:
			bsIdx, err := r.u2()
			if err != nil {
				return cfe("could not read Dynamic bootstrap_method_attr_index: " + err.Error())
			}
			natIdx, err := r.u2()
			if err != nil {
				return cfe("could not read Dynamic name_and_type_index: " + err.Error())
			}
			pc.cpIndex[i] = cpEntry{entryType: Dynamic, slot: len(pc.dynamics)}
			pc.dynamics = append(pc.dynamics, dynamic{bootstrapIndex: int(bsIdx), nameAndType: int(natIdx)})

		case InvokeDynamic:
			bsIdx, err := r.u2()
			if err != nil {
				return cfe("could not read InvokeDynamic bootstrap_method_attr_index: " + err.Error())
			}
			natIdx, err := r.u2()
			if err != nil {
				return cfe("could not read InvokeDynamic name_and_type_index: " + err.Error())
			}
			pc.cpIndex[i] = cpEntry{entryType: InvokeDynamic, slot: len(pc.invokeDynamics)}
			pc.invokeDynamics = append(pc.invokeDynamics, invokeDynamic{bootstrapIndex: int(bsIdx), nameAndType: int(natIdx)})

		case Module:
			nameIdx, err := r.u2()
			if err != nil {
				return cfe("could not read Module name_index: " + err.Error())
			}
			pc.cpIndex[i] = cpEntry{entryType: Module, slot: int(nameIdx)}

		case Package:
			nameIdx, err := r.u2()
			if err != nil {
				return cfe("could not read Package name_index: " + err.Error())
			}
			pc.cpIndex[i] = cpEntry{entryType: Package, slot: int(nameIdx)}

		default:
			return cfe(fmt.Sprintf("invalid constant pool tag %d at index %d", tag, i))
		}
	}
	return nil
}

func itoa(i int) string {
	return fmt.Sprintf("%d", i)
}
