/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import "fmt"

// attrNameOf resolves an already-read attribute_name_index to its string,
// needed while parsing (before the class's Utf8 pool has been handed off
// to the postable form) to decide which decoder to dispatch an attribute's
// raw bytes to.
func attrNameOf(pc *ParsedClass, nameIdx uint16) string {
	s, err := resolveUtf8(pc, int(nameIdx))
	if err != nil {
		return ""
	}
	return s
}

// readAttribute reads one generic attribute_info structure: a name index,
// a length, and that many raw bytes. Dispatch on the name happens in the
// caller, which re-parses attrContent as needed (Code, ConstantValue, ...).
func readAttribute(r *classReader) (attr, error) {
	nameIdx, err := r.u2()
	if err != nil {
		return attr{}, cfe("could not read attribute_name_index: " + err.Error())
	}
	length, err := r.u4()
	if err != nil {
		return attr{}, cfe("could not read attribute_length: " + err.Error())
	}
	content, err := r.bytes(int(length))
	if err != nil {
		return attr{}, cfe("could not read attribute body: " + err.Error())
	}
	return attr{attrName: int(nameIdx), attrSize: int(length), attrContent: content}, nil
}

func parseFields(r *classReader, pc *ParsedClass) error {
	count, err := r.u2()
	if err != nil {
		return cfe("could not read fields_count: " + err.Error())
	}
	pc.fieldCount = int(count)

	for i := 0; i < int(count); i++ {
		flags, err := r.u2()
		if err != nil {
			return cfe("could not read field access_flags: " + err.Error())
		}
		nameIdx, err := r.u2()
		if err != nil {
			return cfe("could not read field name_index: " + err.Error())
		}
		descIdx, err := r.u2()
		if err != nil {
			return cfe("could not read field descriptor_index: " + err.Error())
		}
		attrCount, err := r.u2()
		if err != nil {
			return cfe("could not read field attributes_count: " + err.Error())
		}

		f := field{
			accessFlags: int(flags),
			isStatic:    flags&0x0008 != 0,
			name:        int(nameIdx),
			description: int(descIdx),
		}

		for j := 0; j < int(attrCount); j++ {
			a, err := readAttribute(r)
			if err != nil {
				return err
			}
			if attrNameOf(pc, uint16(a.attrName)) == "ConstantValue" && len(a.attrContent) == 2 {
				cpIdx := int(uint16(a.attrContent[0])<<8 | uint16(a.attrContent[1]))
				f.constValue = resolveConstantValue(pc, cpIdx)
			}
			f.attributes = append(f.attributes, a)
		}
		pc.fields = append(pc.fields, f)
	}
	return nil
}

func resolveConstantValue(pc *ParsedClass, cpIdx int) interface{} {
	if cpIdx < 1 || cpIdx >= len(pc.cpIndex) {
		return nil
	}
	e := pc.cpIndex[cpIdx]
	switch e.entryType {
	case IntConst:
		return pc.intConsts[e.slot]
	case LongConst:
		return pc.longConsts[e.slot]
	case FloatConst:
		return pc.floats[e.slot]
	case DoubleConst:
		return pc.doubles[e.slot]
	case StringConst:
		sc := pc.stringRefs[e.slot]
		s, _ := resolveUtf8(pc, sc.index)
		return s
	default:
		return nil
	}
}

func parseMethods(r *classReader, pc *ParsedClass) error {
	count, err := r.u2()
	if err != nil {
		return cfe("could not read methods_count: " + err.Error())
	}
	pc.methodCount = int(count)

	for i := 0; i < int(count); i++ {
		flags, err := r.u2()
		if err != nil {
			return cfe("could not read method access_flags: " + err.Error())
		}
		nameIdx, err := r.u2()
		if err != nil {
			return cfe("could not read method name_index: " + err.Error())
		}
		descIdx, err := r.u2()
		if err != nil {
			return cfe("could not read method descriptor_index: " + err.Error())
		}
		attrCount, err := r.u2()
		if err != nil {
			return cfe("could not read method attributes_count: " + err.Error())
		}

		m := method{
			accessFlags: int(flags),
			name:        int(nameIdx),
			description: int(descIdx),
		}

		for j := 0; j < int(attrCount); j++ {
			a, err := readAttribute(r)
			if err != nil {
				return err
			}
			switch attrNameOf(pc, uint16(a.attrName)) {
			case "Code":
				ca, err := parseCodeAttribute(pc, a.attrContent)
				if err != nil {
					return err
				}
				m.codeAttr = ca
			case "Exceptions":
				exIdx, err := parseExceptionsAttribute(a.attrContent)
				if err != nil {
					return err
				}
				m.exceptions = exIdx
			case "MethodParameters":
				params, err := parseMethodParametersAttribute(pc, a.attrContent)
				if err != nil {
					return err
				}
				m.parameters = params
			case "Deprecated":
				m.deprecated = true
			case "AnnotationDefault":
				ev, err := DecodeAnnotationDefault(pc, a.attrContent)
				if err != nil {
					return err
				}
				m.annotationDefault = &ev
			}
			m.attributes = append(m.attributes, a)
		}
		pc.methods = append(pc.methods, m)
	}
	return nil
}

// parseCodeAttribute decodes a method's Code attribute (JVMS 4.7.3): its
// own max_stack/max_locals/code array, exception table, and nested
// attributes (of which only LineNumberTable is decoded further here;
// everything else -- StackMapTable, LocalVariableTable, etc. -- is kept
// raw).
func parseCodeAttribute(pc *ParsedClass, content []byte) (codeAttrib, error) {
	r := &classReader{data: content}

	maxStack, err := r.u2()
	if err != nil {
		return codeAttrib{}, cfe("Code: could not read max_stack: " + err.Error())
	}
	maxLocals, err := r.u2()
	if err != nil {
		return codeAttrib{}, cfe("Code: could not read max_locals: " + err.Error())
	}
	codeLength, err := r.u4()
	if err != nil {
		return codeAttrib{}, cfe("Code: could not read code_length: " + err.Error())
	}
	code, err := r.bytes(int(codeLength))
	if err != nil {
		return codeAttrib{}, cfe("Code: could not read code array: " + err.Error())
	}

	ca := codeAttrib{
		maxStack:  int(maxStack),
		maxLocals: int(maxLocals),
		code:      append([]byte(nil), code...),
	}

	excTableLen, err := r.u2()
	if err != nil {
		return codeAttrib{}, cfe("Code: could not read exception_table_length: " + err.Error())
	}
	for i := 0; i < int(excTableLen); i++ {
		startPc, err := r.u2()
		if err != nil {
			return codeAttrib{}, cfe("Code: could not read exception start_pc: " + err.Error())
		}
		endPc, err := r.u2()
		if err != nil {
			return codeAttrib{}, cfe("Code: could not read exception end_pc: " + err.Error())
		}
		handlerPc, err := r.u2()
		if err != nil {
			return codeAttrib{}, cfe("Code: could not read exception handler_pc: " + err.Error())
		}
		catchType, err := r.u2()
		if err != nil {
			return codeAttrib{}, cfe("Code: could not read exception catch_type: " + err.Error())
		}
		ca.exceptions = append(ca.exceptions, exception{
			startPc:   int(startPc),
			endPc:     int(endPc),
			handlerPc: int(handlerPc),
			catchType: int(catchType),
		})
	}

	subAttrCount, err := r.u2()
	if err != nil {
		return codeAttrib{}, cfe("Code: could not read attributes_count: " + err.Error())
	}
	for i := 0; i < int(subAttrCount); i++ {
		a, err := readAttribute(r)
		if err != nil {
			return codeAttrib{}, err
		}
		if attrNameOf(pc, uint16(a.attrName)) == "LineNumberTable" {
			table, err := parseLineNumberTable(a.attrContent)
			if err != nil {
				return codeAttrib{}, err
			}
			ca.sourceLineTable = &table
		}
		ca.attributes = append(ca.attributes, a)
	}

	return ca, nil
}

func parseLineNumberTable(content []byte) ([]BytecodeToSourceLine, error) {
	r := &classReader{data: content}
	count, err := r.u2()
	if err != nil {
		return nil, cfe("LineNumberTable: could not read line_number_table_length: " + err.Error())
	}
	out := make([]BytecodeToSourceLine, 0, count)
	for i := 0; i < int(count); i++ {
		pc, err := r.u2()
		if err != nil {
			return nil, cfe("LineNumberTable: could not read start_pc: " + err.Error())
		}
		line, err := r.u2()
		if err != nil {
			return nil, cfe("LineNumberTable: could not read line_number: " + err.Error())
		}
		out = append(out, BytecodeToSourceLine{Pc: int(pc), Line: int(line)})
	}
	return out, nil
}

func parseExceptionsAttribute(content []byte) ([]uint32, error) {
	r := &classReader{data: content}
	count, err := r.u2()
	if err != nil {
		return nil, cfe("Exceptions: could not read number_of_exceptions: " + err.Error())
	}
	out := make([]uint32, 0, count)
	for i := 0; i < int(count); i++ {
		idx, err := r.u2()
		if err != nil {
			return nil, cfe("Exceptions: could not read exception_index_table entry: " + err.Error())
		}
		out = append(out, uint32(idx))
	}
	return out, nil
}

func parseMethodParametersAttribute(pc *ParsedClass, content []byte) ([]paramAttrib, error) {
	r := &classReader{data: content}
	count, err := r.u1()
	if err != nil {
		return nil, cfe("MethodParameters: could not read parameters_count: " + err.Error())
	}
	out := make([]paramAttrib, 0, count)
	for i := 0; i < int(count); i++ {
		nameIdx, err := r.u2()
		if err != nil {
			return nil, cfe("MethodParameters: could not read name_index: " + err.Error())
		}
		flags, err := r.u2()
		if err != nil {
			return nil, cfe("MethodParameters: could not read access_flags: " + err.Error())
		}
		name := ""
		if nameIdx != 0 {
			name, _ = resolveUtf8(pc, int(nameIdx))
		}
		out = append(out, paramAttrib{name: name, accessFlags: int(flags)})
	}
	return out, nil
}

func parseClassAttributes(r *classReader, pc *ParsedClass) error {
	count, err := r.u2()
	if err != nil {
		return cfe("could not read class attributes_count: " + err.Error())
	}
	pc.attribCount = int(count)

	for i := 0; i < int(count); i++ {
		a, err := readAttribute(r)
		if err != nil {
			return err
		}
		switch attrNameOf(pc, uint16(a.attrName)) {
		case "SourceFile":
			if len(a.attrContent) == 2 {
				idx := int(uint16(a.attrContent[0])<<8 | uint16(a.attrContent[1]))
				name, _ := resolveUtf8(pc, idx)
				pc.sourceFile = name
			}
		case "Deprecated":
			pc.deprecated = true
		case "BootstrapMethods":
			bms, err := parseBootstrapMethods(a.attrContent)
			if err != nil {
				return err
			}
			pc.bootstraps = bms
			pc.bootstrapCount = len(bms)
		case "Module":
			name, err := parseModuleAttribute(pc, a.attrContent)
			if err == nil {
				pc.moduleName = name
			}
		}
		pc.attributes = append(pc.attributes, a)
	}
	return nil
}

func parseBootstrapMethods(content []byte) ([]bootstrapMethod, error) {
	r := &classReader{data: content}
	count, err := r.u2()
	if err != nil {
		return nil, cfe("BootstrapMethods: could not read num_bootstrap_methods: " + err.Error())
	}
	out := make([]bootstrapMethod, 0, count)
	for i := 0; i < int(count); i++ {
		methodRef, err := r.u2()
		if err != nil {
			return nil, cfe("BootstrapMethods: could not read bootstrap_method_ref: " + err.Error())
		}
		argCount, err := r.u2()
		if err != nil {
			return nil, cfe("BootstrapMethods: could not read num_bootstrap_arguments: " + err.Error())
		}
		bm := bootstrapMethod{methodRef: int(methodRef)}
		for j := 0; j < int(argCount); j++ {
			argIdx, err := r.u2()
			if err != nil {
				return nil, cfe("BootstrapMethods: could not read bootstrap_arguments entry: " + err.Error())
			}
			bm.args = append(bm.args, int(argIdx))
		}
		out = append(out, bm)
	}
	return out, nil
}

// parseModuleAttribute decodes only the module's own name (JVMS 4.7.25);
// the attribute's requires/exports/opens/uses/provides tables are not
// read. The module registry in classloader/module.go is filled only
// through RegisterModule, not from this attribute.
func parseModuleAttribute(pc *ParsedClass, content []byte) (string, error) {
	r := &classReader{data: content}
	nameIdx, err := r.u2()
	if err != nil {
		return "", err
	}
	if nameIdx < 1 || int(nameIdx) >= len(pc.cpIndex) {
		return "", fmt.Errorf("invalid module_name_index")
	}
	e := pc.cpIndex[nameIdx]
	if e.entryType != Module {
		return "", fmt.Errorf("module_name_index does not point at a CONSTANT_Module entry")
	}
	return resolveUtf8(pc, e.slot)
}

// ElementValue is the decoded form of JVMS 4.7.16.1's element_value
// structure, used both for ordinary annotations and for the single
// top-level value an AnnotationDefault attribute carries (JVMS 4.7.22).
type ElementValue struct {
	Tag byte

	// ConstValue holds the resolved constant for tags B C D F I J S Z s.
	ConstValue interface{}

	// EnumTypeName/EnumConstName are set for tag 'e'.
	EnumTypeName string
	EnumConstName string

	// ClassInfo is set for tag 'c' (a descriptor string).
	ClassInfo string

	// Annotation is set for tag '@'.
	Annotation *Annotation

	// ArrayValues is set for tag '['.
	ArrayValues []ElementValue
}

// Annotation is the decoded form of JVMS 4.7.16's annotation structure.
type Annotation struct {
	TypeDescriptor string
	Pairs          map[string]ElementValue
}

// DecodeAnnotationDefault parses an AnnotationDefault attribute's raw
// bytes into the single ElementValue it carries.
func DecodeAnnotationDefault(pc *ParsedClass, content []byte) (ElementValue, error) {
	r := &classReader{data: content}
	return decodeElementValue(r, pc)
}

func decodeElementValue(r *classReader, pc *ParsedClass) (ElementValue, error) {
	tag, err := r.u1()
	if err != nil {
		return ElementValue{}, cfe("element_value: could not read tag: " + err.Error())
	}
	ev := ElementValue{Tag: tag}

	switch tag {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 's':
		idx, err := r.u2()
		if err != nil {
			return ev, cfe("element_value: could not read const_value_index: " + err.Error())
		}
		if tag == 's' {
			name, _ := resolveUtf8(pc, int(idx))
			ev.ConstValue = name
		} else {
			ev.ConstValue = resolveConstantValue(pc, int(idx))
		}

	case 'e':
		typeIdx, err := r.u2()
		if err != nil {
			return ev, cfe("element_value: could not read type_name_index: " + err.Error())
		}
		constIdx, err := r.u2()
		if err != nil {
			return ev, cfe("element_value: could not read const_name_index: " + err.Error())
		}
		ev.EnumTypeName, _ = resolveUtf8(pc, int(typeIdx))
		ev.EnumConstName, _ = resolveUtf8(pc, int(constIdx))

	case 'c':
		classIdx, err := r.u2()
		if err != nil {
			return ev, cfe("element_value: could not read class_info_index: " + err.Error())
		}
		ev.ClassInfo, _ = resolveUtf8(pc, int(classIdx))

	case '@':
		ann, err := decodeAnnotation(r, pc)
		if err != nil {
			return ev, err
		}
		ev.Annotation = &ann

	case '[':
		count, err := r.u2()
		if err != nil {
			return ev, cfe("element_value: could not read num_values: " + err.Error())
		}
		for i := 0; i < int(count); i++ {
			sub, err := decodeElementValue(r, pc)
			if err != nil {
				return ev, err
			}
			ev.ArrayValues = append(ev.ArrayValues, sub)
		}

	default:
		return ev, cfe(fmt.Sprintf("element_value: unknown tag %q", tag))
	}

	return ev, nil
}

func decodeAnnotation(r *classReader, pc *ParsedClass) (Annotation, error) {
	typeIdx, err := r.u2()
	if err != nil {
		return Annotation{}, cfe("annotation: could not read type_index: " + err.Error())
	}
	typeDesc, _ := resolveUtf8(pc, int(typeIdx))
	ann := Annotation{TypeDescriptor: typeDesc, Pairs: make(map[string]ElementValue)}

	pairCount, err := r.u2()
	if err != nil {
		return ann, cfe("annotation: could not read num_element_value_pairs: " + err.Error())
	}
	for i := 0; i < int(pairCount); i++ {
		nameIdx, err := r.u2()
		if err != nil {
			return ann, cfe("annotation: could not read element_name_index: " + err.Error())
		}
		name, _ := resolveUtf8(pc, int(nameIdx))
		val, err := decodeElementValue(r, pc)
		if err != nil {
			return ann, err
		}
		ann.Pairs[name] = val
	}
	return ann, nil
}
