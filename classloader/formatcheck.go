/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import (
	"fmt"
	"strings"
)

// formatCheckClass runs the structural checks JVMS 4.8 requires before a
// class is eligible for linking: constant-pool entries must be internally
// consistent (a Class entry must point at a Utf8, a NameAndType's
// descriptor must actually parse, etc.), and field/method names and
// descriptors must be syntactically valid.
func formatCheckClass(pc *ParsedClass) error {
	if err := formatCheckConstantPool(pc); err != nil {
		return err
	}
	if err := formatCheckFields(pc); err != nil {
		return err
	}
	if err := formatCheckMethods(pc); err != nil {
		return err
	}
	return nil
}

func formatCheckConstantPool(pc *ParsedClass) error {
	if pc.cpCount != len(pc.cpIndex) {
		return cfe(fmt.Sprintf(
			"constant_pool_count (%d) does not match number of parsed entries (%d)",
			pc.cpCount, len(pc.cpIndex)))
	}

	for i := 1; i < len(pc.cpIndex); i++ {
		entry := pc.cpIndex[i]
		switch entry.entryType {
		case 0:
			continue // the slot following a Long/Double, intentionally unused
		case UTF8:
			if entry.slot < 0 || entry.slot >= len(pc.utf8Refs) {
				return cfe(fmt.Sprintf("Utf8 entry at index %d has an invalid slot", i))
			}
		case ClassRef:
			if entry.slot < 0 || entry.slot >= len(pc.classRefs) {
				return cfe(fmt.Sprintf("Class entry at index %d has an invalid slot", i))
			}
			nameIdx := int(pc.classRefs[entry.slot])
			if _, err := resolveUtf8(pc, nameIdx); err != nil {
				return cfe(fmt.Sprintf("Class entry at index %d does not point to a Utf8 entry", i))
			}
		case StringConst:
			if entry.slot < 0 || entry.slot >= len(pc.stringRefs) {
				return cfe(fmt.Sprintf("String entry at index %d has an invalid slot", i))
			}
			sc := pc.stringRefs[entry.slot]
			if _, err := resolveUtf8(pc, sc.index); err != nil {
				return cfe(fmt.Sprintf("String entry at index %d does not point to a Utf8 entry", i))
			}
		case FieldRef, MethodRef, Interface:
			if err := checkRefEntry(pc, entry); err != nil {
				return err
			}
		case NameAndType:
			if entry.slot < 0 || entry.slot >= len(pc.nameAndTypes) {
				return cfe(fmt.Sprintf("NameAndType entry at index %d has an invalid slot", i))
			}
			nat := pc.nameAndTypes[entry.slot]
			if _, err := resolveUtf8(pc, nat.nameIndex); err != nil {
				return cfe(fmt.Sprintf("NameAndType entry at index %d has an invalid name_index", i))
			}
			desc, err := resolveUtf8(pc, nat.descriptorIndex)
			if err != nil {
				return cfe(fmt.Sprintf("NameAndType entry at index %d has an invalid descriptor_index", i))
			}
			if !isValidFieldDescriptor(desc) && !isValidMethodDescriptor(desc) {
				return cfe(fmt.Sprintf("NameAndType entry at index %d has a malformed descriptor: %s", i, desc))
			}
		case MethodHandle:
			if entry.slot < 0 || entry.slot >= len(pc.methodHandles) {
				return cfe(fmt.Sprintf("MethodHandle entry at index %d has an invalid slot", i))
			}
			mh := pc.methodHandles[entry.slot]
			if mh.referenceKind < 1 || mh.referenceKind > 9 {
				return cfe(fmt.Sprintf("MethodHandle entry at index %d has invalid reference_kind %d", i, mh.referenceKind))
			}
		}
	}
	return nil
}

func checkRefEntry(pc *ParsedClass, entry cpEntry) error {
	var classIndex, natIndex int
	switch entry.entryType {
	case FieldRef:
		if entry.slot < 0 || entry.slot >= len(pc.fieldRefs) {
			return cfe("Fieldref entry has an invalid slot")
		}
		classIndex, natIndex = pc.fieldRefs[entry.slot].classIndex, pc.fieldRefs[entry.slot].nameAndTypeIndex
	case MethodRef:
		if entry.slot < 0 || entry.slot >= len(pc.methodRefs) {
			return cfe("Methodref entry has an invalid slot")
		}
		classIndex, natIndex = pc.methodRefs[entry.slot].classIndex, pc.methodRefs[entry.slot].nameAndTypeIndex
	case Interface:
		if entry.slot < 0 || entry.slot >= len(pc.interfaceRefs) {
			return cfe("InterfaceMethodref entry has an invalid slot")
		}
		classIndex, natIndex = pc.interfaceRefs[entry.slot].classIndex, pc.interfaceRefs[entry.slot].nameAndTypeIndex
	}
	if classIndex < 1 || classIndex >= len(pc.cpIndex) || pc.cpIndex[classIndex].entryType != ClassRef {
		return cfe("ref entry's class_index does not point to a Class entry")
	}
	if natIndex < 1 || natIndex >= len(pc.cpIndex) || pc.cpIndex[natIndex].entryType != NameAndType {
		return cfe("ref entry's name_and_type_index does not point to a NameAndType entry")
	}
	return nil
}

func formatCheckFields(pc *ParsedClass) error {
	for _, f := range pc.fields {
		name, err := resolveUtf8(pc, f.name)
		if err != nil {
			return cfe("field has an invalid name_index")
		}
		if !isValidUnqualifiedName(name) {
			return cfe("field name is not a valid unqualified name: " + name)
		}
		desc, err := resolveUtf8(pc, f.description)
		if err != nil {
			return cfe("field has an invalid descriptor_index")
		}
		if !isValidFieldDescriptor(desc) {
			return cfe("field has an invalid descriptor: " + desc)
		}
	}
	return nil
}

func formatCheckMethods(pc *ParsedClass) error {
	for _, m := range pc.methods {
		name, err := resolveUtf8(pc, m.name)
		if err != nil {
			return cfe("method has an invalid name_index")
		}
		if name != "<init>" && name != "<clinit>" && !isValidUnqualifiedName(name) {
			return cfe("method name is not a valid unqualified name: " + name)
		}
		desc, err := resolveUtf8(pc, m.description)
		if err != nil {
			return cfe("method has an invalid descriptor_index")
		}
		if !isValidMethodDescriptor(desc) {
			return cfe("method has an invalid descriptor: " + desc)
		}
	}
	return nil
}

// isValidUnqualifiedName rejects the characters JVMS 4.2.2 forbids in an
// unqualified name: '.', ';', '[', and '/' (fields/methods; class names
// use '/' as their own package separator and are checked separately).
func isValidUnqualifiedName(name string) bool {
	if name == "" {
		return false
	}
	return !strings.ContainsAny(name, ".;[/")
}

func isValidFieldDescriptor(desc string) bool {
	_, rest, ok := parseFieldDescriptorPrefix(desc)
	return ok && rest == ""
}

// parseFieldDescriptorPrefix parses one FieldType off the front of desc
// (JVMS 4.3.2), returning the base type tag, the unconsumed remainder, and
// whether parsing succeeded.
func parseFieldDescriptorPrefix(desc string) (tag byte, rest string, ok bool) {
	if desc == "" {
		return 0, desc, false
	}
	depth := 0
	for len(desc) > 0 && desc[0] == '[' {
		desc = desc[1:]
		depth++
	}
	if desc == "" {
		return 0, desc, false
	}
	switch desc[0] {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z':
		return desc[0], desc[1:], true
	case 'L':
		idx := strings.IndexByte(desc, ';')
		if idx < 0 {
			return 0, desc, false
		}
		return 'L', desc[idx+1:], true
	default:
		return 0, desc, false
	}
}

func isValidMethodDescriptor(desc string) bool {
	if len(desc) == 0 || desc[0] != '(' {
		return false
	}
	desc = desc[1:]
	for len(desc) > 0 && desc[0] != ')' {
		_, rest, ok := parseFieldDescriptorPrefix(desc)
		if !ok {
			return false
		}
		desc = rest
	}
	if len(desc) == 0 {
		return false
	}
	desc = desc[1:] // consume ')'
	if desc == "V" {
		return true
	}
	_, rest, ok := parseFieldDescriptorPrefix(desc)
	return ok && rest == ""
}
