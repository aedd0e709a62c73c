package classloader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCheckConstantPoolCountMismatch(t *testing.T) {
	pc := ParsedClass{}
	pc.cpIndex = append(pc.cpIndex, cpEntry{})
	pc.cpIndex = append(pc.cpIndex, cpEntry{entryType: UTF8, slot: 0})
	pc.utf8Refs = append(pc.utf8Refs, utf8Entry{content: "x"})
	pc.cpCount = 4 // should be 2

	err := formatCheckConstantPool(&pc)
	assert.Error(t, err)
}

func TestFormatCheckClassRefMustPointToUtf8(t *testing.T) {
	pc := ParsedClass{}
	pc.cpIndex = append(pc.cpIndex, cpEntry{})
	pc.cpIndex = append(pc.cpIndex, cpEntry{entryType: ClassRef, slot: 0})
	pc.classRefs = append(pc.classRefs, 99) // points nowhere
	pc.cpCount = len(pc.cpIndex)

	err := formatCheckConstantPool(&pc)
	assert.Error(t, err)
}

func TestFormatCheckValidFieldDescriptor(t *testing.T) {
	assert.True(t, isValidFieldDescriptor("I"))
	assert.True(t, isValidFieldDescriptor("[[Ljava/lang/String;"))
	assert.False(t, isValidFieldDescriptor("Q"))
	assert.False(t, isValidFieldDescriptor("Ljava/lang/String")) // missing ';'
}

func TestFormatCheckValidMethodDescriptor(t *testing.T) {
	assert.True(t, isValidMethodDescriptor("()V"))
	assert.True(t, isValidMethodDescriptor("(IJLjava/lang/String;)Z"))
	assert.False(t, isValidMethodDescriptor("(I"))
	assert.False(t, isValidMethodDescriptor("V"))
}

func TestFormatCheckUnqualifiedNameRejectsSeparators(t *testing.T) {
	assert.True(t, isValidUnqualifiedName("doStuff"))
	assert.False(t, isValidUnqualifiedName("do/Stuff"))
	assert.False(t, isValidUnqualifiedName(""))
}
