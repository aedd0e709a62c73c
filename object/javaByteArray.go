/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package object

import (
	"strings"
	"unicode"

	"github.com/marrowvm/marrow/stringPool"
	"github.com/marrowvm/marrow/types"
)

func GoStringFromJavaByteArray(jbarr []types.JavaByte) string {
	var sb strings.Builder
	for _, b := range jbarr {
		sb.WriteByte(byte(b))
	}
	return sb.String()
}

func JavaByteArrayFromGoString(str string) []types.JavaByte {
	jbarr := make([]types.JavaByte, len(str))
	for i, b := range []byte(str) {
		jbarr[i] = types.JavaByte(b)
	}
	return jbarr
}

func JavaByteArrayFromGoByteArray(gbarr []byte) []types.JavaByte {
	jbarr := make([]types.JavaByte, len(gbarr))
	for i, b := range gbarr {
		jbarr[i] = types.JavaByte(b)
	}
	return jbarr
}

func GoByteArrayFromJavaByteArray(jbarr []types.JavaByte) []byte {
	gbarr := make([]byte, len(jbarr))
	for i, b := range jbarr {
		gbarr[i] = byte(b)
	}
	return gbarr
}

// JavaByteArrayFromStringObject extracts a Java byte array from a String
// object's internal byte buffer.
func JavaByteArrayFromStringObject(obj *Object) []types.JavaByte {
	if !obj.IsStringObject() {
		return nil
	}
	return JavaByteArrayFromGoByteArray(ByteArrayFromStringObject(obj))
}

// StringObjectFromJavaByteArray creates a string object from a JavaByte
// array.
func StringObjectFromJavaByteArray(bytes []types.JavaByte) *Object {
	return StringObjectFromGoString(GoStringFromJavaByteArray(bytes))
}

// JavaByteArrayFromStringPoolIndex gets a byte array using a string pool
// index.
func JavaByteArrayFromStringPoolIndex(index uint32) []types.JavaByte {
	p := stringPool.GetStringPointer(index)
	if p == nil {
		return nil
	}
	return JavaByteArrayFromGoString(*p)
}

func JavaByteArrayEquals(jbarr1, jbarr2 []types.JavaByte) bool {
	if jbarr1 == nil || jbarr2 == nil {
		return jbarr1 == nil && jbarr2 == nil
	}
	if len(jbarr1) != len(jbarr2) {
		return false
	}
	for i, b := range jbarr1 {
		if b != jbarr2[i] {
			return false
		}
	}
	return true
}

func JavaByteArrayEqualsIgnoreCase(jbarr1, jbarr2 []types.JavaByte) bool {
	if jbarr1 == nil || jbarr2 == nil {
		return jbarr1 == nil && jbarr2 == nil
	}
	if len(jbarr1) != len(jbarr2) {
		return false
	}
	for i, b := range jbarr1 {
		if unicode.ToLower(rune(b)) != unicode.ToLower(rune(jbarr2[i])) {
			return false
		}
	}
	return true
}
