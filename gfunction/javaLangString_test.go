/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package gfunction

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marrowvm/marrow/object"
)

func TestMethodSignatureFindsRegisteredStringMethod(t *testing.T) {
	g, ok := MethodSignature("java/lang/String", "charAt", "(I)C")
	assert.True(t, ok)
	assert.Equal(t, 1, g.ParamSlots)
}

func TestMethodSignatureMissingReturnsFalse(t *testing.T) {
	_, ok := MethodSignature("java/lang/String", "noSuchMethod", "()V")
	assert.False(t, ok)
}

func TestStringCharAt(t *testing.T) {
	s := object.StringObjectFromGoString("hello")
	got := stringCharAt([]interface{}{s, int64(1)})
	assert.Equal(t, int64('e'), got)
}

func TestCompareToCaseSensitive(t *testing.T) {
	a := object.StringObjectFromGoString("abc")
	b := object.StringObjectFromGoString("abd")
	assert.Equal(t, int64(-1), compareToCaseSensitive([]interface{}{a, b}))
	assert.Equal(t, int64(1), compareToCaseSensitive([]interface{}{b, a}))
	assert.Equal(t, int64(0), compareToCaseSensitive([]interface{}{a, object.StringObjectFromGoString("abc")}))
}

func TestCompareToIgnoreCase(t *testing.T) {
	a := object.StringObjectFromGoString("ABC")
	b := object.StringObjectFromGoString("abc")
	assert.Equal(t, int64(0), compareToIgnoreCase([]interface{}{a, b}))
}

func TestStringConcat(t *testing.T) {
	a := object.StringObjectFromGoString("foo")
	b := object.StringObjectFromGoString("bar")
	result := stringConcat([]interface{}{a, b}).(*object.Object)
	assert.Equal(t, "foobar", object.GoStringFromStringObject(result))
}
