/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package object

// NewClassMirror returns the java.lang.Class instance that represents
// className at the Java level (the object returned by Foo.class /
// Object.getClass()). Each call creates a new object; classloader and
// jvm do not call it, so loaded classes carry no mirror and nothing
// caches one per class.
func NewClassMirror(className string) *Object {
	mirror := MakeObject("java/lang/Class")
	mirror.FieldTable["name"] = &Field{Ftype: "Ljava/lang/String;", Fvalue: className}
	return mirror
}

// MirroredClassName returns the class name a Class mirror object
// represents, or "" if obj is not a Class mirror.
func MirroredClassName(obj *Object) string {
	if obj == nil || obj.ClassName() != "java/lang/Class" {
		return ""
	}
	f, ok := obj.FieldTable["name"]
	if !ok {
		return ""
	}
	if s, ok := f.Fvalue.(string); ok {
		return s
	}
	return ""
}
