/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package jvm

import "github.com/marrowvm/marrow/object"

// throwException synthesizes a Java exception object of the named class
// with a "detailMessage" field and wraps it as the excReturn the
// interpreter loop recognizes, for the handful of exceptions the
// interpreter itself raises (NullPointerException, ArithmeticException,
// ArrayIndexOutOfBoundsException, ...) rather than ones thrown by
// application bytecode via athrow.
func throwException(className, message string) error {
	obj := object.MakeObject(className)
	obj.FieldTable["detailMessage"] = &object.Field{
		Ftype:  "Ljava/lang/String;",
		Fvalue: object.StringObjectFromGoString(message),
	}
	return &excReturn{Obj: obj}
}
