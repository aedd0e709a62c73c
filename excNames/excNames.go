/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package excNames enumerates the JVM exception/error kinds the runtime
// throws internally (as opposed to exceptions a running Java program
// constructs itself) and the binary class names the VM uses to locate
// their corresponding java.lang/java.io classes when it has to actually
// instantiate and throw one.
package excNames

// JVMexception identifies an internally-raised exception/error kind. The
// interpreter and loader raise these by kind; gfunction/jvm map a kind to
// its binary class name (below) only when an actual Throwable object needs
// to be constructed and thrown into the running program.
type JVMexception int

const (
	Unknown JVMexception = iota

	// linkage errors
	ClassFormatError
	UnsupportedClassVersionError
	NoClassDefFoundError
	ClassCircularityError
	LinkageError
	IncompatibleClassChangeError
	NoSuchFieldError
	NoSuchMethodError
	AbstractMethodError
	IllegalAccessError
	UnsatisfiedLinkError
	VerifyError

	// runtime exceptions
	NullPointerException
	ClassCastException
	ArrayStoreException
	ArrayIndexOutOfBoundsException
	NegativeArraySizeException
	ArithmeticException
	IllegalArgumentException
	IllegalStateException
	ClassNotFoundException
	ClassNotLoadedException
	CloneNotSupportedException
	UnsupportedOperationException
	IndexOutOfBoundsException
	StringIndexOutOfBoundsException
	PatternSyntaxException
	IOException

	// VM errors
	InternalError
	VirtualMachineError
	OutOfMemoryError
	StackOverflowError
)

// names maps each kind to the binary (slash-separated) class name used to
// locate it during class loading when the VM needs to actually instantiate
// and throw the exception object.
var names = map[JVMexception]string{
	ClassFormatError:               "java/lang/ClassFormatError",
	UnsupportedClassVersionError:   "java/lang/UnsupportedClassVersionError",
	NoClassDefFoundError:           "java/lang/NoClassDefFoundError",
	ClassCircularityError:          "java/lang/ClassCircularityError",
	LinkageError:                   "java/lang/LinkageError",
	IncompatibleClassChangeError:   "java/lang/IncompatibleClassChangeError",
	NoSuchFieldError:               "java/lang/NoSuchFieldError",
	NoSuchMethodError:              "java/lang/NoSuchMethodError",
	AbstractMethodError:            "java/lang/AbstractMethodError",
	IllegalAccessError:             "java/lang/IllegalAccessError",
	UnsatisfiedLinkError:           "java/lang/UnsatisfiedLinkError",
	VerifyError:                    "java/lang/VerifyError",
	NullPointerException:           "java/lang/NullPointerException",
	ClassCastException:             "java/lang/ClassCastException",
	ArrayStoreException:            "java/lang/ArrayStoreException",
	ArrayIndexOutOfBoundsException: "java/lang/ArrayIndexOutOfBoundsException",
	NegativeArraySizeException:     "java/lang/NegativeArraySizeException",
	ArithmeticException:            "java/lang/ArithmeticException",
	IllegalArgumentException:       "java/lang/IllegalArgumentException",
	IllegalStateException:          "java/lang/IllegalStateException",
	ClassNotFoundException:         "java/lang/ClassNotFoundException",
	ClassNotLoadedException:        "java/lang/ClassNotFoundException",
	CloneNotSupportedException:     "java/lang/CloneNotSupportedException",
	UnsupportedOperationException:  "java/lang/UnsupportedOperationException",
	IndexOutOfBoundsException:      "java/lang/IndexOutOfBoundsException",
	StringIndexOutOfBoundsException: "java/lang/StringIndexOutOfBoundsException",
	PatternSyntaxException:         "java/util/regex/PatternSyntaxException",
	IOException:                    "java/io/IOException",
	InternalError:                  "java/lang/InternalError",
	VirtualMachineError:            "java/lang/VirtualMachineError",
	OutOfMemoryError:               "java/lang/OutOfMemoryError",
	StackOverflowError:             "java/lang/StackOverflowError",
}

// JVMClassName returns the binary class name for a given exception kind,
// or "" if the kind has no associated class (Unknown).
func JVMClassName(kind JVMexception) string {
	return names[kind]
}

// IsLinkageError reports whether kind is one of the JVMS 5.3/5.4 linkage
// error family, which the loader and resolver raise instead of letting a
// format/verification problem surface as a generic internal error.
func IsLinkageError(kind JVMexception) bool {
	switch kind {
	case ClassFormatError, UnsupportedClassVersionError, NoClassDefFoundError,
		ClassCircularityError, LinkageError, IncompatibleClassChangeError,
		NoSuchFieldError, NoSuchMethodError, AbstractMethodError,
		IllegalAccessError, UnsatisfiedLinkError, VerifyError:
		return true
	default:
		return false
	}
}
