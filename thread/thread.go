/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package thread models a JavaThread: the frame stack an interpreter
// loop runs against, plus the handful of fields the runtime needs to
// track per-thread (a name, a pending/in-flight exception slot, and a
// trace flag; the interpreter reads only jvm.MainThread's flag, for
// every frame stack it runs).
package thread

import (
	"container/list"
	"sync/atomic"
)

var nextID int64

// JavaThread is marrow's runtime thread record. It is deliberately not
// a wrapper around a goroutine: interpretation of a given JavaThread
// always happens on one goroutine at a time, but the struct itself
// holds no goroutine handle, since the interpreter loop (jvm.runFrame)
// is what actually runs on a goroutine and takes the thread's frame
// stack as its argument.
type JavaThread struct {
	ID    int64
	Name  string
	Stack *list.List // frame stack, see package frames
	Trace bool        // per-instruction trace logging (only MainThread's is read)

	// PendingException is a slot for an in-flight java/lang/Throwable
	// object. No code sets it: the interpreter carries a thrown exception
	// through runFrame as an error value while it searches exception
	// tables (JVMS 2.10, 6.5 athrow).
	PendingException interface{}

	// ExecFailed is what jvm.RunMain returns when main is a native
	// method. No code sets it, so it stays nil; a failure of an
	// interpreted main is returned by RunMain directly.
	ExecFailed error
}

// CreateThread returns a new, empty JavaThread with its frame stack
// initialized and a process-unique ID.
func CreateThread() JavaThread {
	return JavaThread{
		ID:    atomic.AddInt64(&nextID, 1),
		Stack: list.New(),
	}
}

// ExecThread is an alias of JavaThread, used by jvm's showFrameStack
// and its test to name the thread executing main().
type ExecThread = JavaThread
