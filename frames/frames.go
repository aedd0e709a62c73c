/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package frames implements the per-invocation stack frame (JVMS 2.6):
// the local variable array, the operand stack, and the bookkeeping the
// interpreter needs to resume a caller once a call returns or unwinds
// through an exception handler. Frames are kept on a thread's frame
// stack as a container/list.List so that both normal return and
// exception propagation can walk/pop them without a fixed-size array.
package frames

import (
	"container/list"

	"github.com/marrowvm/marrow/classloader"
)

// Frame is one activation record. Meth holds the method's raw bytecode
// (copied in at frame-creation time so the interpreter's PC always
// indexes into a stable slice even if the class's own Method is later
// touched by another thread), Locals is the local variable array (each
// slot a single word except long/double, which occupy two consecutive
// slots per JVMS 2.6.1), and OpStack is the operand stack the bytecode
// pushes/pops as it executes.
type Frame struct {
	PC        int
	MethName  string
	MethType  string
	ClName    string
	Meth      []byte
	CP        *classloader.CPool
	Locals    []interface{}
	OpStack   []interface{}
	TOS       int // top-of-stack index into OpStack, -1 when empty
	ExcTable  []classloader.CodeException

	// Native is set when this frame represents a call into a Go-
	// implemented (gfunction) method rather than interpreted bytecode;
	// the interpreter loop skips bytecode dispatch entirely for these.
	Native bool

	// FrameStack lets code holding only a *Frame (an exception handler,
	// a native method wanting to inspect its caller) reach back to the
	// thread-wide stack it lives on without a separate parameter.
	FrameStack *list.List
}

// CreateFrame returns a new Frame with its operand stack pre-sized to
// stackSize (the method's max_stack) and TOS initialized to empty.
func CreateFrame(stackSize int) *Frame {
	return &Frame{
		OpStack: make([]interface{}, stackSize),
		TOS:     -1,
	}
}

// CreateFrameStack returns a new, empty frame stack for a thread.
func CreateFrameStack() *list.List {
	return list.New()
}

// PushFrame pushes f onto the front of fs, so the most recently called
// method's frame is always the list head -- the order the interpreter
// and exception unwinding both walk in.
func PushFrame(fs *list.List, f *Frame) error {
	if fs == nil {
		return errFrameStackNil
	}
	f.FrameStack = fs
	fs.PushFront(f)
	return nil
}

// PopFrame removes and discards the top frame of fs.
func PopFrame(fs *list.List) {
	if fs == nil || fs.Len() == 0 {
		return
	}
	fs.Remove(fs.Front())
}

// PeekFrame returns the top frame of fs without removing it, or nil if
// fs is empty.
func PeekFrame(fs *list.List) *Frame {
	if fs == nil || fs.Len() == 0 {
		return nil
	}
	return fs.Front().Value.(*Frame)
}

var errFrameStackNil = frameErr("PushFrame: nil frame stack")

type frameErr string

func (e frameErr) Error() string { return string(e) }

// Push pushes a value onto this frame's own operand stack.
func (f *Frame) Push(v interface{}) {
	f.TOS++
	if f.TOS >= len(f.OpStack) {
		f.OpStack = append(f.OpStack, v)
	} else {
		f.OpStack[f.TOS] = v
	}
}

// Pop removes and returns the top of this frame's operand stack.
func (f *Frame) Pop() interface{} {
	if f.TOS < 0 {
		return nil
	}
	v := f.OpStack[f.TOS]
	f.TOS--
	return v
}

// PeekTOS returns the top of this frame's operand stack without
// removing it.
func (f *Frame) PeekTOS() interface{} {
	if f.TOS < 0 {
		return nil
	}
	return f.OpStack[f.TOS]
}
