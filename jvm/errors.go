/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package jvm

import (
	"fmt"
	"os"

	"github.com/marrowvm/marrow/frames"
	"github.com/marrowvm/marrow/globals"
	"github.com/marrowvm/marrow/thread"
)

// showFrameStack prints the Java call stack of th to stderr, one line
// per frame from the innermost (most recently called) method outward,
// the same diagnostic a fatal uncaught exception or an internal VM
// error needs before the process exits. It only ever prints once per
// run: globals.JvmFrameStackShown latches after the first call so a
// second fatal error encountered while already unwinding doesn't spam
// duplicate output.
func showFrameStack(th *thread.ExecThread) {
	g := globals.GetGlobalRef()
	if g.JvmFrameStackShown {
		return
	}
	g.JvmFrameStackShown = true

	if th == nil || th.Stack == nil || th.Stack.Len() == 0 {
		fmt.Fprintln(os.Stderr, "no further data available")
		return
	}

	for e := th.Stack.Front(); e != nil; e = e.Next() {
		f := e.Value.(*frames.Frame)
		classAndMethod := f.ClName + "." + f.MethName
		fmt.Fprintf(os.Stderr, "Method: %-41sPC: %03d\n", classAndMethod, f.PC)
	}
}

// showGoStackTrace prints the Go-level stack captured when a fatal
// error was first recognized (globals.ErrorGoStack), so a Go panic
// inside the interpreter doesn't just vanish into "panic: ..." with no
// further context. Like showFrameStack, it prints at most once per run.
func showGoStackTrace(err interface{}) {
	g := globals.GetGlobalRef()
	if g.GoStackShown {
		return
	}
	g.GoStackShown = true
	fmt.Fprintln(os.Stderr, g.ErrorGoStack)
}

// showPanicCause prints the error value recovered from a Go panic, or a
// placeholder if the panic's cause is not an error value (recover()
// returns interface{}, and not every panic is raised with an error).
func showPanicCause(cause interface{}) {
	g := globals.GetGlobalRef()
	if g.PanicCauseShown {
		return
	}
	g.PanicCauseShown = true

	if cause == nil {
		fmt.Fprintln(os.Stderr, "error: go panic -- cause unknown")
		return
	}
	if err, ok := cause.(error); ok {
		fmt.Fprintln(os.Stderr, "error:", err.Error())
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", cause)
}
