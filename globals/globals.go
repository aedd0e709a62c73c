/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package globals holds the handful of process-wide knobs the rest of the
// VM reads: JAVA_HOME, the classpath/starting jar, trace flags, the
// coordination WaitGroup bootstrap loading uses, and the
// callback the interpreter installs so lower-level packages (which can't
// import jvm without a cycle) can still ask the interpreter to throw a
// Java exception.
package globals

import "sync"

// Globals is the single process-wide configuration/state block.
type Globals struct {
	JavaHome    string
	JavaVersion string
	StartingJar string
	Classpath   []string
	Args        []string
	AppArgs     []string
	ExitNow     bool

	// FuncThrowException lets loader-tier packages (which must not import
	// jvm, on pain of an import cycle) ask the interpreter tier to
	// synthesize and throw a named Java exception.
	FuncThrowException func(excType int, msg string) bool

	StartTime int64

	// JacobinName is the invoking program's own name (argv[0] in the
	// original launcher), used in banner/usage/panic output.
	JacobinName string

	// StrictJDK records the CLI's --strictJDK flag. No code reads it, so
	// it changes no behavior.
	StrictJDK bool

	// JvmFrameStackShown/GoStackShown/PanicCauseShown latch so a fatal
	// error's diagnostic dump (Java frame stack, captured Go stack, panic
	// cause) prints exactly once even if the error path is reentered.
	JvmFrameStackShown bool
	GoStackShown       bool
	PanicCauseShown    bool

	// ErrorGoStack holds the Go-level stack trace captured at the point a
	// fatal error was recognized, for showGoStackTrace to print later.
	ErrorGoStack string
}

var (
	global     Globals
	globalOnce sync.Once
)

// GetGlobalRef returns the process-wide Globals block, constructing it
// (with a no-op exception thrower) the first time it's requested.
func GetGlobalRef() *Globals {
	globalOnce.Do(func() {
		global = Globals{
			FuncThrowException: func(excType int, msg string) bool { return false },
		}
	})
	return &global
}

// InitGlobals resets global state for a fresh VM run (or a test), keyed by
// the invoking program's own name the way the CLI's argv[0] would be.
func InitGlobals(progName string) *Globals {
	globalOnce.Do(func() {}) // a later GetGlobalRef must not replace this state
	global = Globals{
		JacobinName:        progName,
		FuncThrowException: func(excType int, msg string) bool { return false },
	}
	return &global
}

// Trace flags. classloader reads TraceClass and TraceCloadi directly
// rather than through GetGlobalRef(); TraceInst and TraceInit are not
// read anywhere. The CLI sets none of them: its --trace flag goes to
// trace.Init.
var (
	TraceClass  bool // log class-loading milestones
	TraceCloadi bool // log bootstrap class-loading detail
	TraceInst   bool // log per-instruction execution
	TraceInit   bool // log class-initialization state transitions
)

// LoaderWg lets concurrent class-loading goroutines signal completion to
// whatever kicked off a batch load (see classloader.LoadFromLoaderChannel).
var LoaderWg sync.WaitGroup
