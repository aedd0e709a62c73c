/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import (
	"github.com/marrowvm/marrow/excNames"
	"github.com/marrowvm/marrow/trace"
	"github.com/marrowvm/marrow/types"
	"golang.org/x/sync/singleflight"
)

// initGroup collapses concurrent Initialize(C) calls for the same class
// into a single running <clinit>; every other caller blocks on the same
// call and receives the same outcome, taking the place of the
// init_lock+condvar dance JVMS 5.5 describes with a maintained
// synchronization primitive built exactly for this "one runs, the rest
// wait and share the result" shape.
var initGroup singleflight.Group

// RunInitializer is supplied by package jvm at startup (see jvm.init) so
// that classloader, which must not import jvm, can still trigger the
// execution of a <clinit> method.
var RunInitializer func(className string) error

// Initialize drives the class-initialization state machine of JVMS 5.5:
//
//	Uninit -> InProgress -> Init
//	                     \-> Failed (if <clinit> itself throws, or a
//	                         superclass failed to initialize)
//
// A class whose <clinit> previously failed permanently reports
// NoClassDefFoundError to every subsequent caller, per JVMS 5.5's "an
// attempt was made" wording -- initialization is attempted at most once.
func Initialize(className string) *excNames.JVMerror {
	k := MethAreaFetch(className)
	if k == nil || k.Data == nil {
		return excNames.NewError(excNames.NoClassDefFoundError, className)
	}

	switch k.Data.ClInit {
	case types.ClInitRun:
		return nil
	case types.ClInitFailed:
		return excNames.NewError(excNames.NoClassDefFoundError, className+" (prior initialization failed)")
	}

	// initialize the superclass first (JVMS 5.5 step 7); superinterfaces
	// are not initialized here
	if k.Data.SuperclassIndex != 0 {
		superName := stringPoolGet(k.Data.SuperclassIndex)
		if err := Initialize(superName); err != nil {
			markFailed(k)
			return err
		}
	}

	_, err, _ := initGroup.Do(className, func() (interface{}, error) {
		if k.Data.ClInit == types.ClInitRun {
			return nil, nil
		}
		k.Data.ClInit = types.ClInitInProgress
		if RunInitializer == nil {
			k.Data.ClInit = types.ClInitRun
			return nil, nil
		}
		if runErr := RunInitializer(className); runErr != nil {
			k.Data.ClInit = types.ClInitFailed
			trace.Error("Initialize: <clinit> for " + className + " failed: " + runErr.Error())
			return nil, runErr
		}
		k.Data.ClInit = types.ClInitRun
		return nil, nil
	})
	if err != nil {
		return excNames.NewError(excNames.NoClassDefFoundError, className+": "+err.Error())
	}
	return nil
}

// IsInitialized reports whether className's <clinit> has already run
// (or the class has none), without triggering initialization.
func IsInitialized(className string) bool {
	k := MethAreaFetch(className)
	if k == nil || k.Data == nil {
		return false
	}
	return k.Data.ClInit == types.ClInitRun || k.Data.ClInit == types.NoClinit
}

func markFailed(k *Klass) {
	k.Data.ClInit = types.ClInitFailed
}
