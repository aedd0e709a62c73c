/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Command marrow is the VM's launcher: it parses the java-style command
// line, bootstraps the classloader tier, and hands off to the interpreter.
// getEnvArgs collects the JVM option environment variables the JDK
// honors, but run does not apply them to the command line.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marrowvm/marrow/classloader"
	"github.com/marrowvm/marrow/globals"
	"github.com/marrowvm/marrow/jvm"
	"github.com/marrowvm/marrow/trace"
)

const version = "0.1.0"

var (
	flagTrace      bool
	flagShowVer    bool
	flagStrictJDK  bool
	flagClasspath  string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "marrow [flags] class [args...]",
		Short:   "marrow is a Java virtual machine",
		Version: version,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args)
		},
	}
	cmd.Flags().BoolVar(&flagTrace, "trace", false, "log per-bytecode-instruction execution detail")
	cmd.Flags().BoolVar(&flagShowVer, "showversion", false, "print version information and continue")
	cmd.Flags().BoolVar(&flagStrictJDK, "strictJDK", false, "favor exact JDK behavior over marrow's lenient defaults")
	cmd.Flags().StringVarP(&flagClasspath, "classpath", "p", "", "application classpath")
	cmd.SetVersionTemplate("marrow VM v." + version + "\n")
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	g := globals.InitGlobals(os.Args[0])
	g.StrictJDK = flagStrictJDK

	if flagTrace {
		trace.Init(trace.TRACE_INST)
		g.JvmFrameStackShown = false
	} else {
		trace.Init(trace.WARNING)
	}

	if flagShowVer {
		showVersion()
	}

	if len(args) == 0 {
		showCopyright()
		return cmd.Usage()
	}

	className := args[0]
	appArgs := args[1:]

	if flagClasspath != "" {
		g.Classpath = strings.Split(flagClasspath, string(os.PathListSeparator))
	}
	g.AppArgs = appArgs

	if err := classloader.Init(); err != nil {
		return err
	}

	if err := jvm.RunMain(className, appArgs); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

// getEnvArgs collects the JVM-recognized environment variables that
// inject extra command-line options (JDK_JAVA_OPTIONS takes precedence
// over _JAVA_OPTIONS, and both are honored alongside JAVA_TOOL_OPTIONS),
// joining any that are set with a single space the way the JDK does.
func getEnvArgs() string {
	var parts []string
	for _, name := range []string{"JAVA_TOOL_OPTIONS", "_JAVA_OPTIONS", "JDK_JAVA_OPTIONS"} {
		if v := os.Getenv(name); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

func showVersion() {
	fmt.Fprintln(os.Stderr, "marrow VM v."+version)
}

func showCopyright() {
	fmt.Println("marrow VM v." + version)
	fmt.Println("Copyright (c) 2026 the marrow authors. All rights reserved.")
	fmt.Println("Licensed under Mozilla Public License 2.0 (MPL 2.0)")
}
