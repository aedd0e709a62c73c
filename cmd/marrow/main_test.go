/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package main

import (
	"os"
	"testing"
)

func TestGetEnvArgsWhenAbsent(t *testing.T) {
	os.Unsetenv("JAVA_TOOL_OPTIONS")
	os.Unsetenv("_JAVA_OPTIONS")
	os.Unsetenv("JDK_JAVA_OPTIONS")

	if got := getEnvArgs(); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestGetEnvArgsWhenTwoArePresent(t *testing.T) {
	os.Unsetenv("JAVA_TOOL_OPTIONS")
	os.Setenv("_JAVA_OPTIONS", "Hello,")
	os.Setenv("JDK_JAVA_OPTIONS", "marrow!")
	defer os.Unsetenv("_JAVA_OPTIONS")
	defer os.Unsetenv("JDK_JAVA_OPTIONS")

	if got := getEnvArgs(); got != "Hello, marrow!" {
		t.Errorf("got %q", got)
	}
}

func TestRootCmdHasExpectedFlags(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"trace", "showversion", "strictJDK", "classpath"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("expected flag %q to be registered", name)
		}
	}
}
