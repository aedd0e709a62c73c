/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import "sync"

// ModuleEntry is a named Java module: its readability edges (the modules
// it requires and can therefore see types from) and which of its packages
// are exported (and to whom, if qualified). Ordinary unnamed-module
// classes (anything loaded without a module-info.class) are attached to
// the synthetic unnamed module, which reads every other module.
type ModuleEntry struct {
	Name      string
	Requires  []string
	Exports   map[string][]string // package -> qualified-to module names, nil slice = exported to all
	Open      bool                // an open module exports every package for deep reflection
	Packages  map[string]bool
}

var (
	moduleMu      sync.RWMutex
	modules       map[string]*ModuleEntry
	unnamedModule = &ModuleEntry{Name: "", Exports: map[string][]string{}}
)

func init() {
	modules = map[string]*ModuleEntry{
		"": unnamedModule,
	}
}

// RegisterModule adds or replaces a module's registry entry.
func RegisterModule(m *ModuleEntry) {
	moduleMu.Lock()
	defer moduleMu.Unlock()
	modules[m.Name] = m
}

// GetModule returns the registered module by name, or the unnamed module
// if name is "" or unknown.
func GetModule(name string) *ModuleEntry {
	moduleMu.RLock()
	defer moduleMu.RUnlock()
	if m, ok := modules[name]; ok {
		return m
	}
	return unnamedModule
}

// PackageOf derives a class's package name from its binary name, the way
// the JVM does it: everything up to the last '/' (JVMS 5.3.5). The root
// package has name "".
func PackageOf(binaryClassName string) string {
	idx := lastSlash(binaryClassName)
	if idx < 0 {
		return ""
	}
	return binaryClassName[:idx]
}

// CanRead reports whether module `from` can see types exported by module
// `to`, per JVMS 5.3.5's module readability graph: a module always reads
// itself and the unnamed module reads (and is read by) everything, which
// matches how classpath-loaded code interoperates with named modules.
func CanRead(from, to string) bool {
	if from == to || from == "" || to == "" {
		return true
	}
	m := GetModule(from)
	for _, r := range m.Requires {
		if r == to {
			return true
		}
	}
	return false
}

// IsExported reports whether pkg, owned by module `owner`, is visible to
// module `requester` (unqualified export, qualified export naming
// requester, or an open module).
func IsExported(owner, pkg, requester string) bool {
	m := GetModule(owner)
	if m.Open {
		return true
	}
	to, exported := m.Exports[pkg]
	if !exported {
		return false
	}
	if to == nil {
		return true // exported to everyone
	}
	for _, name := range to {
		if name == requester {
			return true
		}
	}
	return false
}
