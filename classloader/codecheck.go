/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import "fmt"

// codeCheckClass performs the shape-only subset of bytecode verification
// this VM implements: every exception handler's start_pc/end_pc/handler_pc
// must lie within the method's code array, and the code array itself must
// be non-empty for any method that isn't abstract or native. Full
// dataflow verification (JVMS 4.10) is out of scope; see verifytypes.go
// for the type lattice that a fuller verifier would walk.
func codeCheckClass(pc *ParsedClass) error {
	for _, m := range pc.methods {
		if m.accessFlags&(accAbstract|accNative) != 0 {
			continue
		}
		if len(m.codeAttr.code) == 0 {
			name, _ := resolveUtf8(pc, m.name)
			return cfe("method " + name + " has no Code attribute but is neither abstract nor native")
		}
		if err := codeCheckExceptionTable(pc, m); err != nil {
			return err
		}
	}
	return nil
}

const (
	accAbstract = 0x0400
	accNative   = 0x0100
)

func codeCheckExceptionTable(pc *ParsedClass, m method) error {
	codeLen := len(m.codeAttr.code)
	for _, exc := range m.codeAttr.exceptions {
		if exc.startPc < 0 || exc.startPc >= codeLen {
			return cfe(fmt.Sprintf("exception handler start_pc %d is out of range", exc.startPc))
		}
		if exc.endPc < exc.startPc || exc.endPc > codeLen {
			return cfe(fmt.Sprintf("exception handler end_pc %d is out of range", exc.endPc))
		}
		if exc.handlerPc < 0 || exc.handlerPc >= codeLen {
			return cfe(fmt.Sprintf("exception handler handler_pc %d is out of range", exc.handlerPc))
		}
		if exc.catchType != 0 {
			if exc.catchType < 0 || exc.catchType >= len(pc.cpIndex) || pc.cpIndex[exc.catchType].entryType != ClassRef {
				return cfe("exception handler catch_type does not point to a Class entry")
			}
		}
	}
	return nil
}
