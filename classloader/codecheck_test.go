package classloader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeCheckRejectsOutOfRangeHandler(t *testing.T) {
	pc := ParsedClass{}
	pc.cpIndex = append(pc.cpIndex, cpEntry{})

	m := method{
		name: 0,
		codeAttr: codeAttrib{
			code: []byte{0x00, 0x00, 0x00}, // 3 bytes of NOP
			exceptions: []exception{
				{startPc: 0, endPc: 2, handlerPc: 10, catchType: 0}, // handlerPc out of range
			},
		},
	}
	pc.methods = append(pc.methods, m)

	err := codeCheckClass(&pc)
	assert.Error(t, err)
}

func TestCodeCheckAcceptsValidHandler(t *testing.T) {
	pc := ParsedClass{}
	pc.cpIndex = append(pc.cpIndex, cpEntry{})

	m := method{
		codeAttr: codeAttrib{
			code: []byte{0x00, 0x00, 0x00},
			exceptions: []exception{
				{startPc: 0, endPc: 2, handlerPc: 2, catchType: 0},
			},
		},
	}
	pc.methods = append(pc.methods, m)

	assert.NoError(t, codeCheckClass(&pc))
}

func TestCodeCheckRequiresCodeForConcreteMethod(t *testing.T) {
	pc := ParsedClass{}
	pc.cpIndex = append(pc.cpIndex, cpEntry{})
	pc.utf8Refs = append(pc.utf8Refs, utf8Entry{content: "doStuff"})

	m := method{name: 0, accessFlags: 0, codeAttr: codeAttrib{code: nil}}
	pc.methods = append(pc.methods, m)

	assert.Error(t, codeCheckClass(&pc))
}

func TestCodeCheckSkipsAbstractAndNative(t *testing.T) {
	pc := ParsedClass{}
	pc.cpIndex = append(pc.cpIndex, cpEntry{})

	abstractMethod := method{accessFlags: accAbstract}
	nativeMethod := method{accessFlags: accNative}
	pc.methods = append(pc.methods, abstractMethod, nativeMethod)

	assert.NoError(t, codeCheckClass(&pc))
}
