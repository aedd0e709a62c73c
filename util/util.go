/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package util

import (
	"os"
	"strings"
)

// ConvertToPlatformPathSeparators rewrites the slashes in a binary class
// name or file path (which JVMS always spells with '/') to whatever this
// OS actually uses, so os/filepath calls that follow resolve correctly on
// Windows as well as Unix-likes.
func ConvertToPlatformPathSeparators(path string) string {
	if os.PathSeparator == '/' {
		return path
	}
	return strings.ReplaceAll(path, "/", string(os.PathSeparator))
}

// ParseIncomingParamsFromMethTypeString splits a method descriptor's
// parameter section (the part between the parens, e.g. "(S[BI)I" ->
// "S[BI") into one entry per parameter, collapsing every integral
// subword type (byte, short, char, boolean) to "I" since that's the slot
// width they actually occupy on the operand stack and in locals.
// Reference and array parameters keep their full descriptor
// ("Ljava/lang/String;", "[B", ...).
func ParseIncomingParamsFromMethTypeString(descriptor string) []string {
	params := make([]string, 0)

	paren := strings.Index(descriptor, "(")
	if paren == -1 {
		return params
	}
	closeParen := strings.Index(descriptor, ")")
	if closeParen == -1 {
		closeParen = len(descriptor)
	}
	body := descriptor[paren+1 : closeParen]

	for i := 0; i < len(body); i++ {
		switch body[i] {
		case 'B', 'S', 'C', 'Z', 'I':
			params = append(params, "I")
		case 'J':
			params = append(params, "J")
		case 'F':
			params = append(params, "F")
		case 'D':
			params = append(params, "D")
		case 'L':
			end := strings.Index(body[i:], ";")
			if end == -1 {
				return params
			}
			params = append(params, body[i:i+end+1])
			i += end
		case '[':
			start := i
			for i < len(body) && body[i] == '[' {
				i++
			}
			if i < len(body) && body[i] == 'L' {
				end := strings.Index(body[i:], ";")
				if end == -1 {
					return params
				}
				i += end
			}
			params = append(params, body[start:i+1])
		}
	}

	return params
}
