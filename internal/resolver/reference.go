package resolver

import "strings"

// segment is one piece of a reference string: either literal text or a
// "{{identifier}}" placeholder (ident holds the text between the braces).
type segment struct {
	literal string
	ident   string
	isRef   bool
}

// splitReferences walks s and returns its literal/placeholder segments. A
// malformed "{{" with no matching "}}" is treated as literal text.
func splitReferences(s string) []segment {
	var segments []segment
	var buf strings.Builder

	for i := 0; i < len(s); {
		if i+1 < len(s) && s[i] == '{' && s[i+1] == '{' {
			end := strings.Index(s[i+2:], "}}")
			if end < 0 {
				buf.WriteString(s[i:])
				break
			}
			if buf.Len() > 0 {
				segments = append(segments, segment{literal: buf.String()})
				buf.Reset()
			}
			ident := strings.TrimSpace(s[i+2 : i+2+end])
			segments = append(segments, segment{ident: ident, isRef: true})
			i = i + 2 + end + 2
			continue
		}
		buf.WriteByte(s[i])
		i++
	}
	if buf.Len() > 0 {
		segments = append(segments, segment{literal: buf.String()})
	}
	return segments
}

// isSingleReference reports whether s is exactly one "{{ident}}" with no
// surrounding literal text, in which case resolution returns the native
// value instead of a stringified one.
func isSingleReference(segments []segment) (string, bool) {
	if len(segments) == 1 && segments[0].isRef {
		return segments[0].ident, true
	}
	return "", false
}
