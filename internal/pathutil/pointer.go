package pathutil

import (
	"strings"
)

var (
	tokenEscaper   = strings.NewReplacer("~", "~0", "/", "~1")
	tokenUnescaper = strings.NewReplacer("~1", "/", "~0", "~")
)

// EscapeToken escapes a single reference token per RFC 6901.
func EscapeToken(token string) string {
	return tokenEscaper.Replace(token)
}

// UnescapeToken reverses EscapeToken. "~1" is replaced before "~0" so
// "~01" decodes to "~1".
func UnescapeToken(token string) string {
	return tokenUnescaper.Replace(token)
}

// SplitRef splits a $ref into the document part and the fragment,
// without the "#".
//
//	SplitRef("pet.json#/$defs/Pet") == ("pet.json", "/$defs/Pet")
//	SplitRef("#/$defs/Pet")         == ("", "/$defs/Pet")
func SplitRef(ref string) (doc, fragment string) {
	doc, fragment, _ = strings.Cut(ref, "#")
	return doc, fragment
}

// ParsePointer splits a fragment pointer into unescaped tokens. An empty
// fragment yields nil, which addresses the whole document.
func ParsePointer(fragment string) []string {
	fragment = strings.TrimPrefix(fragment, "#")
	if fragment == "" {
		return nil
	}
	parts := strings.Split(strings.TrimPrefix(fragment, "/"), "/")
	for i, part := range parts {
		parts[i] = UnescapeToken(part)
	}
	return parts
}
