package naming

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	unsafeChars     = regexp.MustCompile(`(^\s*[^a-zA-Z_$])|([^a-zA-Z_$\d])`)
	leadingLowerUS  = regexp.MustCompile(`^_[a-z]`)
	innerLowerUS    = regexp.MustCompile(`_[a-z]`)
	digitsThenAlpha = regexp.MustCompile(`[\d$]+[a-zA-Z]`)
	spaceThenAlpha  = regexp.MustCompile(`\s+[a-zA-Z]`)
	whitespace      = regexp.MustCompile(`\s`)

	safeCache sync.Map // string -> string
)

// ToSafeString converts s into a string that is valid as a TypeScript
// type name: diacritics are stripped, runs of illegal characters become
// word breaks, and each word is upper-cased at its first letter.
//
//	ToSafeString("pet-store item") == "PetStoreItem"
//	ToSafeString("élan") == "Elan"
func ToSafeString(s string) string {
	if v, ok := safeCache.Load(s); ok {
		return v.(string)
	}
	out := toSafeString(s)
	safeCache.Store(s, out)
	return out
}

func toSafeString(s string) string {
	s = deburr(s)
	s = unsafeChars.ReplaceAllString(s, " ")
	s = leadingLowerUS.ReplaceAllStringFunc(s, strings.ToUpper)
	s = innerLowerUS.ReplaceAllStringFunc(s, func(m string) string {
		return strings.ToUpper(m[1:])
	})
	s = digitsThenAlpha.ReplaceAllStringFunc(s, strings.ToUpper)
	s = spaceThenAlpha.ReplaceAllStringFunc(s, func(m string) string {
		return strings.ToUpper(strings.TrimSpace(m))
	})
	s = whitespace.ReplaceAllString(s, "")
	return UpperFirst(s)
}

// deburr removes combining marks after canonical decomposition, so "é"
// becomes "e".
func deburr(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// UpperFirst upper-cases the first rune of s and leaves the rest alone.
func UpperFirst(s string) string {
	if s == "" {
		return s
	}
	first := []rune(s)[0]
	head := cases.Upper(language.Und).String(string(first))
	return head + s[len(string(first)):]
}

// JustName returns the base name of a file path without its extension.
//
//	JustName("schemas/pet.schema.json") == "pet.schema"
func JustName(path string) string {
	if path == "" {
		return ""
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// UsedNames records the type names handed out during one compile.
type UsedNames map[string]struct{}

// GenerateName makes a safe name from from and reserves it in used. When
// the safe form is empty "NoName" is used. Collisions are resolved by
// appending the smallest counter, starting at 1, that is still free.
func GenerateName(from string, used UsedNames) string {
	name := ToSafeString(from)
	if name == "" {
		name = "NoName"
	}
	if _, taken := used[name]; taken {
		for counter := 1; ; counter++ {
			candidate := name + strconv.Itoa(counter)
			if _, taken := used[candidate]; !taken {
				name = candidate
				break
			}
		}
	}
	used[name] = struct{}{}
	return name
}
