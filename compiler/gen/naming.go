package gen

import (
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// commonInitialisms are name segments kept fully upper-cased when converting
// wire names to Go identifiers.
var commonInitialisms = map[string]bool{
	"API":  true,
	"HTML": true,
	"HTTP": true,
	"ID":   true,
	"JSON": true,
	"SQL":  true,
	"URI":  true,
	"URL":  true,
	"UUID": true,
}

// predeclared holds Go predeclared identifiers that an unexported generated
// name must not shadow.
var predeclared = map[string]bool{
	"any": true, "bool": true, "byte": true, "comparable": true,
	"complex64": true, "complex128": true, "error": true, "float32": true,
	"float64": true, "int": true, "int8": true, "int16": true, "int32": true,
	"int64": true, "rune": true, "string": true, "uint": true, "uint8": true,
	"uint16": true, "uint32": true, "uint64": true, "uintptr": true,
	"true": true, "false": true, "iota": true, "nil": true,
	"append": true, "cap": true, "clear": true, "close": true, "complex": true,
	"copy": true, "delete": true, "imag": true, "len": true, "make": true,
	"max": true, "min": true, "new": true, "panic": true, "print": true,
	"println": true, "real": true, "recover": true,
}

// goName converts a GraphQL wire name to an exported Go identifier.
// It normalizes both camelCase and snake_case input and upper-cases common
// initialisms, so "paws_count", "pawsCount" and "id" become "PawsCount",
// "PawsCount" and "ID".
func goName(s string) string {
	var b strings.Builder
	for seg := range strings.SplitSeq(inflect.Underscore(s), "_") {
		if seg == "" {
			continue
		}
		if upper := strings.ToUpper(seg); commonInitialisms[upper] {
			b.WriteString(upper)
			continue
		}
		b.WriteString(titleCaser.String(seg))
	}
	return b.String()
}

// lowerFirst converts the leading rune to lower case.
func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// keywordSafe appends an underscore when the name collides with a Go keyword
// or predeclared identifier. The wire-format name is unaffected: serialization
// tags always record the original name.
func keywordSafe(s string) string {
	if token.IsKeyword(s) || predeclared[s] {
		return s + "_"
	}
	return s
}

// paramName converts a wire name into an unexported, keyword-safe identifier
// for constructor parameters.
func paramName(s string) string {
	return keywordSafe(lowerFirst(goName(s)))
}

// enumValueName builds the constant name for one enum value, e.g.
// ("Status", "IN_PROGRESS") becomes "StatusInProgress".
func enumValueName(typeName, value string) string {
	var b strings.Builder
	b.WriteString(typeName)
	for seg := range strings.SplitSeq(value, "_") {
		if seg == "" {
			continue
		}
		b.WriteString(titleCaser.String(strings.ToLower(seg)))
	}
	return b.String()
}

// structTags builds the serialization tags for one field. The json tag always
// carries the original wire name so keyword-safe renames never change the
// over-the-wire shape; optional fields marshal as absent when unset. The
// msgpack derive adds a parallel msgpack tag.
func structTags(wire string, optional bool, derives []string) map[string]string {
	val := wire
	if optional {
		val += ",omitempty"
	}
	tags := map[string]string{"json": val}
	if hasDerive(derives, DeriveMsgpack) {
		tags["msgpack"] = val
	}
	return tags
}

func hasDerive(derives []string, want string) bool {
	for _, d := range derives {
		if d == want {
			return true
		}
	}
	return false
}
