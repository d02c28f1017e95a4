// Package encoding provides text escaping for generated Bible XML.
package encoding

import (
	"html"
	"strings"
)

// EscapeXMLText escapes the basic XML entities for element content.
func EscapeXMLText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// EscapeXMLAttr escapes text for use in double-quoted XML attributes.
func EscapeXMLAttr(s string) string {
	return strings.ReplaceAll(EscapeXMLText(s), "\"", "&quot;")
}

// ReescapeText decodes any entity references already present in s, drops
// invalid UTF-8, and escapes the result. Text that was escaped, partly
// escaped, or not escaped at all comes out escaped exactly once.
func ReescapeText(s string) string {
	return EscapeXMLText(html.UnescapeString(strings.ToValidUTF8(s, "")))
}

// ReescapeAttr is ReescapeText for attribute values.
func ReescapeAttr(s string) string {
	return EscapeXMLAttr(html.UnescapeString(strings.ToValidUTF8(s, "")))
}
