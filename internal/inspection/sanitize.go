package inspection

import "strings"

// Placeholder marks a field that has no usable source data. It is distinct
// from the empty string so downstream consumers can tell "absent in source"
// apart from "empty value".
const Placeholder = "Data not found in test data"

// Entity replacements are applied sequentially, so a double-escaped
// "&amp;lt;" unescapes all the way to "<" as the upstream producer expects.
var entities = [][2]string{
	{"&apos;", "'"},
	{"&quot;", `"`},
	{"&amp;", "&"},
	{"&lt;", "<"},
	{"&gt;", ">"},
}

// Sanitize un-escapes the fixed set of HTML entities emitted by the upstream
// producer and trims surrounding whitespace. Every externally sourced string
// passes through here before it becomes a form field value.
func Sanitize(s string) string {
	for _, e := range entities {
		s = strings.ReplaceAll(s, e[0], e[1])
	}
	return strings.TrimSpace(s)
}

// StatusText converts a status code to its human-readable form. Unknown
// codes pass through unchanged.
func StatusText(code string) string {
	switch strings.ToUpper(code) {
	case "I":
		return "Inspected"
	case "NI":
		return "Not Inspected"
	case "NP":
		return "Not Present"
	case "D":
		return "Deficient"
	case "":
		return "Not Specified"
	}
	return code
}
