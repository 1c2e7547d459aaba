package xcodeml

// AccessSpec is a C++ access specifier.
type AccessSpec int

const (
	AccessPublic AccessSpec = iota
	AccessPrivate
	AccessProtected
)

// String returns the keyword for a.
func (a AccessSpec) String() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessPrivate:
		return "private"
	case AccessProtected:
		return "protected"
	}
	return "unknown"
}

// ParseAccessSpec converts an IR access attribute. Unknown values are
// malformed input: there is no safe default for an access level.
func ParseAccessSpec(s string) (AccessSpec, error) {
	switch s {
	case "public":
		return AccessPublic, nil
	case "private":
		return AccessPrivate, nil
	case "protected":
		return AccessProtected, nil
	}
	return 0, newMalformedInput(s, "unknown access specifier %q", s)
}
