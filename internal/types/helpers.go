package types

// IsInteger reports whether t is the Integer primitive
func IsInteger(t ShellType) bool {
	return t != nil && t.Equals(TypeInteger)
}

// IsString reports whether t is the String primitive
func IsString(t ShellType) bool {
	return t != nil && t.Equals(TypeString)
}

// acceptsInteger lists the primitives that hold small integers at runtime.
func acceptsInteger(t ShellType) bool {
	p, ok := t.(*PrimitiveType)
	if !ok {
		return false
	}
	switch p.name {
	case TYPE_FD, TYPE_EXIT_CODE, TYPE_SIGNAL:
		return true
	default:
		return false
	}
}

// IsCompatible reports whether a value of type actual may be stored where expected is declared.
func IsCompatible(expected, actual ShellType) bool {
	if expected == nil || actual == nil {
		return true
	}
	if expected.Equals(actual) {
		return true
	}

	switch e := expected.(type) {
	case *TypeVar:
		return true
	case *UnionType:
		if a, ok := actual.(*UnionType); ok {
			for _, m := range a.Members {
				if !IsCompatible(e, m) {
					return false
				}
			}
			return true
		}
		for _, m := range e.Members {
			if IsCompatible(m, actual) {
				return true
			}
		}
		return false
	case *ArrayType:
		if a, ok := actual.(*ArrayType); ok {
			return IsCompatible(e.Element, a.Element)
		}
		return false
	case *AssocArrayType:
		if a, ok := actual.(*AssocArrayType); ok {
			return IsCompatible(e.Key, a.Key) && IsCompatible(e.Value, a.Value)
		}
		return false
	}

	switch a := actual.(type) {
	case *TypeVar:
		return true
	case *UnionType:
		for _, m := range a.Members {
			if !IsCompatible(expected, m) {
				return false
			}
		}
		return len(a.Members) > 0
	}

	if IsInteger(actual) && acceptsInteger(expected) {
		return true
	}
	return false
}

// IsGradualCompatible is the one implicit widening gradual typing allows:
// a String slot accepts an Integer value. The reverse is never allowed.
func IsGradualCompatible(expected, actual ShellType) bool {
	return IsString(expected) && IsInteger(actual)
}
