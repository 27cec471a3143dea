package typechecker

import (
	"strings"

	"github.com/paiml/bashrs-sub005/internal/types"
)

// TypeAnnotation is a type hint parsed from a single comment line.
// It waits in the checker's pending queue until an assignment of the same
// name (plain annotations) or the next function definition (@param/@returns)
// claims it.
type TypeAnnotation struct {
	Name     string
	Type     types.ShellType
	IsParam  bool
	IsReturn bool
}

// ParseTypeAnnotation recognizes `@type n: T`, `@param n: T` and `@returns: T`.
// Unknown type names yield nil.
func ParseTypeAnnotation(comment string) *TypeAnnotation {
	text := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(comment), "#"))

	var isParam, isReturn bool
	switch {
	case strings.HasPrefix(text, "@type "):
		text = strings.TrimPrefix(text, "@type ")
	case strings.HasPrefix(text, "@param "):
		text = strings.TrimPrefix(text, "@param ")
		isParam = true
	case strings.HasPrefix(text, "@returns"):
		text = strings.TrimPrefix(text, "@returns")
		isReturn = true
	default:
		return nil
	}

	name, typeName, found := strings.Cut(text, ":")
	if !found {
		return nil
	}
	name = strings.TrimSpace(name)
	typeName = strings.TrimSpace(typeName)

	if isReturn {
		if name != "" {
			return nil
		}
	} else if !isIdentifier(name) {
		return nil
	}

	t, ok := types.ParseTypeName(typeName)
	if !ok {
		return nil
	}

	return &TypeAnnotation{Name: name, Type: t, IsParam: isParam, IsReturn: isReturn}
}

func (a *TypeAnnotation) isPlain() bool {
	return !a.IsParam && !a.IsReturn
}

// isIdentifier reports whether s is a valid shell variable name
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
