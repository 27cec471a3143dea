package types

import (
	"fmt"
	"strings"
)

// ShellType is the static type the gradual checker attaches to shell variables.
//
// Types are immutable after creation and compare structurally.
type ShellType interface {
	// String returns a human-readable representation of the type
	String() string

	// Equals checks structural equality with another type
	Equals(other ShellType) bool

	// isType is a marker method to prevent external implementation
	isType()
}

// PrimitiveType represents the scalar shell types (Integer, String, ...)
type PrimitiveType struct {
	name TYPE_NAME
}

func NewPrimitive(name TYPE_NAME) *PrimitiveType {
	return &PrimitiveType{name: name}
}

func (p *PrimitiveType) String() string { return string(p.name) }
func (p *PrimitiveType) isType()        {}
func (p *PrimitiveType) Equals(other ShellType) bool {
	if o, ok := other.(*PrimitiveType); ok {
		return p.name == o.name
	}
	return false
}

// GetName returns the primitive type name
func (p *PrimitiveType) GetName() TYPE_NAME {
	return p.name
}

// ArrayType represents an indexed array `declare -a`
type ArrayType struct {
	Element ShellType
}

func NewArray(element ShellType) *ArrayType {
	return &ArrayType{Element: element}
}

func (a *ArrayType) String() string { return fmt.Sprintf("Array<%s>", a.Element) }
func (a *ArrayType) isType()        {}
func (a *ArrayType) Equals(other ShellType) bool {
	if o, ok := other.(*ArrayType); ok {
		return a.Element.Equals(o.Element)
	}
	return false
}

// AssocArrayType represents an associative array `declare -A`
type AssocArrayType struct {
	Key   ShellType
	Value ShellType
}

func NewAssocArray(key, value ShellType) *AssocArrayType {
	return &AssocArrayType{Key: key, Value: value}
}

func (m *AssocArrayType) String() string {
	return fmt.Sprintf("AssocArray<%s, %s>", m.Key, m.Value)
}
func (m *AssocArrayType) isType() {}
func (m *AssocArrayType) Equals(other ShellType) bool {
	if o, ok := other.(*AssocArrayType); ok {
		return m.Key.Equals(o.Key) && m.Value.Equals(o.Value)
	}
	return false
}

// TypeVar is an unresolved type variable; it is compatible with everything
type TypeVar struct {
	Name string
}

func NewTypeVar(name string) *TypeVar {
	return &TypeVar{Name: name}
}

func (t *TypeVar) String() string { return "'" + t.Name }
func (t *TypeVar) isType()        {}
func (t *TypeVar) Equals(other ShellType) bool {
	if o, ok := other.(*TypeVar); ok {
		return t.Name == o.Name
	}
	return false
}

// UnionType is one of several types
type UnionType struct {
	Members []ShellType
}

func NewUnion(members ...ShellType) *UnionType {
	return &UnionType{Members: members}
}

func (u *UnionType) String() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}
func (u *UnionType) isType() {}

// Equals compares member lists in order
func (u *UnionType) Equals(other ShellType) bool {
	o, ok := other.(*UnionType)
	if !ok || len(o.Members) != len(u.Members) {
		return false
	}
	for i := range u.Members {
		if !u.Members[i].Equals(o.Members[i]) {
			return false
		}
	}
	return true
}
