package types

import "strings"

type TYPE_NAME string

const (
	TYPE_INTEGER   TYPE_NAME = "Integer"
	TYPE_STRING    TYPE_NAME = "String"
	TYPE_BOOLEAN   TYPE_NAME = "Boolean"
	TYPE_FD        TYPE_NAME = "FileDescriptor"
	TYPE_EXIT_CODE TYPE_NAME = "ExitCode"
	TYPE_SIGNAL    TYPE_NAME = "Signal"
)

// Built-in shell types. Primitives are shared singletons.
var (
	TypeInteger  = NewPrimitive(TYPE_INTEGER)
	TypeString   = NewPrimitive(TYPE_STRING)
	TypeBoolean  = NewPrimitive(TYPE_BOOLEAN)
	TypeFD       = NewPrimitive(TYPE_FD)
	TypeExitCode = NewPrimitive(TYPE_EXIT_CODE)
	TypeSignal   = NewPrimitive(TYPE_SIGNAL)
)

// ParseTypeName maps an annotation type name to a shell type.
// Unknown names return false and are meant to be ignored by callers.
func ParseTypeName(name string) (ShellType, bool) {
	switch strings.TrimSpace(name) {
	case "int", "integer":
		return TypeInteger, true
	case "str", "string":
		return TypeString, true
	case "bool", "boolean":
		return TypeBoolean, true
	case "path":
		return TypeString, true
	case "array":
		return NewArray(TypeString), true
	case "fd":
		return TypeFD, true
	case "exit_code":
		return TypeExitCode, true
	default:
		return nil, false
	}
}
