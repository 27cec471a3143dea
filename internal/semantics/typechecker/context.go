package typechecker

import (
	"github.com/paiml/bashrs-sub005/internal/types"
)

// Param is one annotated function parameter
type Param struct {
	Name string
	Type types.ShellType
}

// FunctionSignature is what @param/@returns annotations register for a function
type FunctionSignature struct {
	Params  []Param
	Returns types.ShellType // nil when no @returns annotation was given
}

type scope struct {
	vars     map[string]types.ShellType
	declared map[string]bool
}

func newScope() *scope {
	return &scope{
		vars:     make(map[string]types.ShellType),
		declared: make(map[string]bool),
	}
}

// TypeContext is a stack of variable scopes plus the function signatures
// seen so far. The bottom scope always exists.
type TypeContext struct {
	scopes    []*scope
	functions map[string]*FunctionSignature
}

// NewTypeContext creates a context holding only the global scope
func NewTypeContext() *TypeContext {
	return &TypeContext{
		scopes:    []*scope{newScope()},
		functions: make(map[string]*FunctionSignature),
	}
}

// PushScope enters a new innermost scope
func (tc *TypeContext) PushScope() {
	tc.scopes = append(tc.scopes, newScope())
}

// PopScope leaves the innermost scope. The global scope is never removed.
func (tc *TypeContext) PopScope() {
	if len(tc.scopes) > 1 {
		tc.scopes = tc.scopes[:len(tc.scopes)-1]
	}
}

// Depth returns the number of scopes on the stack
func (tc *TypeContext) Depth() int {
	return len(tc.scopes)
}

func (tc *TypeContext) current() *scope {
	return tc.scopes[len(tc.scopes)-1]
}

// SetType records a variable's type in the innermost scope
func (tc *TypeContext) SetType(name string, t types.ShellType) {
	cur := tc.current()
	cur.declared[name] = true
	if t != nil {
		cur.vars[name] = t
	}
}

// Declare marks a name as assigned without giving it a type
func (tc *TypeContext) Declare(name string) {
	tc.current().declared[name] = true
}

// LookupType scans innermost to outermost; the first scope that has a type wins
func (tc *TypeContext) LookupType(name string) types.ShellType {
	for i := len(tc.scopes) - 1; i >= 0; i-- {
		if t, ok := tc.scopes[i].vars[name]; ok {
			return t
		}
	}
	return nil
}

// IsDeclared reports whether any visible scope has assigned or declared name
func (tc *TypeContext) IsDeclared(name string) bool {
	for i := len(tc.scopes) - 1; i >= 0; i-- {
		if tc.scopes[i].declared[name] {
			return true
		}
	}
	return false
}

// SetFunction registers a function signature
func (tc *TypeContext) SetFunction(name string, sig *FunctionSignature) {
	tc.functions[name] = sig
}

// LookupFunction returns the signature registered for name, or nil
func (tc *TypeContext) LookupFunction(name string) *FunctionSignature {
	return tc.functions[name]
}
