package typechecker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paiml/bashrs-sub005/internal/types"
)

func TestTypeContext_ScopeStack(t *testing.T) {
	tc := NewTypeContext()
	tc.SetType("x", types.TypeInteger)

	tc.PushScope()
	tc.SetType("x", types.TypeString)
	tc.Declare("y")
	assert.Equal(t, types.TypeString, tc.LookupType("x"), "innermost scope wins")
	assert.True(t, tc.IsDeclared("y"))
	assert.Nil(t, tc.LookupType("y"))

	tc.PopScope()
	assert.Equal(t, types.TypeInteger, tc.LookupType("x"))
	assert.False(t, tc.IsDeclared("y"))
}

func TestTypeContext_GlobalScopeIsNeverPopped(t *testing.T) {
	tc := NewTypeContext()
	tc.SetType("keep", types.TypeBoolean)

	tc.PopScope()
	tc.PopScope()

	assert.Equal(t, 1, tc.Depth())
	assert.Equal(t, types.TypeBoolean, tc.LookupType("keep"))
}

func TestTypeContext_Functions(t *testing.T) {
	tc := NewTypeContext()
	assert.Nil(t, tc.LookupFunction("deploy"))

	sig := &FunctionSignature{Params: []Param{{Name: "n", Type: types.TypeInteger}}}
	tc.SetFunction("deploy", sig)
	assert.Same(t, sig, tc.LookupFunction("deploy"))
}
