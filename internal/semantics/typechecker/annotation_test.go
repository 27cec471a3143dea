package typechecker

import (
	"testing"

	"github.com/paiml/bashrs-sub005/internal/types"
)

func TestParseTypeAnnotation(t *testing.T) {
	tests := []struct {
		comment  string
		name     string
		typ      types.ShellType
		isParam  bool
		isReturn bool
		valid    bool
	}{
		{"@type port: int", "port", types.TypeInteger, false, false, true},
		{"# @type name: string", "name", types.TypeString, false, false, true},
		{" @type ok: bool", "ok", types.TypeBoolean, false, false, true},
		{"@type dir: path", "dir", types.TypeString, false, false, true},
		{"@type files: array", "files", types.NewArray(types.TypeString), false, false, true},
		{"@type out: fd", "out", types.TypeFD, false, false, true},
		{"@param count: integer", "count", types.TypeInteger, true, false, true},
		{"@returns: exit_code", "", types.TypeExitCode, false, true, true},
		{"@type x: float", "", nil, false, false, false},
		{"@type x int", "", nil, false, false, false},
		{"@type 1x: int", "", nil, false, false, false},
		{"just a comment", "", nil, false, false, false},
		{"@returns x: int", "", nil, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.comment, func(t *testing.T) {
			ann := ParseTypeAnnotation(tt.comment)
			if !tt.valid {
				if ann != nil {
					t.Fatalf("expected no annotation, got %+v", ann)
				}
				return
			}
			if ann == nil {
				t.Fatal("expected an annotation, got nil")
			}
			if ann.Name != tt.name || ann.IsParam != tt.isParam || ann.IsReturn != tt.isReturn {
				t.Errorf("got %+v", ann)
			}
			if !ann.Type.Equals(tt.typ) {
				t.Errorf("type = %s, want %s", ann.Type, tt.typ)
			}
		})
	}
}
