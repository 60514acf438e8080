package parser

import (
	"errors"
	"testing"

	rgerror "github.com/msto63/robogame/foundation/core/error"
	rgast "github.com/msto63/robogame/foundation/script/ast"
)

func FuzzParse(f *testing.F) {
	seeds := []string{
		"",
		"move;",
		"loop { move; turnL; }",
		"if (lt(fuelLeft, 10)) { takeFuel; } elif (eq(1, 1)) { wait; } else { move(2); }",
		"$x = add($y, barrelLR(div(3, 0)));",
		"while (and(gt($a, 0), not(eq($b, 1)))) { $a = sub($a, 1); }",
		"}}}{{{(((",
		"$x = add($y = 3, 4);",
		"move(99999999999999999999999);",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, src string) {
		prog, err := Parse(src)
		if rgerror.HasCode(err, rgerror.CodeProgramTooLarge) {
			return
		}
		if err != nil {
			var synErr *SyntaxError
			if !errors.As(err, &synErr) {
				t.Fatalf("unexpected error type %T: %v", err, err)
			}
			if prog != nil {
				t.Fatal("partial tree returned with error")
			}
			if len(synErr.Context) > ContextTokens {
				t.Fatalf("context too long: %d", len(synErr.Context))
			}
			return
		}
		if verr := rgast.Validate(prog); verr != nil {
			t.Fatalf("parsed tree fails validation: %v", verr)
		}
		if _, err := Parse(rgast.Format(prog)); err != nil {
			t.Fatalf("formatted program does not parse: %v", err)
		}
	})
}
