package repokit

import (
	"testing"

	"trustrank/internal/platform/store/storetest"
	"trustrank/internal/platform/testkit"
)

func TestMustBind(t *testing.T) {
	db := &storetest.DB{}
	var seen Queryer
	b := BindFunc[string](func(q Queryer) string {
		seen = q
		return "bound"
	})

	if got := MustBind[string](b, db); got != "bound" || seen != db {
		t.Fatalf("got=%q seen=%v", got, seen)
	}
	testkit.MustPanic(t, func() { MustBind[string](b, nil) })
}
