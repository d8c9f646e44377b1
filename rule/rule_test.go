package rule_test

import (
	"testing"

	"github.com/fluentgo/fluent/ra"
	"github.com/fluentgo/fluent/rule"
)

func TestOpString(t *testing.T) {
	cases := map[rule.Op]string{
		rule.ImmediateMerge: "+=",
		rule.DeferredMerge:  "<=",
		rule.DeferredDelete: "-=",
	}
	for op, want := range cases {
		if got := op.String(); got != want {
			t.Fatalf("Op(%d).String() = %q, want %q", op, got, want)
		}
	}
}

func TestNewRule(t *testing.T) {
	source := func() (ra.Operator, error) { return ra.FromSlice(nil), nil }
	r := rule.New(3, "t", rule.DeferredMerge, true, "t <= scan(s)", source)
	if r.Number != 3 || r.Target != "t" || r.Op != rule.DeferredMerge || !r.Bootstrap {
		t.Fatalf("unexpected rule: %#v", r)
	}
	if _, err := r.Source(); err != nil {
		t.Fatalf("unexpected error invoking source: %v", err)
	}
}
