package scope_test

import (
	"testing"

	"vartrace/internal/scope"
	"vartrace/internal/value"
)

func TestFilterHide(t *testing.T) {
	plain := value.Rendering{Text: "1"}
	terse := value.Rendering{Text: "<object at 0x1>", Terse: true}

	cases := []struct {
		name   string
		filter scope.Filter
		bind   string
		r      value.Rendering
		hide   bool
	}{
		{"internal hidden by default", scope.Filter{}, "__x", plain, true},
		{"internal shown when enabled", scope.Filter{ShowInternal: true}, "__x", plain, false},
		{"terse hidden by default", scope.Filter{}, "x", terse, true},
		{"terse shown when enabled", scope.Filter{ShowUnrepresentable: true}, "x", terse, false},
		{"plain never hidden", scope.Filter{}, "x", plain, false},
		{"internal check independent of terse flag", scope.Filter{ShowUnrepresentable: true}, "__x", terse, true},
		{"terse check independent of internal flag", scope.Filter{ShowInternal: true}, "__x", terse, true},
		{"both enabled shows everything", scope.Filter{ShowInternal: true, ShowUnrepresentable: true}, "__x", terse, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.filter.Hide(tc.bind, tc.r); got != tc.hide {
				t.Errorf("Hide(%q, %+v) = %v, want %v", tc.bind, tc.r, got, tc.hide)
			}
		})
	}
}
