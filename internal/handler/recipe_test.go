package handler

import (
	"reflect"
	"testing"
)

func TestSplitIDs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"single", "abc", []string{"abc"}},
		{"multiple", "a,b,c", []string{"a", "b", "c"}},
		{"whitespace", " a , b ", []string{"a", "b"}},
		{"trailing_comma", "a,b,", []string{"a", "b"}},
		{"only_commas", ",,,", []string{}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := splitIDs(test.raw)
			if test.want == nil {
				if got != nil {
					t.Fatalf("expected nil, got %v", got)
				}
				return
			}
			if !reflect.DeepEqual(got, test.want) {
				t.Errorf("splitIDs(%q) = %v, want %v", test.raw, got, test.want)
			}
		})
	}
}
