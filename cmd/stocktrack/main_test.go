package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectItemLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"stocktrack"},
			want: []string{"stocktrack"},
		},
		{
			name: "direct item id first token",
			in:   []string{"stocktrack", "42"},
			want: []string{"stocktrack", "items", "get", "42"},
		},
		{
			name: "direct item id after value flag",
			in:   []string{"stocktrack", "--server", "http://localhost:9000/api/v1", "42"},
			want: []string{"stocktrack", "--server", "http://localhost:9000/api/v1", "items", "get", "42"},
		},
		{
			name: "direct item id after equals flag",
			in:   []string{"stocktrack", "--format=table", "42"},
			want: []string{"stocktrack", "--format=table", "items", "get", "42"},
		},
		{
			name: "direct item id after bool flag",
			in:   []string{"stocktrack", "--pretty", "7"},
			want: []string{"stocktrack", "--pretty", "items", "get", "7"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"stocktrack", "items", "get", "42"},
			want: []string{"stocktrack", "items", "get", "42"},
		},
		{
			name: "non-positive id not rewritten",
			in:   []string{"stocktrack", "0"},
			want: []string{"stocktrack", "0"},
		},
		{
			name: "unknown command not rewritten",
			in:   []string{"stocktrack", "wat"},
			want: []string{"stocktrack", "wat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := rewriteDirectItemLookupArgs(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewrite(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
