package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const id = "3f2b8c1e-9d4a-4c5e-8f7a-1b2c3d4e5f60"

func TestRewriteDirectTaskLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"tasky"},
			want: []string{"tasky"},
		},
		{
			name: "task id first token",
			in:   []string{"tasky", id},
			want: []string{"tasky", "tasks", "show", id},
		},
		{
			name: "task id after value flag",
			in:   []string{"tasky", "--server", "http://localhost:5050", id},
			want: []string{"tasky", "--server", "http://localhost:5050", "tasks", "show", id},
		},
		{
			name: "task id after equals flag",
			in:   []string{"tasky", "--format=table", id},
			want: []string{"tasky", "--format=table", "tasks", "show", id},
		},
		{
			name: "task id after bool flag",
			in:   []string{"tasky", "--pretty", id},
			want: []string{"tasky", "--pretty", "tasks", "show", id},
		},
		{
			name: "task id after double dash",
			in:   []string{"tasky", "--", id},
			want: []string{"tasky", "--", "tasks", "show", id},
		},
		{
			name: "subcommand not rewritten",
			in:   []string{"tasky", "tasks", "show", id},
			want: []string{"tasky", "tasks", "show", id},
		},
		{
			name: "non-id positional not rewritten",
			in:   []string{"tasky", "summary"},
			want: []string{"tasky", "summary"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, rewriteDirectTaskLookupArgs(tc.in))
		})
	}
}
