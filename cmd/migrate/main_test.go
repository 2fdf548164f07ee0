package main

import (
	"testing"
)

func TestRootCommandListsMigrationActions(t *testing.T) {
	root := newRootCmd()
	want := map[string]bool{"up": false, "status": false, "down": false}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("missing subcommand %q", name)
		}
	}
}

func TestRejectsExtraArgs(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"up", "extra"})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected positional arguments to be rejected")
	}
}
