package cmd

import "testing"

func TestCommandsRegistered(t *testing.T) {
	want := []string{"list", "show", "export", "stats", "delete", "migrate", "healthcheck"}
	have := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestRootFlags(t *testing.T) {
	if rootCmd.PersistentFlags().Lookup("data-dir") == nil {
		t.Error("missing --data-dir flag")
	}
	if rootCmd.PersistentFlags().Lookup("verbose") == nil {
		t.Error("missing --verbose flag")
	}
}
