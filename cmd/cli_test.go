// SPDX-License-Identifier: MIT
package cmd

import "testing"

func TestConfigPathFromArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no flag", []string{"-d", "2"}, ""},
		{"separate value", []string{"--config", "a.yaml"}, "a.yaml"},
		{"equals form", []string{"--config=b.yaml"}, "b.yaml"},
		{"dangling flag", []string{"--config"}, ""},
		{"mixed with others", []string{"-v", "--config", "c.yaml", "list"}, "c.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := configPathFromArgs(tt.args); got != tt.want {
				t.Errorf("configPathFromArgs(%v) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}
