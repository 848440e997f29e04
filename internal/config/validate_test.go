package config

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		uc        *UserConfig
		wantPaths []string
	}{
		{"nil config", nil, nil},
		{"empty config", &UserConfig{}, nil},
		{
			"valid network",
			&UserConfig{Networks: map[string]NetworkUserConfig{"a": {URL: Literal("http://a"), Timeout: "1s"}}},
			nil,
		},
		{
			"missing url",
			&UserConfig{Networks: map[string]NetworkUserConfig{"a": {}}},
			[]string{"networks.a.url"},
		},
		{
			"unsupported type",
			&UserConfig{Networks: map[string]NetworkUserConfig{"a": {Type: "ws", URL: Literal("ws://a")}}},
			[]string{"networks.a.type"},
		},
		{
			"bad timeout",
			&UserConfig{Networks: map[string]NetworkUserConfig{"a": {URL: Literal("http://a"), Timeout: "-1s"}}},
			[]string{"networks.a.timeout"},
		},
		{
			"undefined default network",
			&UserConfig{DefaultNetwork: "mainnet"},
			[]string{"defaultNetwork"},
		},
		{
			"localhost default is always defined",
			&UserConfig{DefaultNetwork: DefaultNetworkName},
			nil,
		},
		{
			"duplicate and empty plugins",
			&UserConfig{Plugins: []string{"a", "", "a"}},
			[]string{"plugins[1]", "plugins[2]"},
		},
		{
			"errors sorted by network name",
			&UserConfig{Networks: map[string]NetworkUserConfig{"b": {}, "a": {}}},
			[]string{"networks.a.url", "networks.b.url"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.uc)
			if len(errs) != len(tt.wantPaths) {
				t.Fatalf("got %d errors (%v), want %d", len(errs), errs, len(tt.wantPaths))
			}
			for i, want := range tt.wantPaths {
				if errs[i].Path != want {
					t.Errorf("errs[%d].Path = %q, want %q", i, errs[i].Path, want)
				}
			}
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	err := ValidationErrors{
		{Path: "networks.a.url", Message: "url is required for http networks"},
		{Message: "something else"},
	}
	got := err.Error()
	if !strings.Contains(got, "networks.a.url: url is required") {
		t.Errorf("Error() = %q", got)
	}
	if !strings.Contains(got, "* something else") {
		t.Errorf("Error() = %q", got)
	}
}
