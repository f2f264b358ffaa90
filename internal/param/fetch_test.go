package param

import (
	"context"
	"errors"
	"testing"
)

type fakeFetcher map[string]string

func (f fakeFetcher) Fetch(_ context.Context, path string) (string, error) {
	v, ok := f[path]
	if !ok {
		return "", errors.New("parameter not found")
	}
	return v, nil
}

func TestResolve(t *testing.T) {
	f := fakeFetcher{"/dallebot/dezgo": "from-ssm"}
	tests := []struct {
		value, path, want string
		wantErr           bool
	}{
		{"direct", "/dallebot/dezgo", "direct", false},
		{"", "/dallebot/dezgo", "from-ssm", false},
		{"", "", "", false},
		{"", "/missing", "", true},
	}
	for _, tt := range tests {
		got, err := Resolve(context.Background(), f, tt.value, tt.path)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("Resolve(%q, %q) = %q, %v", tt.value, tt.path, got, err)
		}
	}
}
