package main

import (
	"testing"

	"github.com/dmorgan81/dallebot/internal/dalle"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		argv    []string
		port    int
		size    dalle.Size
		wantErr bool
	}{
		{[]string{"8080"}, 8080, dalle.Mini, false},
		{[]string{"8080", "mega"}, 8080, dalle.Mega, false},
		{[]string{"5000", "MEGA_FULL"}, 5000, dalle.MegaFull, false},
		{[]string{"5000", "gigantic"}, 5000, dalle.Mini, false},
		{[]string{"5000", ""}, 5000, dalle.Mini, false},
		{nil, 0, dalle.Mini, true},
		{[]string{"http"}, 0, dalle.Mini, true},
		{[]string{"70000"}, 0, dalle.Mini, true},
	}
	for _, tt := range tests {
		got, err := parseArgs(tt.argv)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseArgs(%v) error = %v", tt.argv, err)
			continue
		}
		if err == nil && (got.port != tt.port || got.size != tt.size) {
			t.Errorf("parseArgs(%v) = %+v", tt.argv, got)
		}
	}
}
