package list

import (
	"bytes"
	"pduchat/internal/directory"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestPrintEntries tests the numbered server listing.
func TestPrintEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []directory.Entry
		want    string
	}{
		{"empty", nil, "No chat servers available.\n"},
		{
			"two",
			[]directory.Entry{
				{Addr: [4]byte{10, 0, 0, 1}, Port: 1234, Name: "lobby", Clients: 3},
				{Addr: [4]byte{10, 0, 0, 2}, Port: 80, Name: "quiet", Clients: 0},
			},
			"  1) lobby, 3 connected. (10.0.0.1:1234)\n" +
				"  2) quiet, 0 connected. (10.0.0.2:80)\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printEntries(&buf, tt.entries)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
