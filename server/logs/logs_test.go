package logs

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestParseFlags(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", log.LstdFlags},
		{"stdFlags", log.LstdFlags},
		{"date,time", log.Ldate | log.Ltime},
		{"shortfile, UTC", log.Lshortfile | log.LUTC},
		{"bogus", log.LstdFlags},
	}
	for _, tc := range cases {
		if got := parseFlags(tc.in); got != tc.want {
			t.Errorf("parseFlags(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestInitPrefixes(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf, "msgprefix")
	Info.Print("a")
	Warn.Print("b")
	Err.Print("c")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), buf.String())
	}
	for i, want := range []string{"Ia", "Wb", "Ec"} {
		if lines[i] != want {
			t.Errorf("line %d = %q, want %q", i, lines[i], want)
		}
	}
}
