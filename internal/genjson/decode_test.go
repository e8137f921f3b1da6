package genjson

import (
	"errors"
	"testing"
)

type payload struct {
	Summary string   `json:"summary"`
	Topics  []string `json:"topics"`
}

func TestDecodeFencedMatchesUnfenced(t *testing.T) {
	clean := `{"summary":"s","topics":["a","b"]}`
	fenced := "```json\n" + clean + "\n```"

	var a, b payload
	if err := Decode(clean, &a); err != nil {
		t.Fatalf("clean decode: %v", err)
	}
	if err := Decode(fenced, &b); err != nil {
		t.Fatalf("fenced decode: %v", err)
	}
	if a.Summary != b.Summary || len(a.Topics) != len(b.Topics) {
		t.Fatalf("fenced and unfenced decodes differ: %+v vs %+v", a, b)
	}
}

func TestStripFencesIdempotent(t *testing.T) {
	in := "```json\n{\"x\":1}\n```"
	once := StripFences(in)
	twice := StripFences(once)
	if once != twice {
		t.Fatalf("strip not idempotent: %q vs %q", once, twice)
	}
	if once != `{"x":1}` {
		t.Fatalf("unexpected stripped output: %q", once)
	}
}

func TestDecodeInvalid(t *testing.T) {
	var p payload
	for _, raw := range []string{"", "not json at all", "```\nstill not json\n```"} {
		if err := Decode(raw, &p); !errors.Is(err, ErrInvalidResponse) {
			t.Fatalf("input %q: expected ErrInvalidResponse, got %v", raw, err)
		}
	}
}
