package sshconfig

import (
	"errors"
	"strings"
	"testing"
)

func TestParse_EmptyInput(t *testing.T) {
	recs, err := ParseString("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected no records, got %d", len(recs))
	}
}

func TestParse_UnknownKeyIsNamed(t *testing.T) {
	_, err := ParseString("Host a\nFoo bar\n")
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Key != "Foo" || pe.Line != 2 {
		t.Fatalf("expected key Foo on line 2, got key=%q line=%d", pe.Key, pe.Line)
	}
	if !strings.Contains(err.Error(), "Foo") {
		t.Fatalf("expected message to name Foo, got %q", err.Error())
	}
}

func TestParse_KeyLookupIsCaseSensitive(t *testing.T) {
	_, err := ParseString("Host a\nhostname x\n")
	if !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey for lowercase key, got %v", err)
	}
}

func TestParse_MalformedLine(t *testing.T) {
	_, err := ParseString("Host a\n  Lonely\n")
	if !errors.Is(err, ErrMalformedLine) {
		t.Fatalf("expected ErrMalformedLine, got %v", err)
	}
	if !strings.Contains(err.Error(), "Lonely") {
		t.Fatalf("expected message to quote the line, got %q", err.Error())
	}
}

func TestParse_ConsecutiveHostsGiveEmptyRecords(t *testing.T) {
	recs, err := ParseString("Host a\nHost b\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Host != "a" || recs[1].Host != "b" {
		t.Fatalf("expected hosts a,b got %q,%q", recs[0].Host, recs[1].Host)
	}
	if len(recs[0].Fields) != 0 || len(recs[1].Fields) != 0 {
		t.Fatalf("expected empty mappings, got %v / %v", recs[0].Fields, recs[1].Fields)
	}
}

func TestParse_LastWriteWins(t *testing.T) {
	in := "Host a\n  HostName 127.0.0.1\n  User me\n  HostName 10.0.0.1\nHost b\n  HostName 1.1.1.1\n"
	recs, err := ParseString(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := recs[0].Get(HostName); v != "10.0.0.1" {
		t.Fatalf("expected later HostName to win, got %q", v)
	}
	if v, _ := recs[1].Get(HostName); v != "1.1.1.1" {
		t.Fatalf("expected b HostName 1.1.1.1, got %q", v)
	}
}

func TestParse_SeparatorsAndComments(t *testing.T) {
	in := strings.Join([]string{
		"# leading comment",
		"",
		"Host=web",
		"  HostName = web.example.com",
		"  User=deploy",
		"  Port 2222",
		"  # comment inside block",
		"  IdentityFile ~/.ssh/id with space",
		"Host many patterns here",
	}, "\n")

	recs, err := ParseString(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	want := map[Key]string{
		HostName:     "web.example.com",
		User:         "deploy",
		Port:         "2222",
		IdentityFile: "~/.ssh/id with space",
	}
	if recs[0].Host != "web" {
		t.Fatalf("expected host web, got %q", recs[0].Host)
	}
	for k, v := range want {
		if got, ok := recs[0].Get(k); !ok || got != v {
			t.Fatalf("%s: expected %q, got %q (present=%v)", k, v, got, ok)
		}
	}
	if recs[1].Host != "many patterns here" {
		t.Fatalf("expected verbatim host string, got %q", recs[1].Host)
	}
}

func TestParse_OrphanFields(t *testing.T) {
	in := "User root\nHost a\n  Port 22\n"

	recs, err := ParseString(in)
	if err != nil {
		t.Fatalf("lenient parse: unexpected error: %v", err)
	}
	if len(recs) != 1 || len(recs[0].Fields) != 1 {
		t.Fatalf("expected orphan field to be dropped, got %#v", recs)
	}

	_, err = Parser{Strict: true}.Parse(strings.NewReader(in))
	if !errors.Is(err, ErrOrphanField) {
		t.Fatalf("strict parse: expected ErrOrphanField, got %v", err)
	}
}

func TestParse_UnknownKeyBeforeHostStillFails(t *testing.T) {
	_, err := ParseString("Include ~/.ssh/config.d/*\nHost a\n")
	if !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
}

func TestParse_DuplicateHostsAreKept(t *testing.T) {
	recs, err := ParseString("Host a\n  User x\nHost a\n  User y\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected duplicate hosts to be kept, got %d records", len(recs))
	}
}

func TestParseKey_RoundTripsNames(t *testing.T) {
	for _, k := range AllKeys() {
		got, ok := ParseKey(k.String())
		if !ok || got != k {
			t.Fatalf("ParseKey(%q) = %v,%v", k.String(), got, ok)
		}
	}
	if _, ok := ParseKey("Hostname"); ok {
		t.Fatalf("expected Hostname (wrong case) to be rejected")
	}
	if NumKeys() != 9 {
		t.Fatalf("expected 9 keys, got %d", NumKeys())
	}
}
