package domain

import (
	"strings"
	"testing"
)

func TestValidEmail(t *testing.T) {
	cases := map[string]bool{
		"ann@x.com":             true,
		"first.last@mail.co.uk": true,
		"a-b_c@host-1.io":       true,
		"no-at-sign.com":        false,
		"ann@x":                 false,
		"ann@x.toolongtld":      false,
		"":                      false,
	}
	for in, want := range cases {
		if got := ValidEmail(NormalizeEmail(in)); got != want {
			t.Fatalf("ValidEmail(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestValidName(t *testing.T) {
	if ValidName("A") {
		t.Fatalf("expected single rune name to be rejected")
	}
	if !ValidName("Ann") {
		t.Fatalf("expected Ann to be valid")
	}
	long := make([]rune, NameMaxLen+1)
	for i := range long {
		long[i] = 'x'
	}
	if ValidName(string(long)) {
		t.Fatalf("expected name over %d runes to be rejected", NameMaxLen)
	}
}

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole(" Admin "); !ok || r != RoleAdmin {
		t.Fatalf("expected admin, got %q,%v", r, ok)
	}
	if _, ok := ParseRole("user"); ok {
		t.Fatalf("expected unknown role to be rejected")
	}
}

func TestParseJobTypeDefaultsToFullTime(t *testing.T) {
	jt, ok := ParseJobType("")
	if !ok || jt != JobTypeFullTime {
		t.Fatalf("expected full-time default, got %q,%v", jt, ok)
	}
	if _, ok := ParseJobType("contract"); ok {
		t.Fatalf("expected contract to be rejected")
	}
}

func TestValidPassword(t *testing.T) {
	if ValidPassword("12345") {
		t.Fatalf("expected 5 char password to be rejected")
	}
	if !ValidPassword("123456") {
		t.Fatalf("expected 6 char password to be valid")
	}
	atLimit := strings.Repeat("x", PasswordMaxBytes)
	if !ValidPassword(atLimit) || PasswordTooLong(atLimit) {
		t.Fatalf("expected %d byte password to be valid", PasswordMaxBytes)
	}
	if ValidPassword(atLimit+"x") || !PasswordTooLong(atLimit+"x") {
		t.Fatalf("expected password over %d bytes to be rejected", PasswordMaxBytes)
	}
	// 30 runes de 3 bytes: pocas runas pero demasiados bytes.
	if !PasswordTooLong(strings.Repeat("€", 30)) {
		t.Fatalf("expected multibyte password over the byte limit to be rejected")
	}
}
