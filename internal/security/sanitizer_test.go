package security

import (
	"strings"
	"testing"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "Plain", input: "  Pão de ontem  ", want: "Pão de ontem"},
		{name: "Script tag", input: "<script>alert(1)</script>Sopa", want: "Sopa"},
		{name: "Bold tag", input: "<b>Maçãs</b>", want: "Maçãs"},
		{name: "Null byte", input: "a\x00b", want: "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeText(tt.input); got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeString_Truncates(t *testing.T) {
	got := SanitizeString(strings.Repeat("é", 1200))
	if n := len([]rune(got)); n != 1000 {
		t.Errorf("rune count = %d, want 1000", n)
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{email: "ana@example.com", want: true},
		{email: "not-an-email", want: false},
		{email: "Ana <ana@example.com>", want: false},
		{email: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := ValidateEmail(tt.email); got != tt.want {
				t.Errorf("ValidateEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestValidateNIF(t *testing.T) {
	if !ValidateNIF("123456789") {
		t.Error("ValidateNIF() rejected a 9-digit number")
	}
	if ValidateNIF("12345678") || ValidateNIF("12345678A") {
		t.Error("ValidateNIF() accepted a malformed number")
	}
}

func TestValidateFileType(t *testing.T) {
	allowed := []string{".jpg", ".png"}
	if !ValidateFileType("https://cdn.example/img/Photo.JPG", allowed) {
		t.Error("ValidateFileType() should be case-insensitive")
	}
	if ValidateFileType("payload.exe", allowed) {
		t.Error("ValidateFileType() accepted .exe")
	}
}

func TestValidateLength(t *testing.T) {
	if !ValidateLength("ção", 1, 3) {
		t.Error("ValidateLength() should count runes, not bytes")
	}
	if ValidateLength("", 1, 255) {
		t.Error("ValidateLength() accepted an empty string")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("segredo123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "segredo123" {
		t.Fatal("HashPassword() returned the plain password")
	}
	if !CheckPassword(hash, "segredo123") {
		t.Error("CheckPassword() rejected the right password")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("CheckPassword() accepted a wrong password")
	}
}
