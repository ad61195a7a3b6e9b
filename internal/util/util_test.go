package util

import (
	"net/http"
	"testing"
)

func TestMaskCredential(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"short", "abc", "****"},
		{"typical key", "sk-1234567890abcdef", "****cdef"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskCredential(tt.in); got != tt.want {
				t.Errorf("MaskCredential(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMaskCredentialNeverEchoesBody(t *testing.T) {
	key := "sk-secret-value-1234"
	masked := MaskCredential(key)
	if len(masked) >= len(key) {
		t.Errorf("masked form %q is not shorter than the credential", masked)
	}
	if masked == key {
		t.Error("masked form must differ from the credential")
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"well formed", "Bearer sk-abc", "sk-abc"},
		{"missing prefix", "sk-abc", ""},
		{"empty", "", ""},
		{"trailing space", "Bearer sk-abc ", "sk-abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BearerToken(tt.header); got != tt.want {
				t.Errorf("BearerToken(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestParseEnvList(t *testing.T) {
	got := ParseEnvList(" a, b ,, c ")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("ParseEnvList len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ParseEnvList[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if ParseEnvList("") != nil {
		t.Error("ParseEnvList(\"\") should be nil")
	}
}

func TestNewBackendRequestSetsAuth(t *testing.T) {
	req, err := NewBackendRequest(http.MethodGet, "https://api.deepseek.com/v1/models", nil, "sk-test")
	if err != nil {
		t.Fatalf("NewBackendRequest: %v", err)
	}
	if got := req.Header.Get("Authorization"); got != "Bearer sk-test" {
		t.Errorf("Authorization = %q", got)
	}
	if got := req.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
}

func TestValidateRequestTarget(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "https://api.deepseek.com/v1/models", nil)
	if err := ValidateRequestTarget(req, "https://api.deepseek.com", "outbound"); err != nil {
		t.Errorf("matching host rejected: %v", err)
	}

	evil, _ := http.NewRequest(http.MethodGet, "https://attacker.example/v1/models", nil)
	if err := ValidateRequestTarget(evil, "https://api.deepseek.com", "outbound"); err == nil {
		t.Error("mismatched host accepted")
	}
}
