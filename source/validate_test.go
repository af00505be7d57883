package source

import (
	"net"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid https", "https://example.com/article", false},
		{"valid https with port", "https://example.com:8443/page", false},
		{"plain http", "http://example.com", true},
		{"ftp scheme", "ftp://example.com/file", true},
		{"localhost", "https://localhost/admin", true},
		{"loopback v4", "https://127.0.0.1/", true},
		{"loopback v6", "https://[::1]/", true},
		{"private 10.x", "https://10.0.0.5/internal", true},
		{"private 192.168.x", "https://192.168.1.1/router", true},
		{"private 172.16.x", "https://172.16.0.1/", true},
		{"cgnat", "https://100.64.0.1/", true},
		{"link local", "https://169.254.169.254/latest/meta-data", true},
		{"local domain", "https://service.local/", true},
		{"internal domain", "https://db.internal/", true},
		{"uppercase local domain", "https://SERVICE.LOCAL/", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURLAllowHTTP(t *testing.T) {
	if err := validateURL("http://127.0.0.1:8080/page", true); err != nil {
		t.Errorf("allowHTTP should permit loopback http: %v", err)
	}
	if err := validateURL("ftp://example.com", true); err == nil {
		t.Error("allowHTTP should still reject non-http schemes")
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip   string
		want bool
	}{
		{"8.8.8.8", false},
		{"1.1.1.1", false},
		{"2607:f8b0::1", false},
		{"127.0.0.1", true},
		{"10.1.2.3", true},
		{"172.16.5.5", true},
		{"192.168.0.10", true},
		{"100.64.10.10", true},
		{"169.254.1.1", true},
		{"::1", true},
		{"fc00::1", true},
		{"fe80::1", true},
		{"::ffff:192.168.1.1", true},
		{"::ffff:8.8.8.8", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			ip := net.ParseIP(tt.ip)
			if ip == nil {
				t.Fatalf("invalid test IP %q", tt.ip)
			}
			if got := IsPrivateIP(ip); got != tt.want {
				t.Errorf("IsPrivateIP(%s) = %v, want %v", tt.ip, got, tt.want)
			}
		})
	}
}
