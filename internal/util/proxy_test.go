package util

import (
	"net/http"
	"net/url"
	"testing"
)

func TestNewProxyFunc(t *testing.T) {
	proxy := NewProxyFunc("http://proxy.internal:3128", "http://secure-proxy.internal:3129", "localhost, .corp.example")

	tests := []struct {
		url  string
		want string
	}{
		{"https://api.openai.com/v1/chat/completions", "http://secure-proxy.internal:3129"},
		{"http://plain.example/v1", "http://proxy.internal:3128"},
		{"http://localhost:11434/v1", ""},
		{"https://llm.corp.example/v1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			u, _ := url.Parse(tt.url)
			got, err := proxy(&http.Request{URL: u})
			if err != nil {
				t.Fatalf("proxy() error = %v", err)
			}
			if tt.want == "" {
				if got != nil {
					t.Errorf("proxy(%s) = %v, want direct", tt.url, got)
				}
				return
			}
			if got == nil || got.String() != tt.want {
				t.Errorf("proxy(%s) = %v, want %s", tt.url, got, tt.want)
			}
		})
	}
}

func TestNewProxyFunc_Wildcard(t *testing.T) {
	proxy := NewProxyFunc("http://proxy.internal:3128", "", "*")
	u, _ := url.Parse("https://api.openai.com/v1")
	if got, _ := proxy(&http.Request{URL: u}); got != nil {
		t.Errorf("proxy() = %v, want direct for wildcard no_proxy", got)
	}
}
