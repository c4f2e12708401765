package util

import (
	"net/http"
	"net/url"
	"strings"
)

// NewProxyFunc routes labeler traffic through the configured proxies. Hosts
// listed in noProxy (comma separated, "*" for all) connect directly. With no
// proxy configured the standard HTTP_PROXY/HTTPS_PROXY/NO_PROXY variables apply.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	bypass := splitNoProxy(noProxy)

	return func(req *http.Request) (*url.URL, error) {
		if bypassed(Host(req.URL.String()), bypass) {
			return nil, nil
		}

		proxy := httpProxy
		if req.URL.Scheme == "https" && httpsProxy != "" {
			proxy = httpsProxy
		}
		if proxy == "" {
			return http.ProxyFromEnvironment(req)
		}
		return url.Parse(proxy)
	}
}

func splitNoProxy(noProxy string) []string {
	var out []string
	for _, entry := range strings.Split(noProxy, ",") {
		entry = strings.ToLower(strings.TrimSpace(entry))
		entry = strings.TrimPrefix(entry, "*.")
		entry = strings.TrimPrefix(entry, ".")
		if entry != "" {
			out = append(out, entry)
		}
	}
	return out
}

func bypassed(host string, bypass []string) bool {
	for _, domain := range bypass {
		if domain == "*" || MatchesDomain(host, domain) {
			return true
		}
	}
	return false
}
