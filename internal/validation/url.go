package validation

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// URLValidator checks URLs the user types in for sources and the proxy.
type URLValidator struct {
	// AllowLocalhost permits localhost and loopback hosts.
	AllowLocalhost bool
	// AllowPrivateIPs permits RFC 1918 and link-local addresses.
	AllowPrivateIPs bool
	// AllowQuery permits a query string. Source API bases get the search
	// path appended and must not carry one.
	AllowQuery bool
	MaxLength  int
}

// NewSourceURLValidator validates custom source API and detail URLs.
// Self-hosted sources on the LAN are common, so private hosts are allowed.
func NewSourceURLValidator() *URLValidator {
	return &URLValidator{
		AllowLocalhost:  true,
		AllowPrivateIPs: true,
		AllowQuery:      false,
		MaxLength:       2048,
	}
}

// NewProxyURLValidator validates the proxy base, which usually ends in a
// query parameter the escaped target is appended to.
func NewProxyURLValidator() *URLValidator {
	return &URLValidator{
		AllowLocalhost:  true,
		AllowPrivateIPs: true,
		AllowQuery:      true,
		MaxLength:       2048,
	}
}

// NewStrictURLValidator rejects local and private hosts.
func NewStrictURLValidator() *URLValidator {
	return &URLValidator{MaxLength: 2048}
}

// ValidateAndNormalize returns input with a scheme, or an error describing
// why it cannot be used.
func (v *URLValidator) ValidateAndNormalize(input string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return "", fmt.Errorf("URL cannot be empty")
	}
	if len(input) > v.MaxLength {
		return "", fmt.Errorf("URL too long (max %d characters)", v.MaxLength)
	}
	if strings.ContainsAny(input, "<>\"'` ") {
		return "", fmt.Errorf("URL contains invalid characters")
	}

	if !strings.HasPrefix(input, "http://") && !strings.HasPrefix(input, "https://") {
		input = "https://" + input
	}

	parsed, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("URL must use http or https protocol")
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("URL must have a valid hostname")
	}
	if parsed.Fragment != "" {
		return "", fmt.Errorf("URL must not contain a fragment")
	}
	if !v.AllowQuery && (parsed.RawQuery != "" || parsed.ForceQuery) {
		return "", fmt.Errorf("URL must not contain a query string")
	}

	if err := v.validateHost(parsed.Host); err != nil {
		return "", err
	}
	if strings.Contains(parsed.Path, "..") {
		return "", fmt.Errorf("directory traversal patterns not allowed in URL path")
	}
	if strings.Contains(strings.ToLower(parsed.RawQuery), "javascript:") {
		return "", fmt.Errorf("suspicious query parameters detected")
	}

	return input, nil
}

func (v *URLValidator) validateHost(host string) error {
	hostname := host
	if strings.Contains(host, ":") && !strings.HasSuffix(host, "]") {
		var err error
		hostname, _, err = net.SplitHostPort(host)
		if err != nil {
			return fmt.Errorf("invalid host format: %w", err)
		}
	}
	hostname = strings.Trim(hostname, "[]")

	if !v.AllowLocalhost && isLocalhost(hostname) {
		return fmt.Errorf("localhost URLs are not permitted")
	}
	if !v.AllowPrivateIPs {
		if ip := net.ParseIP(hostname); ip != nil && isPrivateIP(ip) {
			return fmt.Errorf("private IP addresses are not permitted")
		}
	}
	if hostname == "0.0.0.0" || hostname == "255.255.255.255" {
		return fmt.Errorf("unroutable host %s", hostname)
	}
	return nil
}

func isLocalhost(hostname string) bool {
	if hostname == "localhost" || strings.HasSuffix(hostname, ".localhost") {
		return true
	}
	ip := net.ParseIP(hostname)
	return ip != nil && ip.IsLoopback()
}

func isPrivateIP(ip net.IP) bool {
	return ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLoopback()
}
