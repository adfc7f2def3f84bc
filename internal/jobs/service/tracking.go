package service

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	unknownIP       = "unknown"
	ipHashLength    = 16
	maxUserAgentLen = 500
	maxReferrerLen  = 1000
)

var botPatterns = []string{
	"bot", "crawl", "spider", "slurp", "mediapartners", "adsbot", "bingpreview",
	"lighthouse", "pagespeed", "headless", "phantom", "prerender", "wget", "curl",
	"python-requests", "httpie", "postman",
}

// ClientIP picks the viewer address from proxy headers. The first
// X-Forwarded-For entry wins over X-Real-IP.
func ClientIP(forwardedFor, realIP string) string {
	if first, _, _ := strings.Cut(forwardedFor, ","); strings.TrimSpace(first) != "" {
		return strings.TrimSpace(first)
	}
	if ip := strings.TrimSpace(realIP); ip != "" {
		return ip
	}
	return unknownIP
}

// HashIP returns the first 16 hex characters of the sha256 of ip.
func HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])[:ipHashLength]
}

// IsBot flags empty or crawler-like user agents.
func IsBot(userAgent string) bool {
	ua := strings.ToLower(strings.TrimSpace(userAgent))
	if ua == "" {
		return true
	}
	for _, pattern := range botPatterns {
		if strings.Contains(ua, pattern) {
			return true
		}
	}
	return false
}
