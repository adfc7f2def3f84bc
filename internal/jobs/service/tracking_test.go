package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	assert.Equal(t, "203.0.113.7", ClientIP("203.0.113.7, 10.0.0.1", "10.0.0.2"))
	assert.Equal(t, "10.0.0.2", ClientIP("", " 10.0.0.2 "))
	assert.Equal(t, "10.0.0.2", ClientIP(" , 10.0.0.1", "10.0.0.2"))
	assert.Equal(t, "unknown", ClientIP("", ""))
}

func TestHashIPIsShortAndStable(t *testing.T) {
	h := HashIP("203.0.113.7")
	assert.Len(t, h, 16)
	assert.Equal(t, h, HashIP("203.0.113.7"))
	assert.NotEqual(t, h, HashIP("203.0.113.8"))
}

func TestIsBot(t *testing.T) {
	cases := []struct {
		ua  string
		bot bool
	}{
		{"", true},
		{"Googlebot/2.1", true},
		{"Mozilla/5.0 HeadlessChrome", true},
		{"curl/8.4.0", true},
		{"python-requests/2.31", true},
		{"PostmanRuntime/7.36", true},
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Safari/604.1", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.bot, IsBot(tc.ua), tc.ua)
	}
}

func TestTruncatedLimitsRunes(t *testing.T) {
	long := strings.Repeat("あ", maxUserAgentLen+10)
	got := truncated(long, maxUserAgentLen)
	if assert.NotNil(t, got) {
		assert.Equal(t, maxUserAgentLen, len([]rune(*got)))
	}
	assert.Nil(t, truncated("   ", maxReferrerLen))
}
