package ua

import (
	"testing"

	surfer "github.com/avct/uasurfer"
	"github.com/stretchr/testify/assert"
)

const chromeMac = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/125.0.6422.112 Safari/537.36"

func TestParse_Desktop(t *testing.T) {
	info := Parse(chromeMac)
	assert.Equal(t, "Chrome", info.Browser)
	assert.Equal(t, "Desktop", info.Device)
	assert.False(t, info.IsBot)
	assert.Equal(t, chromeMac, info.Raw)
}

func TestParse_Bot(t *testing.T) {
	info := Parse("Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)")
	assert.True(t, info.IsBot)
}

func TestVersionToString(t *testing.T) {
	cases := []struct {
		in   surfer.Version
		want string
	}{
		{surfer.Version{}, ""},
		{surfer.Version{Major: 17}, "17"},
		{surfer.Version{Major: 17, Minor: 3}, "17.3"},
		{surfer.Version{Major: 17, Minor: 3, Patch: 1}, "17.3.1"},
		{surfer.Version{Major: 17, Patch: 2}, "17.0.2"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, versionToString(c.in))
	}
}
