package browser

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomFingerprintDrawsFromPools(t *testing.T) {
	fp := randomFingerprint(rand.New(rand.NewSource(42)))

	assert.Contains(t, userAgentPool, fp.UserAgent)
	assert.Contains(t, timezonePool, fp.Timezone)
	assert.Contains(t, localePool, fp.Locale)
}

func TestRandomFingerprintIsSeedStable(t *testing.T) {
	a := randomFingerprint(rand.New(rand.NewSource(7)))
	b := randomFingerprint(rand.New(rand.NewSource(7)))
	assert.Equal(t, a, b)
}

func TestDefaultFingerprintMatchesEngine(t *testing.T) {
	assert.Equal(t, chromeUserAgent, defaultFingerprint(EngineChromium).UserAgent)
	assert.Equal(t, firefoxUserAgent, defaultFingerprint(EngineFirefox).UserAgent)
	assert.Equal(t, webkitUserAgent, defaultFingerprint(EngineWebkit).UserAgent)
}

func TestParseProxyForms(t *testing.T) {
	assert.Nil(t, parseProxy(""))
	assert.Equal(t, "http://proxy:8080", parseProxy("proxy:8080").Server)
	assert.Equal(t, "http://proxy:8080", parseProxy("http://proxy:8080").Server)
	assert.Equal(t, "socks5://proxy:1080", parseProxy("socks5://proxy:1080").Server)
}

func TestNewManagerRejectsUnknownEngine(t *testing.T) {
	_, err := NewManager(Options{Engine: "netscape"})
	assert.Error(t, err)

	m, err := NewManager(Options{})
	assert.NoError(t, err)
	assert.NotNil(t, m)
}
