package browser

import (
	"math/rand"
)

// Fingerprint is the set of identity signals reported by a browser context.
// When anonymization is on, one is drawn per session from the fixed pools below.
type Fingerprint struct {
	UserAgent string
	Timezone  string
	Locale    string
}

// Default user agents per engine, used when anonymization is off.
const (
	chromeUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	firefoxUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/121.0"
	webkitUserAgent  = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15"
)

var userAgentPool = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/120.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/121.0",
}

var timezonePool = []string{
	"America/New_York",
	"America/Los_Angeles",
	"America/Chicago",
	"Europe/London",
	"Europe/Paris",
	"Europe/Berlin",
	"Asia/Tokyo",
	"Australia/Sydney",
}

var localePool = []string{
	"en-US",
	"en-GB",
	"en-CA",
	"en-AU",
}

func randomFingerprint(rng *rand.Rand) Fingerprint {
	return Fingerprint{
		UserAgent: userAgentPool[rng.Intn(len(userAgentPool))],
		Timezone:  timezonePool[rng.Intn(len(timezonePool))],
		Locale:    localePool[rng.Intn(len(localePool))],
	}
}

func defaultFingerprint(engine Engine) Fingerprint {
	ua := chromeUserAgent
	switch engine {
	case EngineFirefox:
		ua = firefoxUserAgent
	case EngineWebkit:
		ua = webkitUserAgent
	}
	return Fingerprint{UserAgent: ua, Timezone: "America/New_York", Locale: "en-US"}
}

// stealthScript neutralizes the fingerprinting vectors naive anti-bot checks
// probe for: automation indicator properties, GPU/rendering-surface queries,
// canvas hashes, and WebRTC IP leaks.
const stealthScript = `
// Remove webdriver property
Object.defineProperty(navigator, 'webdriver', {
    get: () => undefined,
});

// Override navigator properties
Object.defineProperty(navigator, 'plugins', {
    get: () => [1, 2, 3, 4, 5],
});

Object.defineProperty(navigator, 'languages', {
    get: () => ['en-US', 'en'],
});

// Override chrome property
window.chrome = {
    runtime: {},
    loadTimes: function() {},
    csi: function() {},
    app: {}
};

// WebGL queries return nothing identifiable
const getContext = HTMLCanvasElement.prototype.getContext;
HTMLCanvasElement.prototype.getContext = function(type) {
    if (type === 'webgl' || type === 'webgl2') {
        return null;
    }
    return getContext.call(this, type);
};

// Canvas hash is the same for everyone
const toDataURL = HTMLCanvasElement.prototype.toDataURL;
HTMLCanvasElement.prototype.toDataURL = function() {
    return 'data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8/5+hHgAHggJ/PchI7wAAAABJRU5ErkJggg==';
};

// Block WebRTC so the real IP cannot leak around a proxy
window.RTCPeerConnection = undefined;
window.RTCDataChannel = undefined;
window.RTCSessionDescription = undefined;
`

// webdriverScript is the minimal automation-property removal applied even when
// full anonymization is off.
const webdriverScript = `
Object.defineProperty(navigator, 'webdriver', {
    get: () => undefined,
});
`

// Chromium launch arguments for better stealth.
var chromiumArgs = []string{
	"--no-first-run",
	"--no-default-browser-check",
	"--disable-blink-features=AutomationControlled",
	"--disable-extensions-file-access-check",
	"--disable-plugins-discovery",
}
