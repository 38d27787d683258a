package useragent_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contactcard/pkg/useragent"
)

const (
	uaIPhone  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_2 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Mobile/15E148 Safari/604.1"
	uaIPad    = "Mozilla/5.0 (iPad; CPU OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1"
	uaIPod    = "Mozilla/5.0 (iPod touch; CPU iPhone OS 15_0 like Mac OS X) AppleWebKit/605.1.15"
	uaAndroid = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36"
	uaMac     = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/605.1.15"
	uaWindows = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		ua          string
		touchPoints int
		want        useragent.Profile
	}{
		{"iphone", uaIPhone, 5, useragent.Profile{IsMobile: true, IsIOS: true}},
		{"ipad", uaIPad, 5, useragent.Profile{IsMobile: true, IsIOS: true}},
		{"ipod", uaIPod, 0, useragent.Profile{IsMobile: true, IsIOS: true}},
		{"android", uaAndroid, 5, useragent.Profile{IsMobile: true, IsIOS: false}},
		{"ipados as desktop safari", uaMac, 5, useragent.Profile{IsMobile: false, IsIOS: true}},
		{"mac with one touch point", uaMac, 1, useragent.Profile{}},
		{"mac without touch", uaMac, 0, useragent.Profile{}},
		{"windows", uaWindows, 10, useragent.Profile{}},
		{"empty signal", "", 5, useragent.Profile{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, useragent.Classify(tt.ua, tt.touchPoints))
		})
	}
}

func TestClassifyIOSTokensAnywhere(t *testing.T) {
	t.Parallel()

	for _, token := range []string{"iPad", "iPhone", "iPod"} {
		for _, ua := range []string{token, "prefix " + token, token + " suffix", "x" + token + "y"} {
			assert.True(t, useragent.Classify(ua, 0).IsIOS, ua)
			assert.True(t, useragent.Classify(ua, 0).IsMobile, ua)
		}
	}
}

func TestClassifyMacTouchThreshold(t *testing.T) {
	t.Parallel()

	for n := -1; n <= 1; n++ {
		assert.False(t, useragent.Classify("Mac", n).IsIOS, "touch points %d", n)
	}
	for n := 2; n <= 10; n++ {
		assert.True(t, useragent.Classify("Mac", n).IsIOS, "touch points %d", n)
	}
}

func TestProfileHelpers(t *testing.T) {
	t.Parallel()

	ios := useragent.Profile{IsMobile: true, IsIOS: true}
	android := useragent.Profile{IsMobile: true}

	assert.True(t, android.SMSCapable())
	assert.False(t, useragent.Profile{}.SMSCapable())
	assert.Equal(t, "ios-mobile", ios.String())
	assert.Equal(t, "desktop", useragent.Profile{}.String())
}

func TestHintsDetector(t *testing.T) {
	t.Parallel()

	yes, no := true, false
	d := useragent.Hints{}

	t.Run("mobile hint wins over desktop user agent", func(t *testing.T) {
		p := d.Detect(useragent.Signals{UserAgent: uaWindows, Mobile: &yes, Platform: "Android"})
		assert.Equal(t, useragent.Profile{IsMobile: true}, p)
	})

	t.Run("desktop hint wins over mobile user agent", func(t *testing.T) {
		p := d.Detect(useragent.Signals{UserAgent: uaAndroid, Mobile: &no, Platform: "Windows"})
		assert.Equal(t, useragent.Profile{}, p)
	})

	t.Run("ios platform hint", func(t *testing.T) {
		p := d.Detect(useragent.Signals{Mobile: &yes, Platform: "iOS"})
		assert.Equal(t, useragent.Profile{IsMobile: true, IsIOS: true}, p)
	})

	t.Run("missing platform asks fallback for ios", func(t *testing.T) {
		p := d.Detect(useragent.Signals{UserAgent: uaIPhone, Mobile: &yes})
		assert.True(t, p.IsIOS)
	})

	t.Run("no hints delegates to fallback", func(t *testing.T) {
		called := false
		h := useragent.Hints{Fallback: useragent.DetectorFunc(func(s useragent.Signals) useragent.Profile {
			called = true
			return useragent.Profile{IsMobile: true}
		})}
		p := h.Detect(useragent.Signals{UserAgent: uaWindows})
		assert.True(t, called)
		assert.True(t, p.IsMobile)
	})
}

func TestSignalsFromRequest(t *testing.T) {
	t.Parallel()

	t.Run("headers", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("User-Agent", uaMac)
		r.Header.Set(useragent.HeaderMobileHint, "?0")
		r.Header.Set(useragent.HeaderPlatformHint, `"macOS"`)
		r.Header.Set(useragent.HeaderMaxTouchPoints, "5")

		s := useragent.SignalsFromRequest(r)
		assert.Equal(t, uaMac, s.UserAgent)
		assert.Equal(t, "macOS", s.Platform)
		assert.Equal(t, 5, s.MaxTouchPoints)
		if assert.NotNil(t, s.Mobile) {
			assert.False(t, *s.Mobile)
		}
	})

	t.Run("query value", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/sms?touch_points=3", nil)

		s := useragent.SignalsFromRequest(r)
		assert.Equal(t, 3, s.MaxTouchPoints)
		assert.Nil(t, s.Mobile)
	})

	t.Run("body is left unread", func(t *testing.T) {
		form := url.Values{useragent.FieldMaxTouchPoints: {"3"}, "name": {"Jane"}}
		r := httptest.NewRequest(http.MethodPost, "/actions/send", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		assert.Zero(t, useragent.SignalsFromRequest(r).MaxTouchPoints)
		assert.Nil(t, r.PostForm)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "Jane", r.PostForm.Get("name"))
	})

	t.Run("malformed touch points", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/?touch_points=lots", nil)
		assert.Zero(t, useragent.SignalsFromRequest(r).MaxTouchPoints)
	})
}
