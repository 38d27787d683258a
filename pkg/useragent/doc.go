// Package useragent classifies the visitor's device from the signals a browser
// reports, deciding whether it can hand off to a messaging app (mobile) and
// whether it runs iOS, which changes how sms: URLs must be built.
//
// Classification is intentionally coarse: only two flags are derived, and
// they are recomputed for every request instead of being cached.
//
// # Basic Usage
//
//	profile := useragent.Classify(r.UserAgent(), 0)
//	if profile.SMSCapable() {
//		// offer the messaging hand-off
//	}
//
// iPadOS Safari reports a desktop Mac User-Agent. The page script sends
// navigator.maxTouchPoints as the X-Max-Touch-Points header so the classifier can tell
// the two apart:
//
//	useragent.Classify("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) ...", 5).IsIOS // true
//
// # Detectors
//
// String sniffing is fragile, so callers depend on the Detector interface.
// Sniffer implements the classic matching; Hints prefers User-Agent Client
// Hints when the browser sends them and falls back to another Detector
// otherwise:
//
//	detector := useragent.Hints{Fallback: useragent.Sniffer{}}
//	profile := detector.Detect(useragent.SignalsFromRequest(r))
package useragent
