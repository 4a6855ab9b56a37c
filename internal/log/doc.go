// Package log builds the slog loggers used by aopsharvest.
//
// Loggers wrap the standard text or JSON handler in a Handler that keeps
// page markup out of log output. Attributes that carry markup (markup,
// html, fragment, body) and any string longer than MaxValueLength are
// replaced by a short "<N bytes elided>" marker, so a debug log of a large
// harvest stays readable. Credentials such as proxy passwords or cookies
// are masked.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Debug("page fetched", "url", page.URL, "markup", page.Markup)
//	// level=DEBUG msg="page fetched" url=https://... markup="<48213 bytes elided>"
package log
