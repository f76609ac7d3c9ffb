// Package log provides logging with sanitization of sensitive values,
// built on top of the standard slog package.
//
// The SecureHandler masks attributes that may carry credentials before
// they reach the wrapped handler:
//   - HTTP headers (Authorization, Cookie, Set-Cookie, Proxy-Authorization)
//   - attribute keys naming a password, secret, token or session
//   - bearer and basic authorization values
//   - the password of URLs carrying user info, such as an authenticated
//     SOCKS5 proxy address
//
// Even in verbose mode, these values are masked so that logs of a fetch run
// can be attached to an issue without leaking a proxy password.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	logger.Debug("fetching", "url", u, "cookie", "oeilLanguage=fr") // cookie is masked
package log
