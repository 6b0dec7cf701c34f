package waf

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// target specifies which parts of an HTTP request a rule inspects.
type target int

const (
	targetPath  target = 1 << iota // URL path
	targetQuery                    // raw and URL-decoded query string
	targetUA                       // User-Agent header
	targetURI                      // full RequestURI
)

// rule is a single detection pattern.
type rule struct {
	name    string
	targets target
	pattern *regexp.Regexp
}

// maxURILength caps request URIs; anything longer than common server limits
// is treated as a probe.
const maxURILength = 8192

// defaultRules returns the built-in ruleset. Patterns are compiled once at
// startup; a panic here is a programming error caught immediately.
func defaultRules() []rule {
	return []rule{
		{
			name:    "sensitive-file-probe",
			targets: targetPath,
			pattern: regexp.MustCompile(
				`(?i)(?:` +
					`/\.env` +
					`|/\.git(?:/|$)` +
					`|/wp-admin` +
					`|/wp-login` +
					`|/wp-content/` +
					`|/xmlrpc\.php` +
					`|/phpmy` +
					`|/cgi-bin/` +
					`|/\.aws/` +
					`|/\.ssh/` +
					`|/etc/passwd` +
					`)`,
			),
		},
		{
			name:    "path-traversal",
			targets: targetURI,
			pattern: regexp.MustCompile(`(?i)(?:\.\.[\\/]|\.\.%2[fF]|\.\.%5[cC]|%00)`),
		},
		{
			name:    "sql-injection",
			targets: targetQuery,
			pattern: regexp.MustCompile(
				`(?i)(?:` +
					`union\s+(?:all\s+)?select` +
					`|;\s*(?:drop|delete|insert|update|alter)\s` +
					`|'\s*(?:or|and)\s+['"\d].*=` +
					`|(?:benchmark|sleep|waitfor)\s*\(` +
					`)`,
			),
		},
		{
			name:    "xss",
			targets: targetQuery,
			pattern: regexp.MustCompile(
				`(?i)(?:<\s*script|javascript\s*:|\bon\w+\s*=|(?:alert|confirm|prompt|eval)\s*\()`,
			),
		},
		{
			name:    "scanner-ua",
			targets: targetUA,
			pattern: regexp.MustCompile(
				`(?i)(?:sqlmap|nikto|nmap|masscan|dirbuster|gobuster|nuclei|zgrab|nessus|acunetix|w3af|arachni|havij|commix)`,
			),
		},
	}
}

// check tests the request against every rule and returns on the first match.
func (fw *firewall) check(r *http.Request) (matched bool, ruleName string) {
	if len(r.RequestURI) > maxURILength {
		return true, "uri-too-long"
	}

	rawQuery := r.URL.RawQuery
	decodedQuery := rawQuery
	if strings.Contains(rawQuery, "%") {
		if d, err := url.QueryUnescape(rawQuery); err == nil {
			decodedQuery = d
		}
	}

	for i := range fw.rules {
		rl := &fw.rules[i]

		if rl.targets&targetURI != 0 && rl.pattern.MatchString(r.RequestURI) {
			return true, rl.name
		}
		if rl.targets&targetPath != 0 && !isWellKnownPath(r.URL.Path) && rl.pattern.MatchString(r.URL.Path) {
			return true, rl.name
		}
		if rl.targets&targetQuery != 0 && rawQuery != "" {
			if rl.pattern.MatchString(rawQuery) || rl.pattern.MatchString(decodedQuery) {
				return true, rl.name
			}
		}
		if rl.targets&targetUA != 0 && rl.pattern.MatchString(r.UserAgent()) {
			return true, rl.name
		}
	}
	return false, ""
}

func isWellKnownPath(path string) bool {
	return path == "/.well-known" || strings.HasPrefix(path, "/.well-known/")
}
