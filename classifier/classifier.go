// Package classifier holds the pure string-matching policies that decide
// how an incoming message enters the routing pipeline. Policies are
// deterministic, do no I/O, and never fail: no match is a normal false.
package classifier

import "strings"

// ComplexProblemPolicy flags messages that describe multi-step,
// environment-specific technical problems worth an external search.
type ComplexProblemPolicy struct {
	phrases  []string
	keywords []string
}

// NewComplexProblemPolicy returns the default complex-problem heuristic.
func NewComplexProblemPolicy() *ComplexProblemPolicy {
	return &ComplexProblemPolicy{
		// Phrases that almost always indicate an involved troubleshooting task.
		phrases: []string{
			"blue screen",
			"kernel panic",
			"boot loop",
			"won't boot",
			"does not boot",
			"keeps crashing",
			"keeps disconnecting",
			"stopped working after",
			"error code",
			"stack trace",
			"segmentation fault",
			"driver conflict",
			"dns server",
			"ip conflict",
			"network partition",
			"replica",
			"distributed",
			"cannot connect to the server",
			"failed to install",
			"registry",
			"bios",
			"firmware",
		},
		// Technical vocabulary; several of these together in a long message
		// reads as a detailed error description.
		keywords: []string{
			"configure", "configuration", "server", "database", "cluster",
			"partition", "cache", "driver", "update", "install", "router",
			"firewall", "proxy", "vpn", "malware", "corrupted", "timeout",
			"crash", "error", "exception", "sync", "migration",
		},
	}
}

// IsComplex reports whether the message plausibly needs multi-step,
// environment-specific troubleshooting.
func (p *ComplexProblemPolicy) IsComplex(message string) bool {
	lower := strings.ToLower(message)

	for _, phrase := range p.phrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}

	hits := 0
	for _, kw := range p.keywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}

	// A short complaint with one technical word is not complex; a long
	// multi-clause sentence packed with technical vocabulary is.
	words := len(strings.Fields(lower))
	if hits >= 3 {
		return true
	}
	if hits >= 2 && words >= 12 {
		return true
	}
	return false
}

// TechnicalKeywordPolicy detects generic technical-complaint phrasing.
// It is the last-resort technical trigger, checked after the catalog
// lookup fails.
type TechnicalKeywordPolicy struct {
	keywords []string
}

// NewTechnicalKeywordPolicy returns the default keyword vocabulary.
func NewTechnicalKeywordPolicy() *TechnicalKeywordPolicy {
	return &TechnicalKeywordPolicy{
		keywords: []string{
			"problem", "issue", "error", "not working", "broken", "fix", "help",
			"troubleshoot", "repair", "solve", "crash", "freeze", "slow", "fast",
			"install", "update", "driver", "software", "hardware", "network",
			"internet", "wifi", "connection", "password", "login", "account",
			"file", "folder", "document", "email", "browser", "website",
			"virus", "malware", "security", "backup", "recovery", "data",
		},
	}
}

// Matches reports whether the message contains any technical-complaint word.
func (p *TechnicalKeywordPolicy) Matches(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range p.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
