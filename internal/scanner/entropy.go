package scanner

import (
	"math"
	"regexp"
	"strings"
)

// tokenPattern splits a line into candidate tokens. Base64 and URL-safe
// alphabets are kept whole; '=' only as trailing padding, so NAME=value
// splits into two tokens.
var tokenPattern = regexp.MustCompile(`[A-Za-z0-9+/_-]+=*`)

var (
	hexPattern     = regexp.MustCompile(`^[0-9a-fA-F]+$`)
	uuidPattern    = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	versionPattern = regexp.MustCompile(`^v?\d+(?:[._-]\d+)+(?:[-+][0-9A-Za-z.-]+)?$`)
	hexRunPattern  = regexp.MustCompile(`^[0-9a-fA-F]+(?:-[0-9a-fA-F]+)+$`)
	numericSegment = regexp.MustCompile(`^v?[0-9]+$`)
	wordPattern    = regexp.MustCompile(`^[A-Za-z]{2,}[0-9]*$`)
)

const (
	// Identifiers average longer words than camel-split random text.
	minMeanWordLength = 3.5
	maxDigitWords     = 2
)

// Hex digests of common hash sizes: MD5, SHA-1, SHA-224, SHA-256, SHA-384, SHA-512.
var hashLengths = map[int]bool{32: true, 40: true, 56: true, 64: true, 96: true, 128: true}

// ShannonEntropy returns the per-character entropy of s in bits.
func ShannonEntropy(s string) float64 {
	if s == "" {
		return 0
	}
	counts := map[rune]int{}
	n := 0
	for _, r := range s {
		counts[r]++
		n++
	}
	h := 0.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		h -= p * math.Log2(p)
	}
	return h
}

// isBenignShape reports tokens that look random but are not secrets.
func isBenignShape(token string) bool {
	if hexPattern.MatchString(token) && hashLengths[len(token)] {
		return true
	}
	return uuidPattern.MatchString(token) ||
		versionPattern.MatchString(token) ||
		hexRunPattern.MatchString(token) ||
		identifierShaped(token)
}

// identifierShaped reports tokens made of word-like pieces: code
// identifiers, env var names and module paths such as
// FindAllStringSubmatchIndex, DATABASE_CONNECTION_POOL_SIZE or
// com/cyphar/filepath-securejoin.
func identifierShaped(token string) bool {
	var (
		words      int
		length     int
		digitWords int
	)
	for _, seg := range strings.FieldsFunc(token, isSeparator) {
		if numericSegment.MatchString(seg) {
			continue
		}
		for _, w := range splitWords(seg) {
			if !wordPattern.MatchString(w) {
				return false
			}
			if strings.ContainsAny(w, "0123456789") {
				digitWords++
			}
			words++
			length += len(w)
		}
	}
	if words == 0 || digitWords > maxDigitWords {
		return false
	}
	return float64(length)/float64(words) >= minMeanWordLength
}

func isSeparator(r rune) bool {
	return r == '/' || r == '_' || r == '-' || r == '+'
}

// splitWords breaks a camel-case segment into words. Digits stay attached
// to the word they follow: "sha256Sum" gives "sha256", "Sum".
func splitWords(seg string) []string {
	var words []string
	start := 0
	for i := 1; i < len(seg); i++ {
		prev, cur := seg[i-1], seg[i]
		switch {
		case isUpper(cur) && (isLower(prev) || isDigit(prev)),
			!isDigit(cur) && isDigit(prev),
			isUpper(cur) && isUpper(prev) && i+1 < len(seg) && isLower(seg[i+1]):
			words = append(words, seg[start:i])
			start = i
		}
	}
	return append(words, seg[start:])
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

func isLower(c byte) bool { return c >= 'a' && c <= 'z' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
