package scanner

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/devforge/devforge/internal/configs"
	derrors "github.com/devforge/devforge/internal/errors"
	logger "github.com/devforge/devforge/internal/logging"

	"golang.org/x/sync/errgroup"
)

// AllowDirective on a line suppresses every finding on that line.
const AllowDirective = "devforge:allow"

const binarySniffBytes = 8000

// File is one input to the scanner.
type File struct {
	Path    string
	Content []byte
}

// Finding is a suspected secret. Snippet is always masked.
type Finding struct {
	Path       string   `json:"path"`
	Line       int      `json:"line"`
	Column     int      `json:"column"`
	Rule       string   `json:"rule"`
	Category   Category `json:"category"`
	Snippet    string   `json:"snippet"`
	Confidence float64  `json:"confidence"`
}

// Warning records a file that was skipped. It wraps ErrScanIO.
type Warning struct {
	Path string
	Err  error
}

func (w Warning) Error() string { return w.Path + ": " + w.Err.Error() }

func (w Warning) Unwrap() error { return w.Err }

// Report is the result of one scan.
type Report struct {
	Findings     []Finding
	Warnings     []Warning
	FilesScanned int
}

// Failed reports whether the scan must block the commit.
func (r *Report) Failed() bool { return len(r.Findings) > 0 }

// Scanner applies structural rules and the entropy heuristic to text.
type Scanner struct {
	rules          []Rule
	entropyEnabled bool
	minEntropy     float64
	minTokenLength int
	workers        int
	allow          []*regexp.Regexp
	log            logger.Logger
}

// New builds a scanner from configuration. Unknown rule ids in
// DisableRules and invalid allow patterns are errors.
func New(cfg configs.ScanConfig, log logger.Logger) (*Scanner, error) {
	known := map[string]bool{}
	for _, id := range RuleIDs() {
		known[id] = true
	}
	disabled := map[string]bool{}
	for _, id := range cfg.DisableRules {
		if !known[id] {
			return nil, fmt.Errorf("unknown rule %q in disable_rules (known: %s)", id, strings.Join(RuleIDs(), ", "))
		}
		disabled[id] = true
	}

	s := &Scanner{
		entropyEnabled: !disabled[HighEntropyRule],
		minEntropy:     cfg.MinEntropy,
		minTokenLength: cfg.MinTokenLength,
		workers:        cfg.Workers,
		log:            log,
	}
	defaults := configs.DefaultScanConfig()
	if s.minEntropy <= 0 {
		s.minEntropy = defaults.MinEntropy
	}
	if s.minTokenLength <= 0 {
		s.minTokenLength = defaults.MinTokenLength
	}
	if s.workers <= 0 {
		s.workers = runtime.GOMAXPROCS(0)
	}

	for _, r := range DefaultRules {
		if !disabled[r.ID] {
			s.rules = append(s.rules, r)
		}
	}

	for _, pattern := range cfg.Allow {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid allow pattern %q: %w", pattern, err)
		}
		s.allow = append(s.allow, re)
	}

	return s, nil
}

// Scan consumes files until the channel is closed or ctx is done, fanning
// the work out to a bounded pool. Findings are sorted by path, line,
// column and rule regardless of completion order. Producers should stop
// sending once ctx is done.
func (s *Scanner) Scan(ctx context.Context, files <-chan File) (*Report, error) {
	var (
		mu     sync.Mutex
		report = &Report{}
	)

	g := new(errgroup.Group)
	g.SetLimit(s.workers)

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case f, ok := <-files:
			if !ok {
				break loop
			}
			g.Go(func() error {
				findings, warning := s.ScanFile(f)

				mu.Lock()
				defer mu.Unlock()
				if warning != nil {
					report.Warnings = append(report.Warnings, *warning)
					return nil
				}
				report.FilesScanned++
				report.Findings = append(report.Findings, findings...)
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	SortFindings(report.Findings)
	sort.Slice(report.Warnings, func(i, j int) bool { return report.Warnings[i].Path < report.Warnings[j].Path })
	return report, nil
}

// ScanFile scans one file. Binary and non-UTF-8 content is skipped with a
// warning instead of findings.
func (s *Scanner) ScanFile(f File) ([]Finding, *Warning) {
	sniff := f.Content
	if len(sniff) > binarySniffBytes {
		sniff = sniff[:binarySniffBytes]
	}
	if bytes.IndexByte(sniff, 0) >= 0 {
		s.log.Debugf("Skipping binary file %s", f.Path)
		return nil, &Warning{Path: f.Path, Err: fmt.Errorf("%w: binary content", derrors.ErrScanIO)}
	}
	if !utf8.Valid(f.Content) {
		s.log.Debugf("Skipping non-UTF-8 file %s", f.Path)
		return nil, &Warning{Path: f.Path, Err: fmt.Errorf("%w: not valid UTF-8", derrors.ErrScanIO)}
	}

	return s.ScanText(f.Path, string(f.Content)), nil
}

// ScanText scans text line by line.
func (s *Scanner) ScanText(path, text string) []Finding {
	var findings []Finding
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.Contains(line, AllowDirective) {
			continue
		}
		findings = append(findings, s.scanLine(path, i+1, line)...)
	}
	return findings
}

type span struct{ start, end int }

func overlaps(claimed []span, start, end int) bool {
	for _, c := range claimed {
		if start < c.end && c.start < end {
			return true
		}
	}
	return false
}

func (s *Scanner) scanLine(path string, lineNo int, line string) []Finding {
	var (
		findings []Finding
		claimed  []span
	)

	for _, rule := range s.rules {
		for _, m := range rule.Pattern.FindAllStringSubmatchIndex(line, -1) {
			start, end := m[0], m[1]
			if overlaps(claimed, start, end) {
				continue
			}

			secretStart, secretEnd := m[2*rule.Group], m[2*rule.Group+1]
			if secretStart < 0 {
				continue
			}
			secret := line[secretStart:secretEnd]

			// Skipped matches still claim their span so the entropy pass
			// does not report the same text.
			claimed = append(claimed, span{start, end})
			if rule.Placeholders && isPlaceholder(secret) {
				continue
			}
			if s.allowed(secret) {
				continue
			}

			findings = append(findings, Finding{
				Path:       path,
				Line:       lineNo,
				Column:     secretStart + 1,
				Rule:       rule.ID,
				Category:   rule.Category,
				Snippet:    Mask(secret),
				Confidence: rule.Confidence,
			})
		}
	}

	if !s.entropyEnabled {
		return findings
	}

	for _, m := range tokenPattern.FindAllStringIndex(line, -1) {
		start, end := m[0], m[1]
		token := strings.TrimRight(line[start:end], "=")
		if utf8.RuneCountInString(token) < s.minTokenLength || overlaps(claimed, start, end) {
			continue
		}
		if isBenignShape(token) || s.allowed(token) {
			continue
		}
		if ShannonEntropy(token) < s.minEntropy {
			continue
		}

		findings = append(findings, Finding{
			Path:       path,
			Line:       lineNo,
			Column:     start + 1,
			Rule:       HighEntropyRule,
			Category:   CategoryHighEntropy,
			Snippet:    Mask(token),
			Confidence: 0.5,
		})
	}

	return findings
}

func (s *Scanner) allowed(value string) bool {
	for _, re := range s.allow {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}

// SortFindings orders findings by path, line, column, then rule.
func SortFindings(findings []Finding) {
	sort.Slice(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.Rule < b.Rule
	})
}
