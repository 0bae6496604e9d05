package framework

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Filter is a function that can determine whether to run a specific test or not.
type Filter func(TestID) bool

// RegexFilters selects tests the same way "go test -run" and "-skip" do: each pattern is
// split on unbracketed slashes, and each part must match the corresponding element of the
// test ID. A group whose elements match a prefix of a MustMatch pattern is entered, so that
// its matching subtests can run.
type RegexFilters struct {
	MustMatch    RegexList
	MustNotMatch RegexList
}

func (r RegexFilters) AsFilter(id TestID) bool {
	if r.MustNotMatch.anyMatch(id.Path, false) {
		return false
	}
	return !r.MustMatch.IsDefined() || r.MustMatch.anyMatch(id.Path, true)
}

func (r RegexFilters) IsDefined() bool {
	return r.MustMatch.IsDefined() || r.MustNotMatch.IsDefined()
}

type RegexList struct {
	patterns []regexPattern
}

type regexPattern struct {
	source string
	levels []*regexp.Regexp
}

func (r RegexList) String() string {
	var ss []string
	for _, p := range r.patterns {
		ss = append(ss, `"`+p.source+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set is called by the command line parser
func (r *RegexList) Set(value string) error {
	p := regexPattern{source: value}
	for _, part := range splitRegex(value) {
		rx, err := regexp.Compile(part)
		if err != nil {
			return fmt.Errorf("invalid regex: %w", err)
		}
		p.levels = append(p.levels, rx)
	}
	r.patterns = append(r.patterns, p)
	return nil
}

// Type is called by the command line parser when printing usage.
func (r *RegexList) Type() string {
	return "regex"
}

func (r RegexList) IsDefined() bool {
	return len(r.patterns) != 0
}

// Patterns returns the source text of each pattern.
func (r RegexList) Patterns() []string {
	ret := make([]string, 0, len(r.patterns))
	for _, p := range r.patterns {
		ret = append(ret, p.source)
	}
	return ret
}

func (r RegexList) anyMatch(path []string, partial bool) bool {
	for _, p := range r.patterns {
		if p.match(path, partial) {
			return true
		}
	}
	return false
}

// match reports whether every element of path matches its level. If path is shorter than
// the pattern, it matches only when partial is true.
func (p regexPattern) match(path []string, partial bool) bool {
	for i, elem := range path {
		if i >= len(p.levels) {
			break
		}
		if !p.levels[i].MatchString(elem) {
			return false
		}
	}
	return len(path) >= len(p.levels) || partial
}

func splitRegex(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case '/':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func PrintFilterDescription(out io.Writer, filters RegexFilters) {
	if !filters.IsDefined() {
		return
	}
	fmt.Fprintln(out, "Some tests will be skipped based on the filter criteria for this test run:")
	if filters.MustMatch.IsDefined() {
		fmt.Fprintf(out, "  skip any not matching %s\n", filters.MustMatch)
	}
	if filters.MustNotMatch.IsDefined() {
		fmt.Fprintf(out, "  skip any matching %s\n", filters.MustNotMatch)
	}
	fmt.Fprintln(out)
}
