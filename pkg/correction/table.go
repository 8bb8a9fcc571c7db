package correction

import (
	"fmt"
	"os"
	"regexp"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Rule is a pattern/replacement pair.
//
// Pattern is a RE2 regular expression. It is always matched case-insensitively.
//
// Replacement may refer submatches as `${1}`, `${2}`... (see [regexp.Regexp.Expand]).
// When the matched text starts with a capital letter, so does the replacement.
type Rule struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

type compiledRule struct {
	Rule
	re *regexp.Regexp
}

// Table is an ordered, precompiled list of Rules.
//
// Table is immutable once created, so it can be shared between goroutines.
type Table struct {
	rules []compiledRule
}

// NewTable compiles rules into a Table. Order of rules is kept.
//
// # Returns
//
// - *Table
//
// - error: when any pattern cannot be compiled. It tells which rule is wrong.
func NewTable(rules ...Rule) (*Table, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for nth, r := range rules {
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule #%d (%q): %w", nth, r.Pattern, err)
		}
		compiled = append(compiled, compiledRule{Rule: r, re: re})
	}
	return &Table{rules: compiled}, nil
}

// MustTable is NewTable, but it panics on error.
func MustTable(rules ...Rule) *Table {
	t, err := NewTable(rules...)
	if err != nil {
		panic(err)
	}
	return t
}

// Apply substitutes every rule in order.
// Each rule works on the output of the previous one.
func (t *Table) Apply(text string) string {
	if t == nil {
		return text
	}
	for _, r := range t.rules {
		text = r.replace(text)
	}
	return text
}

func (r compiledRule) replace(text string) string {
	matches := r.re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	out := make([]byte, 0, len(text))
	last := 0
	for _, m := range matches {
		out = append(out, text[last:m[0]]...)
		expanded := string(r.re.ExpandString(nil, r.Replacement, text, m))
		out = append(out, keepCase(expanded, text[m[0]:m[1]])...)
		last = m[1]
	}
	out = append(out, text[last:]...)
	return string(out)
}

// keepCase capitalizes replaced when matched starts with a capital letter.
func keepCase(replaced, matched string) string {
	if _, m, _, ok := firstLetter(matched); !ok || !unicode.IsUpper(m) {
		return replaced
	}
	i, r, size, ok := firstLetter(replaced)
	if !ok || !unicode.IsLower(r) {
		return replaced
	}
	return replaced[:i] + string(unicode.ToUpper(r)) + replaced[i+size:]
}

// firstLetter finds the first letter in s. Invalid UTF-8 bytes are skipped.
func firstLetter(s string) (at int, letter rune, size int, ok bool) {
	for i := 0; i < len(s); {
		r, n := utf8.DecodeRuneInString(s[i:])
		if r != utf8.RuneError && unicode.IsLetter(r) {
			return i, r, n, true
		}
		i += n
	}
	return 0, 0, 0, false
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}

// Rules returns a copy of rules in the table.
func (t *Table) Rules() []Rule {
	if t == nil {
		return nil
	}
	rules := make([]Rule, 0, len(t.rules))
	for _, r := range t.rules {
		rules = append(rules, r.Rule)
	}
	return rules
}

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// ParseTable reads a rule table written in yaml.
//
//	rules:
//	  - pattern: '\b(everyone)\s+are\b'
//	    replacement: '${1} is'
func ParseTable(content []byte) (*Table, error) {
	rf := ruleFile{}
	if err := yaml.Unmarshal(content, &rf); err != nil {
		return nil, err
	}
	if len(rf.Rules) == 0 {
		return nil, fmt.Errorf("no rules are found")
	}
	return NewTable(rf.Rules...)
}

// LoadTable reads a rule table from yaml file.
func LoadTable(filepath string) (*Table, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	t, err := ParseTable(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath, err)
	}
	return t, nil
}
