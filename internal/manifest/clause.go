package manifest

import (
	"errors"
	"fmt"
	"strings"
)

// Clause is one comma-separated entry of a parameterized header such as Import-Package:
//
//	path1;path2;attr=value;directive:=value
type Clause struct {
	Paths      []string
	Attributes map[string]string
	Directives map[string]string
}

// Attribute returns the named attribute and whether it was declared.
func (c Clause) Attribute(name string) (string, bool) {
	v, ok := c.Attributes[name]
	return v, ok
}

// Directive returns the named directive and whether it was declared.
func (c Clause) Directive(name string) (string, bool) {
	v, ok := c.Directives[name]
	return v, ok
}

var errUnterminatedQuote = errors.New("unterminated quoted string")

// ParseClauses splits a parameterized header value into clauses.
//
// An empty or whitespace-only value yields no clauses. The returned error is a plain
// description; callers wrap it into a ParseError naming the header.
func ParseClauses(value string) ([]Clause, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	rawClauses, err := splitUnquoted(value, ',')
	if err != nil {
		return nil, err
	}

	clauses := make([]Clause, 0, len(rawClauses))
	for i, raw := range rawClauses {
		c, err := parseClause(raw)
		if err != nil {
			return nil, fmt.Errorf("clause %d: %w", i+1, err)
		}
		clauses = append(clauses, c)
	}
	return clauses, nil
}

func parseClause(raw string) (Clause, error) {
	if strings.TrimSpace(raw) == "" {
		return Clause{}, errors.New("empty clause")
	}

	parts, err := splitUnquoted(raw, ';')
	if err != nil {
		return Clause{}, err
	}

	c := Clause{
		Attributes: map[string]string{},
		Directives: map[string]string{},
	}
	seenParam := false
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return Clause{}, errors.New("empty clause element")
		}

		eq := indexUnquoted(part, '=')
		if eq < 0 {
			if seenParam {
				return Clause{}, fmt.Errorf("path %q follows a parameter", part)
			}
			if !validPath(part) {
				return Clause{}, fmt.Errorf("invalid path %q", part)
			}
			c.Paths = append(c.Paths, part)
			continue
		}

		seenParam = true
		key := part[:eq]
		target := c.Attributes
		kind := "attribute"
		if strings.HasSuffix(key, ":") {
			key = key[:len(key)-1]
			target = c.Directives
			kind = "directive"
		}
		key = strings.TrimSpace(key)
		if !validToken(key) {
			return Clause{}, fmt.Errorf("invalid %s name %q", kind, key)
		}
		if _, dup := target[key]; dup {
			return Clause{}, fmt.Errorf("duplicate %s %q", kind, key)
		}
		val, err := unquote(strings.TrimSpace(part[eq+1:]))
		if err != nil {
			return Clause{}, fmt.Errorf("%s %q: %w", kind, key, err)
		}
		target[key] = val
	}

	if len(c.Paths) == 0 {
		return Clause{}, errors.New("clause has no path")
	}
	return c, nil
}

// splitUnquoted splits s on sep, ignoring separators inside double quotes.
func splitUnquoted(s string, sep byte) ([]string, error) {
	var out []string
	start := 0
	quoted := false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\' && quoted:
			i++
		case c == '"':
			quoted = !quoted
		case c == sep && !quoted:
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	if quoted {
		return nil, errUnterminatedQuote
	}
	return append(out, s[start:]), nil
}

// indexUnquoted returns the index of the first b outside double quotes, or -1.
func indexUnquoted(s string, b byte) int {
	quoted := false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\' && quoted:
			i++
		case c == '"':
			quoted = !quoted
		case c == b && !quoted:
			return i
		}
	}
	return -1
}

func unquote(s string) (string, error) {
	if !strings.HasPrefix(s, `"`) {
		if strings.ContainsRune(s, '"') {
			return "", errors.New("stray quote in unquoted value")
		}
		return s, nil
	}
	if len(s) < 2 || !strings.HasSuffix(s, `"`) {
		return "", errUnterminatedQuote
	}
	inner := s[1 : len(s)-1]
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c == '\\' && i+1 < len(inner) {
			i++
			c = inner[i]
		} else if c == '"' {
			return "", errors.New("stray quote in quoted value")
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}

func validToken(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
		default:
			return false
		}
	}
	return true
}

func validPath(s string) bool {
	if s == "" {
		return false
	}
	return !strings.ContainsAny(s, " \t\r\n\",;=")
}
