package config

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"
)

// LoadTypeNameMap reads a typename map file and merges it into c.TypeNames.
// Entries in the file override existing ones.
func (c *Config) LoadTypeNameMap(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Error{Field: "typename-map", Message: err.Error()}
	}
	m, err := ParseTypeNameMap(data)
	if err != nil {
		return err
	}
	if c.TypeNames == nil {
		c.TypeNames = make(map[string]string, len(m))
	}
	for k, v := range m {
		c.TypeNames[k] = v
	}
	return nil
}

// ParseTypeNameMap parses `lhs rhs` lines. The first field is the name to
// rewrite and the remaining fields, joined by single spaces, its replacement.
// Blank lines and lines starting with `#` are skipped.
func ParseTypeNameMap(data []byte) (map[string]string, error) {
	m := make(map[string]string)
	sc := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, &Error{
				Field:   fmt.Sprintf("typename-map:%d", line),
				Message: fmt.Sprintf("expected `name replacement`, got %q", text),
			}
		}
		m[fields[0]] = strings.Join(fields[1:], " ")
	}
	if err := sc.Err(); err != nil {
		return nil, &Error{Field: "typename-map", Message: err.Error()}
	}
	return m, nil
}
