package mux

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

// patternMacros maps macro names usable in route variables ({name:macro})
// to their regular expressions.
var patternMacros = map[string]string{
	"uuid":  `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`,
	"int":   `[0-9]+`,
	"float": `[0-9]*\.?[0-9]+`,
	"slug":  `[a-zA-Z0-9]+(?:-[a-zA-Z0-9]+)*`,
	"alpha": `[a-zA-Z]+`,
	"date":  `[0-9]{4}-[0-9]{2}-[0-9]{2}`,
	"hex":   `[0-9a-fA-F]+`,
}

// pathTemplate is a compiled route path template such as "/users/{id:int}".
type pathTemplate struct {
	// template is the original template string.
	template string
	// regexp matches a full request path.
	regexp *regexp.Regexp
	// reverse is the template with %s placeholders used for URL building.
	reverse string
	// vars holds the variables in template order.
	vars []templateVar
}

// templateVar is a single {name} or {name:pattern} placeholder.
type templateVar struct {
	name string
	// macro is the macro name when the pattern referenced one.
	macro string
	re    *regexp.Regexp
}

// newPathTemplate parses a route path template.
func newPathTemplate(tpl string) (*pathTemplate, error) {
	idxs, err := braceIndices(tpl)
	if err != nil {
		return nil, err
	}

	var (
		pattern bytes.Buffer
		reverse bytes.Buffer
		vars    []templateVar
		end     int
	)

	pattern.WriteByte('^')

	for i := 0; i < len(idxs); i += 2 {
		raw := tpl[end:idxs[i]]
		end = idxs[i+1]

		parts := strings.SplitN(tpl[idxs[i]+1:end-1], ":", 2)
		name := parts[0]
		if name == "" {
			return nil, fmt.Errorf("mux: missing name in %q from %q", tpl[idxs[i]:end], tpl)
		}

		patt := "[^/]+"
		var macroName string
		if len(parts) == 2 {
			patt = parts[1]
			if m, ok := patternMacros[parts[1]]; ok {
				macroName = parts[1]
				patt = m
			}
		}

		re, err := regexp.Compile("^" + patt + "$")
		if err != nil {
			return nil, fmt.Errorf("mux: invalid pattern %q in variable %q: %w", patt, name, err)
		}

		fmt.Fprintf(&pattern, "%s(%s)", regexp.QuoteMeta(raw), patt)
		reverse.WriteString(strings.ReplaceAll(raw, "%", "%%"))
		reverse.WriteString("%s")

		vars = append(vars, templateVar{name: name, macro: macroName, re: re})
	}

	raw := tpl[end:]
	pattern.WriteString(regexp.QuoteMeta(raw))
	pattern.WriteByte('$')
	reverse.WriteString(strings.ReplaceAll(raw, "%", "%%"))

	if err := checkDuplicateVars(vars); err != nil {
		return nil, err
	}

	reg, err := regexp.Compile(pattern.String())
	if err != nil {
		return nil, err
	}

	return &pathTemplate{
		template: tpl,
		regexp:   reg,
		reverse:  reverse.String(),
		vars:     vars,
	}, nil
}

// match returns the extracted variables and whether the path matched.
func (t *pathTemplate) match(path string) (map[string]string, bool) {
	matches := t.regexp.FindStringSubmatch(path)
	if matches == nil {
		return nil, false
	}
	if len(t.vars) == 0 {
		return nil, true
	}

	// Variable patterns may contain their own groups, so values are read
	// back by position of the outer group only when counts line up.
	vars := make(map[string]string, len(t.vars))
	idx := 1
	for _, v := range t.vars {
		if idx >= len(matches) {
			break
		}
		vars[v.name] = matches[idx]
		idx += 1 + v.re.NumSubexp()
	}
	return vars, true
}

// build fills the template with the given variable values.
func (t *pathTemplate) build(values map[string]string) (string, error) {
	args := make([]any, len(t.vars))
	for i, v := range t.vars {
		val, ok := values[v.name]
		if !ok {
			return "", fmt.Errorf("mux: missing route variable %q", v.name)
		}
		if !v.re.MatchString(val) {
			return "", fmt.Errorf("mux: variable %q doesn't match, expected %q", v.name, v.re.String())
		}
		args[i] = val
	}
	return fmt.Sprintf(t.reverse, args...), nil
}

// braceIndices returns the start and end+1 indices of each top-level
// {...} pair in s.
func braceIndices(s string) ([]int, error) {
	var (
		idxs  []int
		level int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if level++; level == 1 {
				idxs = append(idxs, i)
			}
		case '}':
			if level--; level == 0 {
				idxs = append(idxs, i+1)
			} else if level < 0 {
				return nil, fmt.Errorf("mux: unbalanced braces in %q", s)
			}
		}
	}
	if level != 0 {
		return nil, fmt.Errorf("mux: unbalanced braces in %q", s)
	}
	return idxs, nil
}

func checkDuplicateVars(vars []templateVar) error {
	seen := make(map[string]bool, len(vars))
	for _, v := range vars {
		if seen[v.name] {
			return fmt.Errorf("mux: duplicated route variable %q", v.name)
		}
		seen[v.name] = true
	}
	return nil
}
