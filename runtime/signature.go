package runtime

import (
	"regexp"
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/wasm-memory/errors"
)

// signature holds the WIT types of one function. Parameter names are dropped.
type signature struct {
	params  []wit.Type
	results []wit.Type
}

var funcDecl = regexp.MustCompile(`(?:export\s+)?([A-Za-z_][\w-]*)\s*:\s*func\s*\(([^)]*)\)(?:\s*->\s*([^;]+))?`)

// parseSignatures collects every "name: func(a: u8, b: s16) -> u32;"
// declaration in text. Package and interface lines are ignored, so a whole
// WIT file can be passed as is.
func parseSignatures(text string) (map[string]signature, error) {
	sigs := make(map[string]signature)
	for _, m := range funcDecl.FindAllStringSubmatch(text, -1) {
		name := m[1]
		params, err := parseTypeList(name, "param", m[2])
		if err != nil {
			return nil, err
		}
		results, err := parseTypeList(name, "result", unparen(strings.TrimSpace(m[3])))
		if err != nil {
			return nil, err
		}
		sigs[name] = signature{params: params, results: results}
	}
	if len(sigs) == 0 {
		return nil, errors.InvalidInput(errors.PhaseLoad, "no functions found in WIT text")
	}
	return sigs, nil
}

// parseTypeList parses "a: u8, b: tuple<u8, u8>" or "u8, u8".
func parseTypeList(fn, what, list string) ([]wit.Type, error) {
	var types []wit.Type
	for _, item := range splitTopLevel(list) {
		if _, typ, named := strings.Cut(item, ":"); named {
			item = strings.TrimSpace(typ)
		}
		t, err := wit.ParseType(item)
		if err != nil {
			return nil, errors.New(errors.PhaseLoad, errors.KindInvalidData).
				Path(fn, what).
				Cause(err).
				Detail("parse %s type %q", what, item).
				Build()
		}
		types = append(types, t)
	}
	return types, nil
}

func unparen(s string) string {
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		return s[1 : len(s)-1]
	}
	return s
}

// splitTopLevel splits on commas that are not nested in () or <>.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, ch := range s {
		switch ch {
		case '(', '<':
			depth++
		case ')', '>':
			depth--
		case ',':
			if depth == 0 {
				parts = appendTrimmed(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return appendTrimmed(parts, s[start:])
}

func appendTrimmed(parts []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		parts = append(parts, s)
	}
	return parts
}
