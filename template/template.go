package template

import (
	"strings"

	"github.com/flowterm/progress/progresserr"
)

// Template is a parsed progress-message template, grounded on
// formatter.rs's ProgressTemplate.
//
// # Syntax
//
//   - {var}             - interpolate the value of var
//   - {var:format}      - interpolate var with the named format
//   - {?condition}...{/} - conditional markers: each tag renders as nothing,
//   - {!condition}...{/}   and the text between them is always rendered,
//     whatever the condition's value
//   - {{ / }}           - literal brace
//
// # Formats
//
//   - {var:bar[:kind[:width[:fill[:bg]]]]} - progress bar (kind: bar, block, spinner, numeric, custom:<name>)
//   - {var:percent}      - percentage, e.g. "50%"
//   - {var:ratio[:denominator]} - ratio, e.g. "5/10"
//   - {var:pad:N} {var:lpad:N} {var:rpad:N} - space padding to width N
//   - {var:color:name}   - wrap in an ANSI color, reset after
type Template struct {
	source string
}

// New parses a template string. Parsing never fails: unknown tags render as
// empty and malformed formats surface their error lazily, at Render time.
func New(source string) *Template { return &Template{source: source} }

// Render expands the template against ctx.
func (t *Template) Render(ctx *Context) (string, error) {
	var out strings.Builder
	out.Grow(len(t.source) * 2)

	chars := []rune(t.source)
	i := 0
	for i < len(chars) {
		switch {
		case chars[i] == '{' && i+1 < len(chars) && chars[i+1] == '{':
			out.WriteRune('{')
			i += 2
		case chars[i] == '{':
			j := i + 1
			for j < len(chars) && chars[j] != '}' {
				j++
			}
			if j >= len(chars) {
				out.WriteRune('{')
				i++
				continue
			}
			tag := string(chars[i+1 : j])
			rendered, ok, err := t.renderTag(tag, ctx)
			if err != nil {
				return "", progresserr.NewDisplayOperation("render", "template", err)
			}
			if ok {
				out.WriteString(rendered)
			}
			i = j + 1
		case chars[i] == '}' && i+1 < len(chars) && chars[i+1] == '}':
			out.WriteRune('}')
			i += 2
		default:
			out.WriteRune(chars[i])
			i++
		}
	}
	return out.String(), nil
}

// renderTag processes the contents of a single {...} tag.
func (t *Template) renderTag(tag string, ctx *Context) (string, bool, error) {
	if strings.HasPrefix(tag, "?") || strings.HasPrefix(tag, "!") {
		return t.renderConditionalTag(tag, ctx)
	}

	parts := strings.Split(tag, ":")
	varName := strings.TrimSpace(parts[0])

	v, ok := ctx.Get(varName)
	if !ok {
		return "", true, nil
	}
	if len(parts) > 1 {
		return t.applyFormat(v, parts[1:], ctx)
	}
	return v.AsString(), true, nil
}

// renderConditionalTag processes {?cond}/{!cond}, which is matched
// standalone: the tag contributes no text, and its truth test is reported
// through the ok result only. Render does not skip anything on a failed
// test, so the content between the tag and the following {/} is emitted
// verbatim either way.
func (t *Template) renderConditionalTag(tag string, ctx *Context) (string, bool, error) {
	var positive bool
	var condition string
	switch {
	case strings.HasPrefix(tag, "?"):
		positive, condition = true, tag[1:]
	case strings.HasPrefix(tag, "!"):
		positive, condition = false, tag[1:]
	default:
		return "", false, nil
	}

	value := false
	if v, ok := ctx.Get(condition); ok {
		value = v.IsTruthy()
	}
	if value == positive {
		return "", true, nil
	}
	return "", false, nil
}
