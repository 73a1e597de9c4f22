// Package css provides a small structured stylesheet model: class rules,
// min-width media blocks and a deterministic text writer. It is the output
// format of the grid generator and the input format of the parser.
package css

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Value represents a single CSS property value.
type Value struct {
	Raw     string  // Original CSS value string (e.g., "1.2em", "50%", "flex-start")
	Value   float64 // Numeric value if applicable
	Unit    string  // Unit if applicable: "em", "px", "%", "rem", etc.
	Keyword string  // Keyword if applicable: "center", "space-between", etc.
}

// NewValue builds a Value from raw CSS text, classifying it as a dimension,
// percentage, bare number or keyword.
func NewValue(raw string) Value {
	raw = strings.TrimSpace(raw)
	if v, err := ParseLength(raw); err == nil {
		return v
	}
	return Value{Raw: raw, Keyword: strings.ToLower(raw)}
}

// ParseLength parses a CSS length or percentage ("36em", "-0.52rem", "50%",
// "0") into a Value. Keywords and multi-part values are rejected.
func ParseLength(s string) (Value, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Value{}, fmt.Errorf("empty length")
	}

	numEnd := 0
	for i, r := range s {
		if unicode.IsDigit(r) || r == '.' || r == '-' || r == '+' {
			numEnd = i + 1
		} else {
			break
		}
	}
	if numEnd == 0 {
		return Value{}, fmt.Errorf("length %q does not start with a number", s)
	}

	num, err := strconv.ParseFloat(s[:numEnd], 64)
	if err != nil {
		return Value{}, fmt.Errorf("length %q has malformed numeric part: %w", s, err)
	}

	unit := strings.ToLower(strings.TrimSpace(s[numEnd:]))
	if unit != "" && unit != "%" {
		for _, r := range unit {
			if !unicode.IsLetter(r) {
				return Value{}, fmt.Errorf("length %q has malformed unit", s)
			}
		}
	}
	return Value{Raw: s, Value: num, Unit: unit}, nil
}

// IsNumeric returns true if the value has a numeric component.
// This includes explicit zero values like "0" or "0px".
func (v Value) IsNumeric() bool {
	if v.Unit != "" {
		return true
	}
	if v.Value != 0 && v.Keyword == "" {
		return true
	}
	if v.Raw != "" && v.Keyword == "" {
		firstChar := rune(v.Raw[0])
		if unicode.IsDigit(firstChar) || firstChar == '.' || firstChar == '-' || firstChar == '+' {
			return true
		}
	}
	return false
}

// IsKeyword returns true if the value is a keyword (no numeric component).
func (v Value) IsKeyword() bool {
	return v.Keyword != "" && v.Unit == ""
}

// Neg returns the arithmetic negation of a numeric value, preserving its unit.
// Zero stays zero, "-0px" is not a thing the writer should ever emit.
func (v Value) Neg() Value {
	if v.Value == 0 {
		return v
	}
	raw := v.Raw
	if strings.HasPrefix(raw, "-") {
		raw = raw[1:]
	} else {
		raw = "-" + raw
	}
	return Value{Raw: raw, Value: -v.Value, Unit: v.Unit}
}

// pixelsPerUnit maps absolute and font-relative CSS units to CSS pixels.
// Font-relative units are resolved against the conventional 16px root size.
var pixelsPerUnit = map[string]float64{
	"px":  1,
	"em":  16,
	"rem": 16,
	"pt":  96.0 / 72.0,
	"pc":  16,
	"in":  96,
	"cm":  96.0 / 2.54,
	"mm":  96.0 / 25.4,
	"q":   96.0 / 101.6,
}

// Pixels resolves a numeric value to CSS pixels. Unitless zero resolves to
// zero; percentages and unknown units cannot be resolved.
func (v Value) Pixels() (float64, error) {
	if v.Unit == "" {
		if v.Value == 0 {
			return 0, nil
		}
		return 0, fmt.Errorf("value %q has no unit", v.Raw)
	}
	f, ok := pixelsPerUnit[v.Unit]
	if !ok {
		return 0, fmt.Errorf("cannot resolve unit %q to pixels", v.Unit)
	}
	return v.Value * f, nil
}

// Selector represents a parsed CSS selector. The model is deliberately
// narrow: a single class, optionally targeted as a direct child of another
// class (the shape the grid generator emits).
type Selector struct {
	Raw    string    // Original selector string
	Class  string    // Class name without dot or empty when unsupported
	Parent *Selector // Non-nil for child selectors (".a > .b" -> Parent is ".a")
}

// ClassSelector builds a selector for a single class name.
func ClassSelector(name string) Selector {
	return Selector{Raw: "." + name, Class: name}
}

// ChildSelector builds a selector targeting class child as a direct child of
// class parent.
func ChildSelector(parent, child string) Selector {
	p := ClassSelector(parent)
	s := ClassSelector(child)
	s.Raw = p.Raw + " > " + s.Raw
	s.Parent = &p
	return s
}

// IsClass returns true if the selector resolved to a class name.
func (s Selector) IsClass() bool {
	return s.Class != ""
}

// IsChild returns true if this is a direct-child selector.
func (s Selector) IsChild() bool {
	return s.Parent != nil
}

// Rule represents a single CSS rule (selector + declarations).
type Rule struct {
	Selector   Selector         // Parsed selector
	Properties map[string]Value // Property name -> value

	// GridCell marks rules that style grid cells. Gutter targeting is driven
	// by this marker, never by class-name-prefix matching.
	GridCell bool
}

// GetProperty returns the value for a property, or empty Value if not found.
func (r Rule) GetProperty(name string) (Value, bool) {
	v, ok := r.Properties[name]
	return v, ok
}

// MediaQuery represents a viewport-width guard: the rule set it scopes is
// active only when the viewport is at least MinWidth wide.
type MediaQuery struct {
	Raw      string // Original media query string, e.g. "(min-width: 36em)"
	MinWidth Value  // Threshold width
}

// MinWidthQuery builds a media query guarding on the given minimum width.
func MinWidthQuery(min Value) MediaQuery {
	return MediaQuery{
		Raw:      "(min-width: " + min.Raw + ")",
		MinWidth: min,
	}
}

// Evaluate returns true if the query matches a viewport of the given width
// in CSS pixels. Unresolvable thresholds never match.
func (mq MediaQuery) Evaluate(viewportPx float64) bool {
	min, err := mq.MinWidth.Pixels()
	if err != nil {
		return false
	}
	return viewportPx >= min
}

// MediaBlock represents a @media block with its query and nested rules.
type MediaBlock struct {
	Query MediaQuery
	Rules []Rule
}

// StylesheetItem is a single top-level item in a stylesheet.
// Exactly one of Rule or MediaBlock is non-nil.
type StylesheetItem struct {
	Rule       *Rule       // A plain rule (selector + declarations)
	MediaBlock *MediaBlock // A @media block containing nested rules
}

// Stylesheet is an ordered list of rules and media blocks. Order is part of
// the contract: in the consuming engine a later rule of equal specificity
// overrides an earlier one.
type Stylesheet struct {
	Items    []StylesheetItem // All top-level items in source order
	Warnings []string         // Warnings for unsupported features (parser only)
}

// Rules returns all top-level rules in source order, without flattening
// @media blocks.
func (s *Stylesheet) Rules() []Rule {
	var rules []Rule
	for _, item := range s.Items {
		if item.Rule != nil {
			rules = append(rules, *item.Rule)
		}
	}
	return rules
}

// MediaBlocks returns all @media blocks in source order.
func (s *Stylesheet) MediaBlocks() []MediaBlock {
	var blocks []MediaBlock
	for _, item := range s.Items {
		if item.MediaBlock != nil {
			blocks = append(blocks, *item.MediaBlock)
		}
	}
	return blocks
}

// RulesBySelector returns all rules matching the given selector string,
// top-level ones first, then those nested in @media blocks in source order.
func (s *Stylesheet) RulesBySelector(selector string) []Rule {
	var matches []Rule
	for _, item := range s.Items {
		if item.Rule != nil && item.Rule.Selector.Raw == selector {
			matches = append(matches, *item.Rule)
		}
	}
	for _, item := range s.Items {
		if item.MediaBlock == nil {
			continue
		}
		for _, rule := range item.MediaBlock.Rules {
			if rule.Selector.Raw == selector {
				matches = append(matches, rule)
			}
		}
	}
	return matches
}

// WriteTo writes the stylesheet to w in source order, implementing io.WriterTo.
// Property order within a rule is sorted alphabetically for deterministic output.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i, item := range s.Items {
		var n int
		var err error

		switch {
		case item.MediaBlock != nil:
			n, err = writeMediaBlock(w, item.MediaBlock)
		case item.Rule != nil:
			n, err = writeRule(w, item.Rule)
		}

		total += int64(n)
		if err != nil {
			return total, err
		}

		// Add blank line between items (except after last)
		if i < len(s.Items)-1 {
			n, err = fmt.Fprint(w, "\n")
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

// writeRule writes a single CSS rule to w.
func writeRule(w io.Writer, rule *Rule) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "%s {\n", rule.Selector.Raw)
	total += n
	if err != nil {
		return total, err
	}
	n, err = writeProperties(w, rule.Properties, "  ")
	total += n
	if err != nil {
		return total, err
	}
	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}

// writeProperties writes property declarations sorted alphabetically.
func writeProperties(w io.Writer, props map[string]Value, indent string) (int, error) {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	var total int
	for _, name := range names {
		val := props[name]
		n, err := fmt.Fprintf(w, "%s%s: %s;\n", indent, name, val.Raw)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// writeMediaBlock writes an @media block to w.
func writeMediaBlock(w io.Writer, mb *MediaBlock) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "@media %s {\n", mb.Query.Raw)
	total += n
	if err != nil {
		return total, err
	}

	for i, rule := range mb.Rules {
		n, err = fmt.Fprintf(w, "  %s {\n", rule.Selector.Raw)
		total += n
		if err != nil {
			return total, err
		}

		n, err = writeProperties(w, rule.Properties, "    ")
		total += n
		if err != nil {
			return total, err
		}

		n, err = fmt.Fprint(w, "  }\n")
		total += n
		if err != nil {
			return total, err
		}

		// Blank line between rules in a media block (except after last)
		if i < len(mb.Rules)-1 {
			n, err = fmt.Fprint(w, "\n")
			total += n
			if err != nil {
				return total, err
			}
		}
	}

	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}
