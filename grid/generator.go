package grid

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"flexgrid/css"
)

// Class names of the generated rule set. Variant and per-breakpoint names are
// derived from these with a "--" modifier suffix.
const (
	ContainerClass = "Grid"
	CellClass      = "Grid-cell"
	ContentClass   = "Grid-content"
)

// ContainerVariantClass returns the class name of a container variant rule,
// e.g. "Grid--alignCenter".
func ContainerVariantClass(variant string) string {
	return ContainerClass + "--" + variant
}

// CellSizeClass returns the class name of the per-breakpoint size rule,
// e.g. "Grid-cell--md".
func CellSizeClass(breakpoint string) string {
	return CellClass + "--" + breakpoint
}

// CellSpanClass returns the class name of the fixed-width span rule,
// e.g. "Grid-cell--md-6".
func CellSpanClass(breakpoint string, span int) string {
	return CellSizeClass(breakpoint) + "-" + strconv.Itoa(span)
}

// GutterClass returns the class name of a gutter rule, e.g. "Grid--gutter-md".
func GutterClass(name string) string {
	return ContainerClass + "--gutter-" + name
}

// Generator expands a Config into the complete grid rule set. Generation is
// a pure function of the configuration: same input, same output, in the same
// order.
type Generator struct {
	log *zap.Logger
}

// NewGenerator creates a new grid rule generator.
func NewGenerator(log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{log: log.Named("grid-generator")}
}

// Generate validates cfg and produces the full stylesheet: base rules,
// breakpoint cell rules, gutter rules and the content box rule, concatenated
// in that order. On validation failure nothing is emitted.
func (g *Generator) Generate(cfg Config) (*css.Stylesheet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	items := g.BaseRules()
	items = append(items, g.BreakpointCellRules(cfg.Breakpoints, cfg.Columns)...)
	items = append(items, g.GutterRules(cfg.Gutters, CellSelectors(items))...)
	items = append(items, g.ContentBoxRule())

	g.log.Debug("Generated grid stylesheet",
		zap.Int("items", len(items)),
		zap.Int("breakpoints", len(cfg.Breakpoints)),
		zap.Int("columns", cfg.Columns),
		zap.Int("gutters", len(cfg.Gutters)))
	return &css.Stylesheet{Items: items}, nil
}

// rule builds a Rule from a raw property map.
func rule(sel css.Selector, cell bool, props map[string]string) *css.Rule {
	vals := make(map[string]css.Value, len(props))
	for name, raw := range props {
		vals[name] = css.NewValue(raw)
	}
	return &css.Rule{Selector: sel, Properties: vals, GridCell: cell}
}

func classRule(class string, cell bool, props map[string]string) css.StylesheetItem {
	return css.StylesheetItem{Rule: rule(css.ClassSelector(class), cell, props)}
}

// BaseRules produces the foundational container rule, the default cell rule
// and the fixed set of direction and alignment variants. No configuration is
// involved.
func (g *Generator) BaseRules() []css.StylesheetItem {
	return []css.StylesheetItem{
		classRule(ContainerClass, false, map[string]string{
			"box-sizing": "border-box",
			"display":    "flex",
			"flex-flow":  "row wrap",
			"list-style": "none",
			"margin":     "0",
			"padding":    "0",
		}),
		// Default cell: flexible, sharing the row equally.
		classRule(CellClass, true, map[string]string{
			"flex": "1 1 0%",
		}),
		classRule(ContainerVariantClass("column"), false, map[string]string{
			"flex-direction": "column",
		}),
		// Cross-axis alignment.
		classRule(ContainerVariantClass("alignStart"), false, map[string]string{
			"align-items": "flex-start",
		}),
		classRule(ContainerVariantClass("alignEnd"), false, map[string]string{
			"align-items": "flex-end",
		}),
		classRule(ContainerVariantClass("alignCenter"), false, map[string]string{
			"align-items": "center",
		}),
		// Main-axis distribution.
		classRule(ContainerVariantClass("justifyCenter"), false, map[string]string{
			"justify-content": "center",
		}),
		classRule(ContainerVariantClass("justifyEnd"), false, map[string]string{
			"justify-content": "flex-end",
		}),
		classRule(ContainerVariantClass("justifyBetween"), false, map[string]string{
			"justify-content": "space-between",
		}),
		classRule(ContainerVariantClass("justifyAround"), false, map[string]string{
			"justify-content": "space-around",
		}),
	}
}

// SpanPercent formats the width fraction span/columns as a CSS percentage,
// e.g. 4/12 -> "33.33333%". Five decimal places, trailing zeros trimmed.
func SpanPercent(span, columns int) string {
	s := strconv.FormatFloat(float64(span)*100/float64(columns), 'f', 5, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s + "%"
}

// BreakpointCellRules expands the breakpoint table into per-breakpoint cell
// rules. For every breakpoint it emits the unscoped full-width size rule and
// one @media (min-width) block holding the flexible override plus the span
// rules 1..columns. The first breakpoint additionally emits its span rules
// unscoped, so cells render correctly before any width condition applies
// (mobile-first fallback).
//
// Breakpoints are expected in ascending min-width order; Generate enforces
// that through Config.Validate before calling here. The scoped rule of a
// later breakpoint wins at its threshold purely through declaration order.
func (g *Generator) BreakpointCellRules(breakpoints []Breakpoint, columns int) []css.StylesheetItem {
	var items []css.StylesheetItem

	for i, bp := range breakpoints {
		// Full width unconditionally, flexible at and above the threshold.
		items = append(items, classRule(CellSizeClass(bp.Name), true, map[string]string{
			"flex-basis": "100%",
			"max-width":  "100%",
		}))

		if i == 0 {
			// Smallest breakpoint doubles as the unconditional default.
			for span := 1; span <= columns; span++ {
				items = append(items, *g.spanRule(bp.Name, span, columns))
			}
		}

		block := &css.MediaBlock{Query: css.MinWidthQuery(bp.MinWidth)}
		block.Rules = append(block.Rules, *rule(css.ClassSelector(CellSizeClass(bp.Name)), true, map[string]string{
			"flex":      "1 1 0%",
			"max-width": "100%",
		}))
		for span := 1; span <= columns; span++ {
			block.Rules = append(block.Rules, *g.spanRule(bp.Name, span, columns).Rule)
		}
		items = append(items, css.StylesheetItem{MediaBlock: block})
	}
	return items
}

// spanRule emits the fixed-width rule for one (breakpoint, span) pair.
func (g *Generator) spanRule(breakpoint string, span, columns int) *css.StylesheetItem {
	pct := SpanPercent(span, columns)
	return &css.StylesheetItem{Rule: rule(css.ClassSelector(CellSpanClass(breakpoint, span)), true, map[string]string{
		"flex-basis": pct,
		"max-width":  pct,
	})}
}

// CellSelectors collects the class selectors of every rule carrying the
// GridCell marker, in declaration order and without duplicates. This is the
// explicit capability mechanism gutter targeting is built on.
func CellSelectors(items []css.StylesheetItem) []css.Selector {
	var sels []css.Selector
	seen := make(map[string]struct{})

	collect := func(r *css.Rule) {
		if !r.GridCell || !r.Selector.IsClass() {
			return
		}
		if _, ok := seen[r.Selector.Class]; ok {
			return
		}
		seen[r.Selector.Class] = struct{}{}
		sels = append(sels, css.ClassSelector(r.Selector.Class))
	}

	for _, item := range items {
		switch {
		case item.Rule != nil:
			collect(item.Rule)
		case item.MediaBlock != nil:
			for i := range item.MediaBlock.Rules {
				collect(&item.MediaBlock.Rules[i])
			}
		}
	}
	return sels
}

// GutterRules expands the gutter table. Each gutter produces a container rule
// with negative top/left margins and one direct-child rule per marked cell
// class with matching positive top/left padding. Spacing is asymmetric: only
// the top and left edges carry gutters, flex-wrap absorbs the remainder on
// the bottom/right edges.
func (g *Generator) GutterRules(gutters []Gutter, cells []css.Selector) []css.StylesheetItem {
	var items []css.StylesheetItem

	for _, gut := range gutters {
		neg := gut.Size.Neg()
		items = append(items, classRule(GutterClass(gut.Name), false, map[string]string{
			"margin-top":  neg.Raw,
			"margin-left": neg.Raw,
		}))

		for _, cell := range cells {
			items = append(items, css.StylesheetItem{
				Rule: rule(css.ChildSelector(GutterClass(gut.Name), cell.Class), false, map[string]string{
					"padding-top":  gut.Size.Raw,
					"padding-left": gut.Size.Raw,
				}),
			})
		}
	}
	return items
}

// ContentBoxRule is the demonstrative content box: fixed padding and
// background, independent of configuration.
func (g *Generator) ContentBoxRule() css.StylesheetItem {
	return classRule(ContentClass, false, map[string]string{
		"padding":    "0.8em 1em",
		"background": "#eee",
	})
}
