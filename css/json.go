package css

import (
	"encoding/json"
	"io"
)

// jsonRule is the wire shape of a single generated rule. Scoped rules carry
// their media query in scope; declarations map property names to raw values.
type jsonRule struct {
	Selector     string            `json:"selector"`
	Declarations map[string]string `json:"declarations"`
	Scope        string            `json:"scope,omitempty"`
	GridCell     bool              `json:"gridCell,omitempty"`
}

// WriteJSONTo writes the stylesheet as a flat JSON array of rules for
// consumers that want typed style objects instead of CSS text. Rules nested
// in @media blocks are flattened and keep their scope; source order is
// preserved so the later-rule-wins contract still holds.
func (s *Stylesheet) WriteJSONTo(w io.Writer) error {
	rules := make([]jsonRule, 0, len(s.Items))

	appendRule := func(rule Rule, scope string) {
		decls := make(map[string]string, len(rule.Properties))
		for name, val := range rule.Properties {
			decls[name] = val.Raw
		}
		rules = append(rules, jsonRule{
			Selector:     rule.Selector.Raw,
			Declarations: decls,
			Scope:        scope,
			GridCell:     rule.GridCell,
		})
	}

	for _, item := range s.Items {
		switch {
		case item.Rule != nil:
			appendRule(*item.Rule, "")
		case item.MediaBlock != nil:
			for _, rule := range item.MediaBlock.Rules {
				appendRule(rule, item.MediaBlock.Query.Raw)
			}
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rules)
}
