package eml

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/antchfx/xmlquery"
)

// IDReferenceParser checks the EML id and reference rules:
// every id is unique, and every references or describes element names an
// existing id.
type IDReferenceParser struct{}

// NewIDReferenceParser returns the built-in ID/reference parser.
func NewIDReferenceParser() *IDReferenceParser {
	return &IDReferenceParser{}
}

// Parse implements ReferenceParser.
func (IDReferenceParser) Parse(ctx context.Context, xml string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	root, err := xmlquery.Parse(strings.NewReader(xml))
	if err != nil {
		return fmt.Errorf("failed to parse XML: %w", err)
	}

	var problems []string

	ids := make(map[string]int)
	for _, n := range xmlquery.Find(root, "//*[@id]") {
		ids[n.SelectAttr("id")]++
	}
	var dups []string
	for id, count := range ids {
		if count > 1 {
			dups = append(dups, id)
		}
	}
	sort.Strings(dups)
	for _, id := range dups {
		problems = append(problems, fmt.Sprintf("duplicate id '%s'", id))
	}

	for _, expr := range []string{"//references", "//additionalMetadata/describes"} {
		for _, n := range xmlquery.Find(root, expr) {
			target := strings.TrimSpace(n.InnerText())
			if _, ok := ids[target]; !ok {
				problems = append(problems, fmt.Sprintf("%s '%s' does not match any id", n.Data, target))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}
