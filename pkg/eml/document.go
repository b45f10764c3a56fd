package eml

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/leapstack-labs/emlquality/pkg/core"
)

// ErrNoRootElement is returned for input without a root element.
var ErrNoRootElement = errors.New("document has no root element")

// Document is a parsed EML document.
type Document struct {
	root    *xmlquery.Node // document node
	element *xmlquery.Node // root element
}

// ParseDocument parses an EML document.
func ParseDocument(r io.Reader) (*Document, error) {
	root, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	element := firstElement(root)
	if element == nil {
		return nil, ErrNoRootElement
	}
	return &Document{root: root, element: element}, nil
}

// ParseDocumentString parses an EML document held in a string.
func ParseDocumentString(s string) (*Document, error) {
	return ParseDocument(strings.NewReader(s))
}

func firstElement(n *xmlquery.Node) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return c
		}
	}
	return nil
}

// XML returns the root element serialised as a string.
func (d *Document) XML() string {
	return d.element.OutputXML(true)
}

// Namespace returns the namespace URI of the root element, e.g.
// "eml://ecoinformatics.org/eml-2.1.1". Empty if none is declared.
func (d *Document) Namespace() string {
	if d.element.NamespaceURI != "" {
		return d.element.NamespaceURI
	}
	for _, attr := range d.element.Attr {
		isDecl := attr.Name.Space == "xmlns" && attr.Name.Local == d.element.Prefix
		isDefault := d.element.Prefix == "" && attr.Name.Space == "" && attr.Name.Local == "xmlns"
		if isDecl || isDefault {
			return attr.Value
		}
	}
	return ""
}

// rootAttr returns an unqualified attribute of the root element.
func (d *Document) rootAttr(name string) (string, bool) {
	for _, attr := range d.element.Attr {
		if attr.Name.Local == name && (attr.Name.Space == "" || attr.NamespaceURI == "") {
			return attr.Value, true
		}
	}
	return "", false
}

// PackageID returns the packageId attribute of the root element.
func (d *Document) PackageID() core.Optional[string] {
	if v, ok := d.rootAttr("packageId"); ok {
		return core.Some(v)
	}
	return core.None[string]()
}

// System returns the system attribute of the root element.
func (d *Document) System() string {
	v, _ := d.rootAttr("system")
	return v
}

// MethodsCount returns the number of 'methods' elements in the document.
func (d *Document) MethodsCount() int {
	return len(xmlquery.Find(d.root, "//methods"))
}

// AccessXML returns the top-level <access> block, or "" if there is none.
func (d *Document) AccessXML() string {
	if n := xmlquery.FindOne(d.element, "access"); n != nil {
		return n.OutputXML(true)
	}
	return ""
}

// Entities returns the entities of the dataset in document order.
func (d *Document) Entities() []*Entity {
	dataset := xmlquery.FindOne(d.element, "dataset")
	if dataset == nil {
		return nil
	}

	var entities []*Entity
	for c := dataset.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		typ, ok := entityTypes[c.Data]
		if !ok {
			continue
		}
		entities = append(entities, entityFromNode(c, typ))
	}
	return entities
}

func entityFromNode(n *xmlquery.Node, typ EntityType) *Entity {
	e := &Entity{
		ID:   n.SelectAttr("id"),
		Type: typ,
	}
	if nameNode := xmlquery.FindOne(n, "entityName"); nameNode != nil {
		e.Name = core.Some(strings.TrimSpace(nameNode.InnerText()))
	}
	for _, attr := range xmlquery.Find(n, "attributeList/attribute/attributeName") {
		e.Attributes = append(e.Attributes, strings.TrimSpace(attr.InnerText()))
	}
	return e
}
