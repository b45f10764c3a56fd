package eml

import "strings"

// SchemaLocation maps a namespace URI to the schema document describing it.
type SchemaLocation struct {
	Namespace string
	Location  string
}

// SchemaLocations is an ordered namespace to schema mapping.
type SchemaLocations []SchemaLocation

// DefaultSchemaLocations covers EML 2.0.0 through 2.1.1 and the STMML
// companion schemas. Existing EML documents depend on these exact values.
var DefaultSchemaLocations = SchemaLocations{
	{"eml://ecoinformatics.org/eml-2.0.0", "http://knb.ecoinformatics.org/emlparser/schema/eml-2.0.0/eml.xsd"},
	{"eml://ecoinformatics.org/eml-2.0.1", "http://knb.ecoinformatics.org/emlparser/schema/eml-2.0.1/eml.xsd"},
	{"eml://ecoinformatics.org/eml-2.1.0", "http://knb.ecoinformatics.org/emlparser/schema/eml-2.1.0/eml.xsd"},
	{"eml://ecoinformatics.org/literature-2.1.0", "http://knb.ecoinformatics.org/emlparser/schema/eml-2.1.0/eml-literature.xsd"},
	{"eml://ecoinformatics.org/project-2.1.0", "http://knb.ecoinformatics.org/emlparser/schema/eml-2.1.0/eml-project.xsd"},
	{"eml://ecoinformatics.org/eml-2.1.1", "eml.xsd"},
	{"eml://ecoinformatics.org/literature-2.1.1", "eml-literature.xsd"},
	{"eml://ecoinformatics.org/project-2.1.1", "eml-project.xsd"},
	{"http://www.xml-cml.org/schema/stmml", "http://knb.ecoinformatics.org/emlparser/schema/eml-2.0.1/stmml.xsd"},
	{"http://www.xml-cml.org/schema/stmml-1.1", "http://knb.ecoinformatics.org/emlparser/schema/eml-2.1.0/stmml.xsd"},
}

// Lookup returns the schema location registered for namespace.
func (s SchemaLocations) Lookup(namespace string) (string, bool) {
	for _, loc := range s {
		if loc.Namespace == namespace {
			return loc.Location, true
		}
	}
	return "", false
}

// String renders the mapping in xsi:schemaLocation form.
func (s SchemaLocations) String() string {
	parts := make([]string, 0, len(s)*2)
	for _, loc := range s {
		parts = append(parts, loc.Namespace, loc.Location)
	}
	return strings.Join(parts, " ")
}
