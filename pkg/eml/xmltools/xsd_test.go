package xmltools

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/leapstack-labs/emlquality/internal/testutil"
	"github.com/leapstack-labs/emlquality/pkg/eml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSchema accepts an eml root with a packageId and a dataset holding a title.
const testSchema = `<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
           targetNamespace="eml://ecoinformatics.org/eml-2.1.1">
  <xs:element name="eml">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="dataset">
          <xs:complexType>
            <xs:sequence>
              <xs:element name="title" type="xs:string"/>
            </xs:sequence>
          </xs:complexType>
        </xs:element>
      </xs:sequence>
      <xs:attribute name="packageId" type="xs:string" use="required"/>
    </xs:complexType>
  </xs:element>
</xs:schema>`

const (
	validEML   = `<eml:eml xmlns:eml="eml://ecoinformatics.org/eml-2.1.1" packageId="p.1.1"><dataset><title>t</title></dataset></eml:eml>`
	invalidEML = `<eml:eml xmlns:eml="eml://ecoinformatics.org/eml-2.1.1"><dataset/></eml:eml>`
)

func schemaFS() fstest.MapFS {
	return fstest.MapFS{"eml.xsd": &fstest.MapFile{Data: []byte(testSchema)}}
}

func TestXSD_Validate(t *testing.T) {
	v := &XSD{FS: schemaFS(), Logger: testutil.NewTestLogger(t)}
	ctx := context.Background()

	require.NoError(t, v.Validate(ctx, validEML, eml.DefaultSchemaLocations, ns211))

	err := v.Validate(ctx, invalidEML, eml.DefaultSchemaLocations, ns211)
	require.Error(t, err)
	assert.NotErrorIs(t, err, eml.ErrConfiguration)

	// compiled once per location
	assert.Len(t, v.schemas, 1)
}

func TestXSD_SchemaDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "eml.xsd"), []byte(testSchema), 0o600))

	v := &XSD{SchemaDir: dir}
	require.NoError(t, v.Validate(context.Background(), validEML, eml.DefaultSchemaLocations, ns211))

	abs := eml.SchemaLocations{{Namespace: ns211, Location: filepath.Join(dir, "eml.xsd")}}
	require.NoError(t, (&XSD{}).Validate(context.Background(), validEML, abs, ns211))
}

func TestXSD_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("no schema directory", func(t *testing.T) {
		err := (&XSD{}).Validate(ctx, validEML, eml.DefaultSchemaLocations, ns211)
		assert.ErrorIs(t, err, eml.ErrConfiguration)
	})

	t.Run("unknown namespace", func(t *testing.T) {
		err := (&XSD{FS: schemaFS()}).Validate(ctx, validEML, eml.DefaultSchemaLocations, "urn:unknown")
		require.Error(t, err)
		assert.NotErrorIs(t, err, eml.ErrConfiguration)
	})

	t.Run("schema file missing", func(t *testing.T) {
		err := (&XSD{FS: schemaFS()}).Validate(ctx, validEML, eml.DefaultSchemaLocations, "eml://ecoinformatics.org/eml-2.0.1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, eml.ErrConfiguration)
		assert.Contains(t, err.Error(), "eml-2.0.1/eml.xsd")
	})

	t.Run("schema does not compile", func(t *testing.T) {
		broken := fstest.MapFS{"eml.xsd": &fstest.MapFile{Data: []byte("<xs:schema")}}
		err := (&XSD{FS: broken}).Validate(ctx, validEML, eml.DefaultSchemaLocations, ns211)
		assert.ErrorIs(t, err, eml.ErrConfiguration)
	})

	t.Run("canceled", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		err := (&XSD{FS: schemaFS()}).Validate(canceled, validEML, eml.DefaultSchemaLocations, ns211)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSchemaPath(t *testing.T) {
	tests := []struct {
		location string
		want     string
	}{
		{"eml.xsd", "eml.xsd"},
		{"./eml-literature.xsd", "eml-literature.xsd"},
		{"http://knb.ecoinformatics.org/emlparser/schema/eml-2.1.0/eml.xsd", "eml-2.1.0/eml.xsd"},
		{"http://example.org/stmml.xsd", "stmml.xsd"},
	}
	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			assert.Equal(t, tt.want, SchemaPath(tt.location))
		})
	}
}
