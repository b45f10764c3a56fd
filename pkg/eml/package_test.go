package eml

import (
	"testing"

	"github.com/leapstack-labs/emlquality/internal/testutil"
	"github.com/leapstack-labs/emlquality/pkg/core"
	"github.com/leapstack-labs/emlquality/pkg/quality"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultRegistry(t *testing.T) *quality.Registry {
	t.Helper()
	reg, err := quality.DefaultRegistry()
	require.NoError(t, err)
	return reg
}

func newPackage(t *testing.T, id core.Optional[string], opts ...Option) *DataPackage {
	t.Helper()
	opts = append([]Option{WithLogger(testutil.NewTestLogger(t))}, opts...)
	pkg, err := New(defaultRegistry(t), id, opts...)
	require.NoError(t, err)
	return pkg
}

func datasetCheck(t *testing.T, pkg *DataPackage, id string) *quality.Check {
	t.Helper()
	c, ok := pkg.Report().DatasetCheck(id)
	require.True(t, ok, "check %s was not recorded", id)
	return c
}

func TestNew_PackageIDCheck(t *testing.T) {
	tests := []struct {
		name   string
		system string
		id     core.Optional[string]
		want   quality.Status
	}{
		{"lter conforming", "lter", core.Some("knb-lter-abc.1.1"), quality.StatusValid},
		{"lter conforming long numbers", "lter", core.Some("knb-lter-sev.123.45"), quality.StatusValid},
		{"lter system upper case", "LTER", core.Some("knb-lter-abc.1.1"), quality.StatusValid},
		{"lter wrong scope", "lter", core.Some("LTER.1.1"), quality.StatusFailed},
		{"lter two-letter site", "lter", core.Some("knb-lter-ab.1.1"), quality.StatusFailed},
		{"lter four-letter site", "lter", core.Some("knb-lter-abcd.1.1"), quality.StatusFailed},
		{"lter upper-case site", "lter", core.Some("knb-lter-ABC.1.1"), quality.StatusFailed},
		{"lter missing revision", "lter", core.Some("knb-lter-abc.1"), quality.StatusFailed},
		{"lter trailing text", "lter", core.Some("knb-lter-abc.1.1x"), quality.StatusFailed},
		{"lter empty", "lter", core.Some(""), quality.StatusFailed},
		{"knb permissive", "knb", core.Some("anything123"), quality.StatusValid},
		{"no system permissive", "", core.Some("whatever"), quality.StatusValid},
		{"absent under lter", "lter", core.None[string](), quality.StatusFailed},
		{"absent under knb", "knb", core.None[string](), quality.StatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg := newPackage(t, tt.id, WithSystem(tt.system))

			c := datasetCheck(t, pkg, CheckPackageIDPattern)
			assert.Equal(t, tt.want, c.Status())
			assert.Equal(t, tt.id.OrElse(""), c.Found())
			assert.Equal(t, tt.id, pkg.PackageID())
			assert.Equal(t, tt.want == quality.StatusFailed, pkg.HasDatasetQualityError())
		})
	}
}

func TestNew_Errors(t *testing.T) {
	_, err := New(nil, core.Some("x"))
	assert.ErrorIs(t, err, ErrNilRegistry)

	reg, err := quality.NewRegistry(quality.Template{Identifier: "somethingElse"})
	require.NoError(t, err)
	_, err = New(reg, core.Some("x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, quality.ErrUnknownCheck)
}

func TestNew_DisabledCheckNotRecorded(t *testing.T) {
	cfg := quality.NewConfig().Disable(CheckPackageIDPattern)
	pkg := newPackage(t, core.None[string](), WithConfig(cfg))

	assert.Empty(t, pkg.Report().DatasetChecks())
	assert.False(t, pkg.HasQualityError())
}

func TestSetEmlNamespace(t *testing.T) {
	tests := []struct {
		name string
		ns   core.Optional[string]
		want quality.Status
	}{
		{"eml 2.1.0", core.Some("eml://ecoinformatics.org/eml-2.1.0"), quality.StatusValid},
		{"eml 2.1.1", core.Some("eml://ecoinformatics.org/eml-2.1.1"), quality.StatusValid},
		{"eml 2.0.1 is too old", core.Some("eml://ecoinformatics.org/eml-2.0.1"), quality.StatusFailed},
		{"eml 2.0.0 is too old", core.Some("eml://ecoinformatics.org/eml-2.0.0"), quality.StatusFailed},
		{"trailing space", core.Some("eml://ecoinformatics.org/eml-2.1.1 "), quality.StatusFailed},
		{"empty", core.Some(""), quality.StatusFailed},
		{"absent", core.None[string](), quality.StatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg := newPackage(t, core.Some("id"), WithSystem("knb"))
			require.NoError(t, pkg.SetEmlNamespace(tt.ns))

			c := datasetCheck(t, pkg, CheckEmlVersion)
			assert.Equal(t, tt.want, c.Status())
			assert.Equal(t, tt.ns, pkg.EmlNamespace())
			if tt.want == quality.StatusValid {
				assert.Empty(t, c.Explanation())
				assert.Empty(t, c.Suggestion())
			} else {
				assert.NotEmpty(t, c.Explanation())
			}
		})
	}
}

func TestSetEmlNamespace_ConfigurableAllowList(t *testing.T) {
	policy, err := NewPolicy([]string{"https://eml.ecoinformatics.org/eml-2.2.0"}, nil)
	require.NoError(t, err)
	pkg := newPackage(t, core.Some("id"), WithPolicy(policy))

	require.NoError(t, pkg.SetEmlNamespace(core.Some("https://eml.ecoinformatics.org/eml-2.2.0")))
	assert.Equal(t, quality.StatusValid, datasetCheck(t, pkg, CheckEmlVersion).Status())

	require.NoError(t, pkg.SetEmlNamespace(core.Some("eml://ecoinformatics.org/eml-2.1.1")))
	assert.Equal(t, quality.StatusFailed, datasetCheck(t, pkg, CheckEmlVersion).Status())
	assert.Len(t, pkg.Report().DatasetChecks(), 3, "every run records a fresh check")
}

func TestFindDuplicateEntityName(t *testing.T) {
	tests := []struct {
		name     string
		entities []*Entity
		want     string
		wantDup  bool
	}{
		{"A B A", []*Entity{NewEntity("A"), NewEntity("B"), NewEntity("A")}, "A", true},
		{"A B C", []*Entity{NewEntity("A"), NewEntity("B"), NewEntity("C")}, "", false},
		{"empty", nil, "", false},
		{"first duplicate in list order", []*Entity{NewEntity("A"), NewEntity("B"), NewEntity("B"), NewEntity("A")}, "B", true},
		{"unnamed entities skipped", []*Entity{{}, NewEntity("A"), {}}, "", false},
		{"case sensitive", []*Entity{NewEntity("a"), NewEntity("A")}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg := newPackage(t, core.Some("id"))
			for _, e := range tt.entities {
				require.NoError(t, pkg.Add(e))
			}

			got, dup := pkg.FindDuplicateEntityName()
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantDup, dup)
		})
	}
}

func TestSetNumberOfMethodsElements(t *testing.T) {
	tests := []struct {
		n    int
		want quality.Status
	}{
		{0, quality.StatusFailed},
		{1, quality.StatusValid},
		{5, quality.StatusValid},
	}

	for _, tt := range tests {
		pkg := newPackage(t, core.Some("id"))
		require.NoError(t, pkg.SetNumberOfMethodsElements(tt.n))

		c := datasetCheck(t, pkg, CheckMethodsElementPresent)
		assert.Equal(t, tt.want, c.Status(), "n=%d", tt.n)
		assert.Contains(t, c.Found(), "Number of 'methods' elements found:")
		assert.Equal(t, tt.n, pkg.NumberOfMethodsElements())
	}

	pkg := newPackage(t, core.Some("id"))
	assert.Error(t, pkg.SetNumberOfMethodsElements(-1))
}

func TestAggregates_DatasetFailureOnly(t *testing.T) {
	pkg := newPackage(t, core.Some("knb-lter-abc.1.1"), WithSystem("lter"))
	require.NoError(t, pkg.SetNumberOfMethodsElements(0))
	require.NoError(t, pkg.Add(NewEntity("obs")))

	for i := 0; i < 3; i++ {
		assert.True(t, pkg.HasDatasetQualityError())
		assert.False(t, pkg.HasEntityQualityError())
		assert.True(t, pkg.HasQualityError())
	}
}

func TestAggregates_AllValid(t *testing.T) {
	pkg := newPackage(t, core.Some("knb-lter-abc.1.1"), WithSystem("lter"))
	require.NoError(t, pkg.SetEmlNamespace(core.Some("eml://ecoinformatics.org/eml-2.1.1")))
	require.NoError(t, pkg.SetNumberOfMethodsElements(2))
	require.NoError(t, pkg.Add(NewEntity("obs")))
	require.NoError(t, pkg.CheckEntities())

	assert.False(t, pkg.HasDatasetQualityError())
	assert.False(t, pkg.HasEntityQualityError())
	assert.False(t, pkg.HasQualityError())
}

func TestEntityOperations(t *testing.T) {
	pkg := newPackage(t, core.Some("id"))
	assert.ErrorIs(t, pkg.Add(nil), ErrNilEntity)

	first := NewEntity("obs")
	second := NewEntity("obs")
	require.NoError(t, pkg.Add(first))
	require.NoError(t, pkg.Add(NewEntity("sites")))
	require.NoError(t, pkg.Add(second))

	assert.Equal(t, 3, pkg.EntityCount())
	got, ok := pkg.Entity("obs")
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.Len(t, pkg.EntitiesNamed("obs"), 2)
	assert.Empty(t, pkg.EntitiesNamed("missing"))
	_, ok = pkg.Entity("missing")
	assert.False(t, ok)

	pkg.ClearEntities()
	assert.Equal(t, 0, pkg.EntityCount())
	assert.Empty(t, pkg.Entities())
}

func TestAddDatasetCheck(t *testing.T) {
	pkg := newPackage(t, core.Some("id"))
	c := quality.NewCheck(quality.Template{Identifier: "custom"}, "", nil)
	c.Fail()
	pkg.AddDatasetCheck(c)

	assert.True(t, pkg.HasDatasetQualityError())
	_, ok := pkg.Report().DatasetCheck("custom")
	assert.True(t, ok)
}

func TestAccessXMLAndSystem(t *testing.T) {
	pkg := newPackage(t, core.Some("id"), WithSystem("knb"))
	assert.Equal(t, "knb", pkg.System())
	pkg.SetSystem("lter")
	assert.Equal(t, "lter", pkg.System())

	pkg.SetAccessXML("<access/>")
	assert.Equal(t, "<access/>", pkg.AccessXML())
	assert.Contains(t, pkg.String(), "id")
}
