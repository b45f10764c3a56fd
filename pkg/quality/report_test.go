package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource []*EntityReport

func (f fakeSource) EntityReports() []*EntityReport { return f }

func decided(id string, ok bool) *Check {
	c := NewCheck(Template{Identifier: id}, "", nil)
	c.Resolve(ok)
	return c
}

func TestReport_DatasetErrorOnly(t *testing.T) {
	r := NewReport(fakeSource{})
	r.AddDatasetCheck(decided("emlVersion", false))

	assert.True(t, r.HasDatasetQualityError())
	assert.False(t, r.HasEntityQualityError())
	assert.True(t, r.HasQualityError())
}

func TestReport_Aggregates(t *testing.T) {
	failingEntity := NewEntityReport("obs")
	failingEntity.AddCheck(decided("entityNameLength", true))
	failingEntity.AddCheck(decided("attributeNamesUnique", false))

	passingEntity := NewEntityReport("sites")
	passingEntity.AddCheck(decided("entityNameLength", true))

	tests := []struct {
		name        string
		dataset     []*Check
		entities    fakeSource
		wantDataset bool
		wantEntity  bool
	}{
		{"empty", nil, nil, false, false},
		{"all valid", []*Check{decided("a", true)}, fakeSource{passingEntity}, false, false},
		{"entity failure", []*Check{decided("a", true)}, fakeSource{passingEntity, failingEntity}, false, true},
		{"both fail", []*Check{decided("a", false)}, fakeSource{failingEntity}, true, true},
		{"nil entity report ignored", nil, fakeSource{nil, passingEntity}, false, false},
		{"not-run checks are not errors", []*Check{NewCheck(Template{Identifier: "x"}, "", nil)}, nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReport(tt.entities)
			for _, c := range tt.dataset {
				r.AddDatasetCheck(c)
			}

			for i := 0; i < 3; i++ {
				assert.Equal(t, tt.wantDataset, r.HasDatasetQualityError())
				assert.Equal(t, tt.wantEntity, r.HasEntityQualityError())
				assert.Equal(t, tt.wantDataset || tt.wantEntity, r.HasQualityError())
			}
		})
	}
}

func TestReport_NilSource(t *testing.T) {
	r := NewReport(nil)
	assert.Nil(t, r.EntityReports())
	assert.False(t, r.HasEntityQualityError())
}

func TestReport_OrderAndLookup(t *testing.T) {
	r := NewReport(nil)
	r.AddDatasetCheck(decided("packageIdPattern", true))
	r.AddDatasetCheck(nil)
	r.AddDatasetCheck(decided("emlVersion", false))
	r.AddDatasetCheck(decided("emlVersion", true))

	checks := r.DatasetChecks()
	require.Len(t, checks, 3)
	assert.Equal(t, "packageIdPattern", checks[0].Identifier())
	assert.Equal(t, "emlVersion", checks[1].Identifier())

	last, ok := r.DatasetCheck("emlVersion")
	require.True(t, ok)
	assert.Equal(t, StatusValid, last.Status())

	_, ok = r.DatasetCheck("schemaValid")
	assert.False(t, ok)
}

func TestReport_Counts(t *testing.T) {
	er := NewEntityReport("obs")
	er.AddCheck(decided("x", false))

	r := NewReport(fakeSource{er})
	r.AddDatasetCheck(decided("a", true))
	r.AddDatasetCheck(decided("b", true))
	r.AddDatasetCheck(NewCheck(Template{Identifier: "c"}, "", nil))

	assert.Equal(t, Counts{Valid: 2, Failed: 1, NotRun: 1}, r.Counts())
}

func TestEntityReport(t *testing.T) {
	er := NewEntityReport("obs")
	assert.Equal(t, "obs", er.EntityName())
	assert.False(t, er.HasQualityError())

	er.AddCheck(nil)
	er.AddCheck(decided("a", true))
	assert.Len(t, er.Checks(), 1)
	assert.False(t, er.HasQualityError())

	er.AddCheck(decided("b", false))
	assert.True(t, er.HasQualityError())

	var nilReport *EntityReport
	assert.False(t, nilReport.HasQualityError())
}
