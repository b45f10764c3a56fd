package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		input  string
		want   Severity
		wantOK bool
	}{
		{"error", SeverityError, true},
		{"ERROR", SeverityError, true},
		{"warn", SeverityWarning, true},
		{"warning", SeverityWarning, true},
		{" info ", SeverityInfo, true},
		{"fatal", SeverityWarning, false},
		{"", SeverityWarning, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseSeverity(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestSeverity_TextRoundTrip(t *testing.T) {
	var s Severity
	require.NoError(t, s.UnmarshalText([]byte("info")))
	assert.Equal(t, SeverityInfo, s)

	text, err := SeverityError.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "error", string(text))

	assert.Error(t, s.UnmarshalText([]byte("nope")))
	assert.Equal(t, "unknown", Severity(42).String())
}

func TestOptional(t *testing.T) {
	none := None[string]()
	_, ok := none.Get()
	assert.False(t, ok)
	assert.False(t, none.IsSome())
	assert.Equal(t, "fallback", none.OrElse("fallback"))
	assert.Nil(t, none.Ptr())

	var zero Optional[string]
	assert.Equal(t, none, zero, "zero value is absent")

	some := Some("")
	v, ok := some.Get()
	assert.True(t, ok, "empty string is still present")
	assert.Equal(t, "", v)
	require.NotNil(t, some.Ptr())

	s := "x"
	assert.Equal(t, Some("x"), FromPtr(&s))
	assert.Equal(t, None[string](), FromPtr[string](nil))
}

func TestOptional_JSON(t *testing.T) {
	type wrapper struct {
		ID Optional[string] `json:"id"`
	}

	data, err := json.Marshal(wrapper{ID: None[string]()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":null}`, string(data))

	data, err = json.Marshal(wrapper{ID: Some("knb-lter-abc.1.1")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"knb-lter-abc.1.1"}`, string(data))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"id":"a"}`), &w))
	assert.Equal(t, Some("a"), w.ID)

	require.NoError(t, json.Unmarshal([]byte(`{"id":null}`), &w))
	assert.False(t, w.ID.IsSome())
}
