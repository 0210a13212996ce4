package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillOnlyMerge(t *testing.T) {
	r := NewProductRecord()

	assert.True(t, r.Fill(FieldPrice, "515"))
	assert.False(t, r.Fill(FieldPrice, "999"), "set fields must never be overwritten")

	v, ok := r.Get(FieldPrice)
	require.True(t, ok)
	assert.Equal(t, "515", v)
}

func TestFillRejectsEmptyValue(t *testing.T) {
	r := NewProductRecord()

	assert.False(t, r.Fill(FieldTitle, ""))
	assert.False(t, r.Fill(FieldTitle, "   "))
	assert.False(t, r.Has(FieldTitle))
}

func TestMergeFillsOnlyAbsentFields(t *testing.T) {
	r := NewProductRecord()
	r.Fill(FieldTitle, "Blue Moschino dress")
	r.Fill(FieldPrice, "515")

	u := NewProductRecord()
	u.Fill(FieldTitle, "Some other title")
	u.Fill(FieldBrand, "Moschino")
	u.Fill(FieldColor, "Blue")

	filled := r.Merge(u)
	assert.Equal(t, 2, filled)

	title, _ := r.Get(FieldTitle)
	assert.Equal(t, "Blue Moschino dress", title)
	brand, _ := r.Get(FieldBrand)
	assert.Equal(t, "Moschino", brand)
	color, _ := r.Get(FieldColor)
	assert.Equal(t, "Blue", color)
}

func TestDiscardReopensField(t *testing.T) {
	r := NewProductRecord()
	r.Fill(FieldPrice, "0")

	r.Discard(FieldPrice)
	assert.False(t, r.Has(FieldPrice))

	assert.True(t, r.Fill(FieldPrice, "34.99"))
	v, _ := r.Get(FieldPrice)
	assert.Equal(t, "34.99", v)
}

func TestFieldByName(t *testing.T) {
	tests := []struct {
		name  string
		want  Field
		found bool
	}{
		{"TITLE", FieldTitle, true},
		{"title", FieldTitle, true},
		{"  Gender ", FieldGender, true},
		{"Type", FieldType, true},
		{"MATERIAL", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := FieldByName(tt.name)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.want, f)
			}
		})
	}
}

func TestRecordJSONRoundTrip(t *testing.T) {
	r := NewProductRecord()
	r.Fill(FieldTitle, "Blue Moschino dress")
	r.Fill(FieldPrice, "515")

	data, err := json.Marshal(r)
	require.NoError(t, err)

	// Absent fields serialize as explicit nulls.
	var flat map[string]*string
	require.NoError(t, json.Unmarshal(data, &flat))
	assert.Len(t, flat, 6)
	assert.Nil(t, flat["BRAND"])
	require.NotNil(t, flat["TITLE"])
	assert.Equal(t, "Blue Moschino dress", *flat["TITLE"])

	var back ProductRecord
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, 2, back.FilledCount())
	price, _ := back.Get(FieldPrice)
	assert.Equal(t, "515", price)
}
