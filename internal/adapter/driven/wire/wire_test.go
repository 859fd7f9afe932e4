package wire_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techxplorers/portfolio/internal/adapter/driven/wire"
	"github.com/techxplorers/portfolio/internal/domain/model"
)

func TestEncode_WritesEveryField(t *testing.T) {
	data, err := wire.Encode(model.ServiceRecord{
		ID:          "ignored",
		Title:       "ONLINE \n PORTFOLIO.",
		Description: "A personalized professional website.",
		Category:    model.CategoryIdentity,
		Icon:        "Globe",
	})
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))

	assert.NotContains(t, fields, "id")
	assert.Equal(t, "", fields["price"], "cleared price must be written so merges overwrite it")
	assert.Equal(t, "", fields["imagePath"])
	assert.Equal(t, []any{}, fields["features"], "features at rest are always a list")
	assert.Equal(t, false, fields["highlight"])
}

func TestDecodeCollection_Empty(t *testing.T) {
	for _, raw := range []string{"", "null", "  null\n", "{}"} {
		records, skipped, err := wire.DecodeCollection([]byte(raw))
		require.NoError(t, err, "input %q", raw)
		assert.Empty(t, skipped)
		assert.NotNil(t, records)
		assert.Empty(t, records)
	}
}

func TestDecodeCollection_KeyedObject(t *testing.T) {
	raw := `{
		"-Nb2": {"title": "Exam \n Support.", "description": "d2", "category": "engineering", "features": ["PMP & AWS Certified"], "icon": "Award", "highlight": true},
		"-Na1": {"title": "THE SMART \n RESUME.", "description": "d1", "price": "$30", "category": "identity", "features": ["ATS Friendly", "Modern Layout"], "icon": "FileText", "imagePath": "resume.png"}
	}`

	records, skipped, err := wire.DecodeCollection([]byte(raw))
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, records, 2)

	assert.Equal(t, "-Na1", records[0].ID)
	assert.Equal(t, "$30", records[0].Price)
	assert.Equal(t, model.CategoryIdentity, records[0].Category)
	assert.Equal(t, []string{"ATS Friendly", "Modern Layout"}, records[0].Features)
	assert.Equal(t, "resume.png", records[0].ImagePath)

	assert.Equal(t, "-Nb2", records[1].ID)
	assert.True(t, records[1].Highlight)
	assert.Equal(t, "", records[1].Price)
}

func TestDecodeCollection_ArrayWithHoles(t *testing.T) {
	raw := `[null, {"title": "a", "description": "b", "category": "identity"}, null, {"title": "c", "description": "d", "category": "engineering"}]`

	records, _, err := wire.DecodeCollection([]byte(raw))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "1", records[0].ID)
	assert.Equal(t, "3", records[1].ID)
}

func TestDecodeCollection_Malformed(t *testing.T) {
	_, _, err := wire.DecodeCollection([]byte(`{"x": `))
	assert.Error(t, err)

	_, _, err = wire.DecodeCollection([]byte(`"not a collection"`))
	assert.Error(t, err)
}

func TestDecodeCollection_SkipsBadEntries(t *testing.T) {
	raw := `{"bad": 42, "worse": {"features": true}, "ok": {"title": "t", "description": "d", "category": "identity"}}`

	records, skipped, err := wire.DecodeCollection([]byte(raw))

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ok", records[0].ID)
	assert.Equal(t, []string{"bad", "worse"}, skipped)
}

func TestFeatureList_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "list", raw: `["a", "b"]`, want: []string{"a", "b"}},
		{name: "raw form string", raw: `" SEO & ADS , Content Strategy,, "`, want: []string{"SEO & ADS", "Content Strategy"}},
		{name: "index object", raw: `{"1": "second", "0": "first", "10": "eleventh"}`, want: []string{"first", "second", "eleventh"}},
		{name: "null", raw: `null`, want: []string{}},
		{name: "list with nulls", raw: `["a", null, "c"]`, want: []string{"a", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f wire.FeatureList
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &f))
			assert.Equal(t, tt.want, []string(f))
		})
	}
}

func TestFeatureList_RejectsNonIndexKeys(t *testing.T) {
	var f wire.FeatureList
	assert.Error(t, json.Unmarshal([]byte(`{"x": "y"}`), &f))
}

func TestPayload_RoundTrip(t *testing.T) {
	in := model.ServiceRecord{
		ID:          "-Nz",
		Title:       "Job \n Applications.",
		Description: "Frees up your time.",
		Price:       "Contact Us",
		Category:    model.CategoryIdentity,
		Features:    []string{"Multiple Portal Setup", "Daily Applications"},
		Icon:        "Star",
		Highlight:   true,
		ImagePath:   "jobs.png",
	}

	data, err := wire.Encode(in)
	require.NoError(t, err)

	out, err := wire.DecodeRecord("-Nz", data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
