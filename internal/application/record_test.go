package application_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/techxplorers/portfolio/internal/application"
	"github.com/techxplorers/portfolio/internal/domain/model"
)

func validForm() model.ServiceForm {
	return model.ServiceForm{
		Title:       "Software \n Development.",
		Description: "Custom-priced development.",
		Price:       "Custom",
		Category:    "engineering",
		Features:    "Scalable Solutions, Secure Architecture , , Mobile First",
		Icon:        "Terminal",
	}
}

func TestNormalizeForSave_SplitsFeatures(t *testing.T) {
	record, err := application.NormalizeForSave(validForm(), model.CategoryPolicyReject)

	require.NoError(t, err)
	assert.Equal(t, []string{"Scalable Solutions", "Secure Architecture", "Mobile First"}, record.Features)
	assert.Equal(t, model.CategoryEngineering, record.Category)
	assert.Empty(t, record.ID, "the client never assigns ids")
}

func TestNormalizeForSave_EmptyFeatureTextIsEmptyList(t *testing.T) {
	form := validForm()
	form.Features = "  ,  "

	record, err := application.NormalizeForSave(form, model.CategoryPolicyReject)

	require.NoError(t, err)
	assert.NotNil(t, record.Features)
	assert.Empty(t, record.Features)
}

func TestNormalizeForSave_ListPassesThrough(t *testing.T) {
	form := validForm()
	form.FeatureList = []string{"ATS Friendly", "Modern Layout"}

	first, err := application.NormalizeForSave(form, model.CategoryPolicyReject)
	require.NoError(t, err)

	form.FeatureList = first.Features
	second, err := application.NormalizeForSave(form, model.CategoryPolicyReject)
	require.NoError(t, err)

	assert.Equal(t, []string{"ATS Friendly", "Modern Layout"}, second.Features)
	assert.Equal(t, first.Features, second.Features)
}

func TestNormalizeForSave_ListIsCopiedAsIs(t *testing.T) {
	form := validForm()
	form.Features = "ignored, text"
	form.FeatureList = []string{" PMP ", "", "AWS"}

	record, err := application.NormalizeForSave(form, model.CategoryPolicyReject)
	require.NoError(t, err)

	assert.Equal(t, []string{" PMP ", "", "AWS"}, record.Features)

	form.FeatureList[0] = "changed"
	assert.Equal(t, " PMP ", record.Features[0], "record must not alias the form's slice")
}

func TestNormalizeForSave_TrimsOptionalFields(t *testing.T) {
	form := validForm()
	form.Price = "   "
	form.ImagePath = " resume.png "

	record, err := application.NormalizeForSave(form, model.CategoryPolicyReject)

	require.NoError(t, err)
	assert.False(t, record.HasPrice())
	assert.Equal(t, "resume.png", record.ImagePath)
}

func TestNormalizeForSave_RequiredFields(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(f *model.ServiceForm)
		wantFields []string
	}{
		{name: "blank title", mutate: func(f *model.ServiceForm) { f.Title = "  \n " }, wantFields: []string{"title"}},
		{name: "blank description", mutate: func(f *model.ServiceForm) { f.Description = "" }, wantFields: []string{"description"}},
		{name: "missing category", mutate: func(f *model.ServiceForm) { f.Category = "" }, wantFields: []string{"category"}},
		{
			name: "everything missing",
			mutate: func(f *model.ServiceForm) {
				*f = model.ServiceForm{}
			},
			wantFields: []string{"title", "description", "category"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)

			_, err := application.NormalizeForSave(form, model.CategoryPolicyReject)

			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrValidation))
			var verr *model.ValidationError
			require.True(t, errors.As(err, &verr))
			for _, field := range tt.wantFields {
				assert.Contains(t, verr.Fields, field)
			}
			assert.Len(t, verr.Fields, len(tt.wantFields))
		})
	}
}

func TestNormalizeForSave_HighlightDoesNotGateValidation(t *testing.T) {
	for _, highlight := range []bool{true, false} {
		form := validForm()
		form.Highlight = highlight
		_, err := application.NormalizeForSave(form, model.CategoryPolicyReject)
		assert.NoError(t, err, "highlight=%v", highlight)

		form.Title = ""
		_, err = application.NormalizeForSave(form, model.CategoryPolicyReject)
		assert.ErrorIs(t, err, model.ErrValidation, "highlight=%v", highlight)
	}
}

func TestNormalizeForSave_UnknownCategoryPolicy(t *testing.T) {
	form := validForm()
	form.Category = "marketing"

	_, err := application.NormalizeForSave(form, model.CategoryPolicyReject)
	assert.ErrorIs(t, err, model.ErrValidation)

	record, err := application.NormalizeForSave(form, model.CategoryPolicyOther)
	require.NoError(t, err)
	assert.Equal(t, model.Category("marketing"), record.Category)
}

func TestDenormalizeForEdit(t *testing.T) {
	record := model.ServiceRecord{
		ID:          "-Nabc",
		Title:       "Exam \n Support.",
		Description: "Preparation for professional certifications.",
		Price:       "Custom",
		Category:    model.CategoryEngineering,
		Features:    []string{"PMP & AWS Certified", "CISA & CISM Prep", "CompTIA Security+"},
		Icon:        "Award",
		Highlight:   true,
	}

	form := application.DenormalizeForEdit(record)

	assert.Equal(t, "PMP & AWS Certified, CISA & CISM Prep, CompTIA Security+", form.Features)
	assert.Nil(t, form.FeatureList)
	assert.Equal(t, "engineering", form.Category)
	assert.True(t, form.Highlight)
	assert.Equal(t, record.Title, form.Title)
}

// featureGen draws a non-empty feature with no commas and no surrounding
// whitespace.
var featureGen = rapid.StringMatching(`[A-Za-z0-9&+#.]([A-Za-z0-9&+#. ]{0,18}[A-Za-z0-9&+#.])?`)

func TestRoundTrip_NormalizeDenormalize(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		features := rapid.SliceOf(featureGen).Draw(t, "features")

		stored := model.ServiceRecord{
			Title:       "t",
			Description: "d",
			Category:    model.CategoryIdentity,
			Features:    features,
		}

		record, err := application.NormalizeForSave(application.DenormalizeForEdit(stored), model.CategoryPolicyReject)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(features) == 0 {
			if len(record.Features) != 0 {
				t.Fatalf("expected empty features, got %v", record.Features)
			}
			return
		}
		assert.Equal(t, features, record.Features)
	})
}

func TestRoundTrip_DenormalizeReproducesText(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		features := rapid.SliceOfN(featureGen, 1, 8).Draw(t, "features")
		text := model.JoinFeatures(features)

		form := validForm()
		form.Features = text
		record, err := application.NormalizeForSave(form, model.CategoryPolicyReject)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := application.DenormalizeForEdit(record).Features; got != text {
			t.Fatalf("round trip changed text: %q -> %q", text, got)
		}
	})
}
