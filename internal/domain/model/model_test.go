package model_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/techxplorers/portfolio/internal/domain/model"
)

func TestSplitTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  []model.TitleSegment
	}{
		{
			name:  "no markers",
			title: "Exam Support.",
			want:  []model.TitleSegment{{Text: "Exam Support."}},
		},
		{
			name:  "newline marker",
			title: "THE SMART \n RESUME.",
			want: []model.TitleSegment{
				{Text: "THE SMART"},
				{Break: true},
				{Text: "RESUME."},
			},
		},
		{
			name:  "br tag variants",
			title: "Digital<br/>Marketing<BR>Today",
			want: []model.TitleSegment{
				{Text: "Digital"},
				{Break: true},
				{Text: "Marketing"},
				{Break: true},
				{Text: "Today"},
			},
		},
		{
			name:  "leading trailing and repeated breaks collapse",
			title: "\nJob\n\n Applications.\n",
			want: []model.TitleSegment{
				{Text: "Job"},
				{Break: true},
				{Text: "Applications."},
			},
		},
		{
			name:  "markup is not interpreted",
			title: "<b>Bold</b>",
			want:  []model.TitleSegment{{Text: "<b>Bold</b>"}},
		},
		{
			name:  "empty",
			title: "",
			want:  []model.TitleSegment{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.SplitTitle(tt.title))
		})
	}
}

func TestPlainTitle(t *testing.T) {
	assert.Equal(t, "Software Development.", model.PlainTitle("Software \n Development."))
	assert.Equal(t, "", model.PlainTitle(""))
}

func TestResolveIcon(t *testing.T) {
	assert.Equal(t, model.IconStar, model.ResolveIcon("Star"))
	assert.Equal(t, model.IconTerminal, model.ResolveIcon("Terminal"))
	assert.Equal(t, model.IconFallback, model.ResolveIcon("NoSuchIcon"))
	assert.Equal(t, model.IconFallback, model.ResolveIcon(""))
	assert.Equal(t, model.IconFallback, model.ResolveIcon("HelpCircle"), "fallback is not addressable by name")
	assert.Equal(t, model.IconFallback, model.ResolveIcon("star"), "names are case sensitive")
}

func TestIcon_NameAndGlyph(t *testing.T) {
	for _, icon := range model.SelectableIcons() {
		assert.Equal(t, icon, model.ResolveIcon(icon.Name()), "icon %d must round-trip through its name", icon)
		assert.NotEmpty(t, icon.Glyph())
	}
	assert.Len(t, model.SelectableIcons(), 18)
	assert.Equal(t, "HelpCircle", model.IconFallback.Name())
	assert.Equal(t, model.IconFallback.Glyph(), model.Icon(999).Glyph())
}

func TestCategory(t *testing.T) {
	assert.True(t, model.CategoryIdentity.Valid())
	assert.True(t, model.CategoryEngineering.Valid())
	assert.False(t, model.Category("marketing").Valid())
	assert.False(t, model.CategoryOther.Valid())
	assert.Equal(t, []model.Category{model.CategoryIdentity, model.CategoryEngineering}, model.Categories())
}

func TestParseCategoryPolicy(t *testing.T) {
	p, ok := model.ParseCategoryPolicy(" Reject ")
	assert.True(t, ok)
	assert.Equal(t, model.CategoryPolicyReject, p)

	p, ok = model.ParseCategoryPolicy("other")
	assert.True(t, ok)
	assert.Equal(t, model.CategoryPolicyOther, p)

	_, ok = model.ParseCategoryPolicy("bucket")
	assert.False(t, ok)
}

func TestValidationError(t *testing.T) {
	verr := &model.ValidationError{}
	assert.True(t, verr.Empty())

	verr.Add("title", "title is required")
	verr.Add("description", "description is required")

	var err error = fmt.Errorf("create service: %w", verr)
	assert.True(t, errors.Is(err, model.ErrValidation))
	assert.Equal(t, "validation failed: description is required; title is required", verr.Error())

	var target *model.ValidationError
	assert.True(t, errors.As(err, &target))
	assert.Len(t, target.Fields, 2)
}

func TestAuthError(t *testing.T) {
	err := fmt.Errorf("login: %w", &model.AuthError{Reason: "invalid email or password"})
	assert.True(t, errors.Is(err, model.ErrAuthFailed))
	assert.Contains(t, err.Error(), "failed to log in: invalid email or password")
}
