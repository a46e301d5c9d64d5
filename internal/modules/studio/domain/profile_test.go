package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileDraft_ApplyIsShallowMerge(t *testing.T) {
	d := NewDraft()
	d.Apply(ProfilePatch{Name: Ptr("y")})
	d.Apply(ProfilePatch{Title: Ptr("x")})

	assert.Equal(t, "y", d.Name)
	assert.Equal(t, "x", d.Title)
	assert.Equal(t, DefaultColor, d.Color)
}

func TestProfileDraft_ApplyEmptyPatch(t *testing.T) {
	d := NewDraft()
	d.Apply(ProfilePatch{Name: Ptr("Hala"), DesignMode: Ptr(DesignModeManual), Color: Ptr("#9333ea")})
	before := d.Clone()

	d.Apply(ProfilePatch{})
	assert.Equal(t, before, d)
}

func TestProfileDraft_ApplyCanClearField(t *testing.T) {
	d := NewDraft()
	d.Apply(ProfilePatch{Bio: Ptr("hello")})
	d.Apply(ProfilePatch{Bio: Ptr("")})
	assert.Empty(t, d.Bio)
}

func TestProfileDraft_RemoteImageReleasesLocalHandle(t *testing.T) {
	d := NewDraft()
	released := d.AttachImage("http://localhost:8080/uploads/previews/a.jpg", "previews/a.jpg", false)
	assert.Empty(t, released)

	released = d.Apply(ProfilePatch{Image: Ptr("https://cdn.example.com/logo.png")})
	assert.Equal(t, "previews/a.jpg", released)
	assert.Empty(t, d.ImageKey)
	assert.Equal(t, "https://cdn.example.com/logo.png", d.Image)

	assert.Empty(t, d.Apply(ProfilePatch{Image: Ptr("https://cdn.example.com/logo.png")}))
}

func TestProfileDraft_AttachImageReturnsPrevious(t *testing.T) {
	d := NewDraft()
	d.AttachImage("u1", "k1", false)
	released := d.AttachImage("u2", "k2", true)

	assert.Equal(t, "k1", released)
	assert.Equal(t, "u2", d.Image)
	assert.True(t, d.AIGeneratedLogo)

	assert.Equal(t, "k2", d.ClearImage())
	assert.Empty(t, d.Image)
	assert.False(t, d.AIGeneratedLogo)
}

func TestProfileDraft_SetSocialLink(t *testing.T) {
	var d ProfileDraft
	d.SetSocialLink("github", "github.com/hala")
	d.SetSocialLink("github", "github.com/hala2")
	d.SetSocialLink("email", "h@example.com")

	assert.Equal(t, map[string]string{"github": "github.com/hala2", "email": "h@example.com"}, d.SocialLinks)
}

func TestProfileDraft_CloneIsDeep(t *testing.T) {
	d := NewDraft()
	d.SetSocialLink("website", "a.com")
	c := d.Clone()
	c.SetSocialLink("website", "b.com")
	assert.Equal(t, "a.com", d.SocialLinks["website"])
}

func TestParseProfileType(t *testing.T) {
	pt, err := ParseProfileType("Business")
	require.NoError(t, err)
	assert.Equal(t, ProfileBusiness, pt)

	_, err = ParseProfileType("team")
	assert.ErrorIs(t, err, ErrInvalidProfileType)
}

func TestParseTemplate(t *testing.T) {
	tmpl, err := ParseTemplate(" NEON ")
	require.NoError(t, err)
	assert.Equal(t, TemplateNeon, tmpl)

	tmpl, err = ParseTemplate("")
	require.NoError(t, err)
	assert.Empty(t, tmpl)

	_, err = ParseTemplate("retro")
	assert.ErrorIs(t, err, ErrInvalidTemplate)
}

func TestSession_Drafts(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := NewSession("", now)

	assert.Equal(t, ProfilePersonal, s.ActiveType)
	assert.Equal(t, TemplateModern, s.Template)

	p, err := s.Draft(ProfilePersonal)
	require.NoError(t, err)
	p.Apply(ProfilePatch{Name: Ptr("Hala")})

	b, err := s.Draft(ProfileBusiness)
	require.NoError(t, err)
	b.AttachImage("u", "previews/b.jpg", false)

	assert.Equal(t, "Hala", s.Personal.Name)
	assert.Empty(t, s.Business.Name)
	assert.Equal(t, []string{"previews/b.jpg"}, s.ImageKeys())

	_, err = s.Draft("team")
	assert.ErrorIs(t, err, ErrInvalidProfileType)
}

func TestNewSubmission(t *testing.T) {
	d := NewDraft()
	d.Apply(ProfilePatch{
		Name:       Ptr(" Hala Al-Issawi "),
		DesignMode: Ptr(DesignModeManual),
		Color:      Ptr("#9333EA"),
		AIPrompt:   Ptr("stale prompt"),
	})
	d.SetSocialLink("phone", "791234567")
	d.SetSocialLink("phone_code", "+962")
	d.AttachImage("http://localhost:8080/uploads/previews/x.jpg", "previews/x.jpg", false)

	sub := NewSubmission(ProfilePersonal, TemplateGlass, d)

	assert.Equal(t, "Hala Al-Issawi", sub.Name)
	assert.Equal(t, "hala-al-issawi", sub.Slug)
	assert.Equal(t, "#9333ea", sub.Color)
	assert.Equal(t, TemplateGlass, sub.Template)
	assert.Empty(t, sub.Image, "local handles are uploaded, not referenced")
	assert.Equal(t, []SocialLink{{Platform: PlatformPhone, URL: "+962 791234567"}}, sub.SocialLinks)
}

func TestValidationErrors_Error(t *testing.T) {
	err := ValidationErrors{{Field: "name", Message: "is required"}, {Field: "bio", Message: "is too long"}}
	assert.Equal(t, "name is required, bio is too long", err.Error())
}
