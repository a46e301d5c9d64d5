package domain

import "strings"

// ProfileType selects which of the two drafts a session is editing.
type ProfileType string

const (
	ProfilePersonal ProfileType = "personal"
	ProfileBusiness ProfileType = "business"
)

// ProfileTypes lists the profile types in display order.
var ProfileTypes = []ProfileType{ProfilePersonal, ProfileBusiness}

// ParseProfileType validates a raw profile type.
func ParseProfileType(s string) (ProfileType, error) {
	switch ProfileType(strings.ToLower(strings.TrimSpace(s))) {
	case ProfilePersonal:
		return ProfilePersonal, nil
	case ProfileBusiness:
		return ProfileBusiness, nil
	}
	return "", ErrInvalidProfileType
}

// DesignMode chooses between user-picked colors and an AI background.
type DesignMode string

const (
	DesignModeUnset  DesignMode = ""
	DesignModeManual DesignMode = "manual"
	DesignModeAI     DesignMode = "ai"
)

// DefaultColor is the LinkMe brand blue.
const DefaultColor = "#2563eb"

// ProfileDraft is the in-progress, unsaved state of one profile.
type ProfileDraft struct {
	Name            string            `json:"name"`
	Title           string            `json:"title"`
	Bio             string            `json:"bio"`
	Image           string            `json:"image,omitempty"`
	ImageKey        string            `json:"imageKey,omitempty"`
	AIGeneratedLogo bool              `json:"aiGeneratedLogo"`
	DesignMode      DesignMode        `json:"designMode,omitempty"`
	Color           string            `json:"color"`
	AIPrompt        string            `json:"aiPrompt,omitempty"`
	AIBackground    string            `json:"aiBackground,omitempty"`
	SocialLinks     map[string]string `json:"socialLinks"`
	FirstName       string            `json:"firstName,omitempty"`
	SecondName      string            `json:"secondName,omitempty"`
	LastName        string            `json:"lastName,omitempty"`
}

// NewDraft returns an empty draft with the brand color preselected.
func NewDraft() ProfileDraft {
	return ProfileDraft{
		Color:       DefaultColor,
		SocialLinks: map[string]string{},
	}
}

// ProfilePatch is a partial update. Nil fields are left untouched.
type ProfilePatch struct {
	Name            *string     `json:"name,omitempty" validate:"omitempty,max=120"`
	Title           *string     `json:"title,omitempty" validate:"omitempty,max=120"`
	Bio             *string     `json:"bio,omitempty" validate:"omitempty,max=600"`
	Image           *string     `json:"image,omitempty"`
	AIGeneratedLogo *bool       `json:"aiGeneratedLogo,omitempty"`
	DesignMode      *DesignMode `json:"designMode,omitempty" validate:"omitempty,oneof=manual ai"`
	Color           *string     `json:"color,omitempty"`
	AIPrompt        *string     `json:"aiPrompt,omitempty" validate:"omitempty,max=500"`
	AIBackground    *string     `json:"aiBackground,omitempty"`
	FirstName       *string     `json:"firstName,omitempty"`
	SecondName      *string     `json:"secondName,omitempty"`
	LastName        *string     `json:"lastName,omitempty"`
}

// Apply shallow-merges the patch into the draft. It performs no validation
// and returns the image key that the patch superseded, if any.
func (d *ProfileDraft) Apply(p ProfilePatch) (released string) {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.Bio != nil {
		d.Bio = *p.Bio
	}
	if p.Image != nil && *p.Image != d.Image {
		// a remote URL replaces the locally held preview blob
		released = d.ImageKey
		d.ImageKey = ""
		d.Image = *p.Image
	}
	if p.AIGeneratedLogo != nil {
		d.AIGeneratedLogo = *p.AIGeneratedLogo
	}
	if p.DesignMode != nil {
		d.DesignMode = *p.DesignMode
	}
	if p.Color != nil {
		d.Color = *p.Color
	}
	if p.AIPrompt != nil {
		d.AIPrompt = *p.AIPrompt
	}
	if p.AIBackground != nil {
		d.AIBackground = *p.AIBackground
	}
	if p.FirstName != nil {
		d.FirstName = *p.FirstName
	}
	if p.SecondName != nil {
		d.SecondName = *p.SecondName
	}
	if p.LastName != nil {
		d.LastName = *p.LastName
	}
	return released
}

// SetSocialLink upserts a single social link value.
func (d *ProfileDraft) SetSocialLink(key, value string) {
	if d.SocialLinks == nil {
		d.SocialLinks = map[string]string{}
	}
	d.SocialLinks[key] = value
}

// AttachImage points the draft at a new preview blob and returns the key
// of the blob it replaced.
func (d *ProfileDraft) AttachImage(url, key string, aiGenerated bool) (released string) {
	released = d.ImageKey
	d.Image = url
	d.ImageKey = key
	d.AIGeneratedLogo = aiGenerated
	return released
}

// ClearImage removes the image and returns the key of the released blob.
func (d *ProfileDraft) ClearImage() (released string) {
	released = d.ImageKey
	d.Image = ""
	d.ImageKey = ""
	d.AIGeneratedLogo = false
	return released
}

// Clone returns a deep copy of the draft.
func (d ProfileDraft) Clone() ProfileDraft {
	links := make(map[string]string, len(d.SocialLinks))
	for k, v := range d.SocialLinks {
		links[k] = v
	}
	d.SocialLinks = links
	return d
}

// Ptr is a small helper for building patches.
func Ptr[T any](v T) *T {
	return &v
}
