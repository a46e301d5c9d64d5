package domain

import (
	"fmt"
	"strings"
)

// Submission is the payload sent to the profile backend.
type Submission struct {
	ProfileType     ProfileType  `json:"profileType" validate:"required,oneof=personal business"`
	Template        Template     `json:"template"`
	Slug            string       `json:"slug"`
	Name            string       `json:"name" validate:"required,max=120"`
	Title           string       `json:"title" validate:"max=120"`
	Bio             string       `json:"bio" validate:"max=600"`
	Image           string       `json:"image,omitempty"`
	AIGeneratedLogo bool         `json:"aiGeneratedLogo"`
	DesignMode      DesignMode   `json:"designMode,omitempty"`
	Color           string       `json:"color,omitempty"`
	AIPrompt        string       `json:"aiPrompt,omitempty"`
	AIBackground    string       `json:"aiBackground,omitempty"`
	FirstName       string       `json:"firstName,omitempty"`
	SecondName      string       `json:"secondName,omitempty"`
	LastName        string       `json:"lastName,omitempty"`
	SocialLinks     []SocialLink `json:"socialLinks"`
}

// NewSubmission flattens a draft into the backend payload. The local image
// handle is not part of the payload; the blob is sent alongside it.
func NewSubmission(t ProfileType, template Template, d ProfileDraft) Submission {
	sub := Submission{
		ProfileType:     t,
		Template:        template,
		Slug:            Slugify(d.Name),
		Name:            strings.TrimSpace(d.Name),
		Title:           strings.TrimSpace(d.Title),
		Bio:             strings.TrimSpace(d.Bio),
		AIGeneratedLogo: d.AIGeneratedLogo,
		DesignMode:      d.DesignMode,
		AIPrompt:        d.AIPrompt,
		AIBackground:    d.AIBackground,
		FirstName:       d.FirstName,
		SecondName:      d.SecondName,
		LastName:        d.LastName,
		SocialLinks:     FlattenSocialLinks(d.SocialLinks),
	}
	if d.ImageKey == "" {
		sub.Image = d.Image
	}
	if d.DesignMode == DesignModeManual {
		sub.Color = NormalizeColor(d.Color)
	}
	return sub
}

// FieldError is an inline message for one form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// ValidationErrors collects every field that failed validation.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	var s []string
	for _, err := range v {
		s = append(s, err.Error())
	}
	return strings.Join(s, ", ")
}
