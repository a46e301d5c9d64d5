package application

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/linkme/cardstudio/internal/modules/studio/domain"
)

type CreateSessionRequest struct {
	ProfileType domain.ProfileType `json:"profileType" validate:"omitempty,oneof=personal business"`
}

type SetTemplateRequest struct {
	Template string `json:"template" validate:"required"`
}

type SetActiveRequest struct {
	ProfileType string `json:"profileType" validate:"required,oneof=personal business"`
}

type SocialLinkRequest struct {
	Value string `json:"value" validate:"max=500"`
}

type AIBackgroundRequest struct {
	Prompt string `json:"prompt" validate:"max=500"`
}

type AILogoRequest struct {
	URL string `json:"url" validate:"required,http_url"`
}

type ResolveStyleRequest struct {
	Template     string            `json:"template"`
	DesignMode   domain.DesignMode `json:"designMode" validate:"omitempty,oneof=manual ai"`
	Color        string            `json:"color"`
	AIBackground string            `json:"aiBackground"`
}

// FormState is the full state of a creation flow.
type FormState struct {
	ID           uuid.UUID                                       `json:"id"`
	ActiveType   domain.ProfileType                              `json:"activeType"`
	Template     domain.Template                                 `json:"template"`
	Drafts       map[domain.ProfileType]domain.ProfileDraft      `json:"drafts"`
	SocialErrors map[domain.ProfileType]map[domain.Platform]bool `json:"socialErrors"`
	CreatedAt    time.Time                                       `json:"createdAt"`
	UpdatedAt    time.Time                                       `json:"updatedAt"`
}

// DraftView is one draft with its validation flags and live preview.
type DraftView struct {
	SessionID    uuid.UUID                `json:"sessionId"`
	ProfileType  domain.ProfileType       `json:"profileType"`
	Draft        domain.ProfileDraft      `json:"draft"`
	SocialErrors map[domain.Platform]bool `json:"socialErrors"`
	Preview      domain.CardPreview       `json:"preview"`
}

// CopyResult is returned when the profile URL is copied.
type CopyResult struct {
	URL  string         `json:"url"`
	Copy domain.CopyAck `json:"copy"`
}

// SubmitResult wraps the backend's profile record.
type SubmitResult struct {
	Slug    string          `json:"slug"`
	URL     string          `json:"url"`
	Profile json.RawMessage `json:"profile"`
}

// Catalog is the static data a form needs to render its pickers.
type Catalog struct {
	Templates    []domain.TemplateInfo             `json:"templates"`
	Platforms    []domain.PlatformInfo             `json:"platforms"`
	CountryCodes []domain.CountryCode              `json:"countryCodes"`
	ColorPresets []domain.ColorPreset              `json:"colorPresets"`
	Labels       map[domain.ProfileType]FormLabels `json:"labels"`
	DefaultColor string                            `json:"defaultColor"`
}

// FormLabels are the role-appropriate labels of the basic info section.
type FormLabels struct {
	Name             string `json:"name"`
	NamePlaceholder  string `json:"namePlaceholder"`
	Title            string `json:"title"`
	TitlePlaceholder string `json:"titlePlaceholder"`
	Bio              string `json:"bio"`
	BioPlaceholder   string `json:"bioPlaceholder"`
	Image            string `json:"image"`
}

// LiveEvent is pushed over the live channel after every change.
type LiveEvent struct {
	Type        string              `json:"type"`
	SessionID   uuid.UUID           `json:"sessionId"`
	ProfileType domain.ProfileType  `json:"profileType,omitempty"`
	Preview     *domain.CardPreview `json:"preview,omitempty"`
	Copy        *domain.CopyAck     `json:"copy,omitempty"`
}

const (
	EventPreview   = "preview"
	EventCopy      = "copy"
	EventDiscarded = "discarded"
)
