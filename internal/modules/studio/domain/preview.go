package domain

import "strings"

// Card geometry in CSS pixels. The raster renderer draws at a multiple.
const (
	CardWidth  = 360
	CardHeight = 210
)

const (
	BrandName    = "Dot LinkMe"
	BrandTagline = "Smart NFC Digital Identity"
	FeatureBadge = "NFC • QR"
	BioFallback  = "This is a preview of your smart identity card. Add a short bio or description here."
)

type AvatarShape string

const (
	AvatarCircle        AvatarShape = "circle"
	AvatarRoundedSquare AvatarShape = "rounded-square"
)

// Avatar is either an image or an icon placeholder.
type Avatar struct {
	ImageURL string      `json:"imageUrl,omitempty"`
	Icon     string      `json:"icon,omitempty"`
	Shape    AvatarShape `json:"shape"`
}

// Placeholders flags which text fields show fallback copy.
type Placeholders struct {
	Name  bool `json:"name"`
	Title bool `json:"title"`
	Bio   bool `json:"bio"`
	Image bool `json:"image"`
}

// CardPreview is everything a client needs to draw the live card.
type CardPreview struct {
	ProfileType   ProfileType   `json:"profileType"`
	Template      Template      `json:"template"`
	TemplateLabel string        `json:"templateLabel"`
	DesignMode    DesignMode    `json:"designMode,omitempty"`
	ModeBadge     string        `json:"modeBadge,omitempty"`
	BrandColor    string        `json:"brandColor,omitempty"`
	Badge         string        `json:"badge"`
	Brand         string        `json:"brand"`
	Tagline       string        `json:"tagline"`
	Features      string        `json:"features"`
	Name          string        `json:"name"`
	Title         string        `json:"title"`
	Bio           string        `json:"bio"`
	Placeholders  Placeholders  `json:"placeholders"`
	Avatar        Avatar        `json:"avatar"`
	Style         ResolvedStyle `json:"style"`
	CSS           string        `json:"css"`
	ProfileURL    string        `json:"profileUrl"`
	QRCode        string        `json:"qrCode,omitempty"`
	Copy          CopyAck       `json:"copy"`
	Width         int           `json:"width"`
	Height        int           `json:"height"`
}

// NamePlaceholder is the fallback display name for a profile type.
func NamePlaceholder(t ProfileType) string {
	if t == ProfileBusiness {
		return "Company Name"
	}
	return "Your Name"
}

// TitlePlaceholder is the fallback role line for a profile type.
func TitlePlaceholder(t ProfileType) string {
	if t == ProfileBusiness {
		return "Your industry"
	}
	return "Your role or title"
}

// BuildPreview projects a draft onto the card. The QR code and copy state
// are filled in by the caller. It never fails, even for an empty draft.
func BuildPreview(t ProfileType, d ProfileDraft, template Template, baseURL string) CardPreview {
	style := ResolveDraftStyle(template, d)

	p := CardPreview{
		ProfileType:   t,
		Template:      template,
		TemplateLabel: templateLabel(template),
		DesignMode:    d.DesignMode,
		Badge:         "Personal",
		Brand:         BrandName,
		Tagline:       BrandTagline,
		Features:      FeatureBadge,
		Name:          d.Name,
		Title:         d.Title,
		Bio:           d.Bio,
		Style:         style,
		CSS:           style.CSS(),
		ProfileURL:    ProfileURL(baseURL, d.Name),
		Copy:          CopyAck{State: CopyIdle},
		Width:         CardWidth,
		Height:        CardHeight,
		Avatar: Avatar{
			ImageURL: d.Image,
			Shape:    AvatarCircle,
		},
	}
	if t == ProfileBusiness {
		p.Badge = "Business"
		p.Avatar.Shape = AvatarRoundedSquare
	}

	switch {
	case d.DesignMode == DesignModeAI && d.AIBackground != "":
		p.ModeBadge = "AI"
	case d.DesignMode == DesignModeManual:
		p.ModeBadge = "Manual"
		p.BrandColor = strings.ToUpper(NormalizeColor(d.Color))
	}

	if p.Name == "" {
		p.Name = NamePlaceholder(t)
		p.Placeholders.Name = true
	}
	if p.Title == "" {
		p.Title = TitlePlaceholder(t)
		p.Placeholders.Title = true
	}
	if p.Bio == "" {
		p.Bio = BioFallback
		p.Placeholders.Bio = true
	}
	if d.Image == "" {
		p.Placeholders.Image = true
		p.Avatar.Icon = "👤"
		if t == ProfileBusiness {
			p.Avatar.Icon = "🏢"
		}
	}
	return p
}

func templateLabel(t Template) string {
	if t == "" {
		return "Modern"
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}
