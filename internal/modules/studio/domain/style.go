package domain

import (
	"fmt"
	"strings"
)

// TextColorClass is the contrast class used for all text on the card.
type TextColorClass string

const (
	TextWhite    TextColorClass = "white"
	TextDarkGray TextColorClass = "dark-gray"
)

// CSSClass maps the contrast class to its utility class.
func (c TextColorClass) CSSClass() string {
	if c == TextDarkGray {
		return "text-gray-800"
	}
	return "text-white"
}

// StyleSource reports which resolution branch produced a style.
type StyleSource string

const (
	SourceAI      StyleSource = "ai"
	SourceManual  StyleSource = "manual"
	SourceDefault StyleSource = "default"
)

type BackgroundKind string

const (
	BackgroundSolid    BackgroundKind = "solid"
	BackgroundGradient BackgroundKind = "linear-gradient"
	BackgroundImage    BackgroundKind = "image"
)

// ColorStop is a gradient stop. Color may carry a hex alpha suffix.
type ColorStop struct {
	Color    string `json:"color"`
	Position int    `json:"position"`
}

// Background is the card's fill.
type Background struct {
	Kind      BackgroundKind `json:"kind"`
	Color     string         `json:"color,omitempty"`
	Direction string         `json:"direction,omitempty"`
	Stops     []ColorStop    `json:"stops,omitempty"`
	ImageURL  string         `json:"imageUrl,omitempty"`
	Size      string         `json:"size,omitempty"`
	Position  string         `json:"position,omitempty"`
}

// CSS renders the background as a CSS value.
func (b Background) CSS() string {
	switch b.Kind {
	case BackgroundSolid:
		return b.Color
	case BackgroundImage:
		return fmt.Sprintf("url(%s) %s / %s no-repeat", b.ImageURL, b.Position, b.Size)
	default:
		return linearGradient(b.Direction, b.Stops)
	}
}

// Overlay is the gradient layered above the background.
type Overlay struct {
	Class     string      `json:"class"`
	Direction string      `json:"direction"`
	Stops     []ColorStop `json:"stops"`
}

// ResolvedStyle is the render-ready projection of a draft's style inputs.
type ResolvedStyle struct {
	Source      StyleSource    `json:"source"`
	Template    Template       `json:"template,omitempty"`
	Background  Background     `json:"background"`
	BoxShadow   string         `json:"boxShadow,omitempty"`
	TextColor   TextColorClass `json:"textColor"`
	TextClass   string         `json:"textClass"`
	Overlay     *Overlay       `json:"overlay"`
	BorderColor string         `json:"borderColor,omitempty"`
	GlowColor   string         `json:"glowColor,omitempty"`
	BlurSurface bool           `json:"blurSurface"`
	BlurRadius  int            `json:"blurRadius,omitempty"`
	ClassName   string         `json:"className,omitempty"`
}

// CSS renders the inline declarations a web client applies to the card.
func (s ResolvedStyle) CSS() string {
	var decl []string
	switch s.Background.Kind {
	case BackgroundSolid:
		decl = append(decl, "background-color: "+s.Background.CSS())
	case BackgroundImage:
		decl = append(decl,
			"background-image: url("+s.Background.ImageURL+")",
			"background-size: "+s.Background.Size,
			"background-position: "+s.Background.Position)
	default:
		decl = append(decl, "background: "+s.Background.CSS())
	}
	if s.BoxShadow != "" {
		decl = append(decl, "box-shadow: "+s.BoxShadow)
	}
	if s.BorderColor != "" {
		decl = append(decl, "border-color: "+s.BorderColor)
	}
	if s.BlurSurface {
		blur := fmt.Sprintf("blur(%dpx)", s.BlurRadius)
		decl = append(decl, "backdrop-filter: "+blur, "-webkit-backdrop-filter: "+blur)
	}
	return strings.Join(decl, "; ")
}

const diagonal = "135deg"

// ResolveStyle maps a template, design mode and the active style input to
// a concrete card style. It never fails: unknown templates render as modern
// and malformed colors as DefaultColor.
func ResolveStyle(template Template, mode DesignMode, color, aiBackground string) ResolvedStyle {
	s := resolve(template, mode, color, aiBackground)
	s.TextClass = s.TextColor.CSSClass()
	return s
}

func resolve(template Template, mode DesignMode, color, aiBackground string) ResolvedStyle {
	if mode == DesignModeAI && aiBackground != "" {
		return ResolvedStyle{
			Source:   SourceAI,
			Template: template,
			Background: Background{
				Kind:     BackgroundImage,
				ImageURL: aiBackground,
				Size:     "cover",
				Position: "center",
			},
			TextColor: TextWhite,
			Overlay:   overlay("from-black/40 to-black/20", tw("black", 40), tw("black", 20)),
		}
	}

	if mode == DesignModeManual {
		return resolveManual(template, NormalizeColor(color))
	}

	return ResolvedStyle{
		Source:   SourceDefault,
		Template: template,
		Background: Background{
			Kind:      BackgroundGradient,
			Direction: "to bottom right",
			Stops: []ColorStop{
				{Color: WithAlpha(DefaultColor, tailwindAlpha(90)), Position: 0},
				{Color: "#0b0f19", Position: 50},
				{Color: "#16203a", Position: 100},
			},
		},
		TextColor: TextWhite,
		Overlay:   overlay("from-black/10 to-transparent", tw("black", 10), transparent),
		ClassName: "bg-gradient-to-br from-brand-primary/90 via-[#0B0F19] to-[#16203A]",
	}
}

// ResolveDraftStyle resolves the style for a draft under a template.
func ResolveDraftStyle(template Template, d ProfileDraft) ResolvedStyle {
	return ResolveStyle(template, d.DesignMode, d.Color, d.AIBackground)
}

func resolveManual(template Template, c string) ResolvedStyle {
	s := ResolvedStyle{Source: SourceManual, Template: template, TextColor: TextWhite}

	switch template {
	case TemplateGradient:
		s.Background = gradient(diagonal, stop(c, 0), stop(AdjustBrightness(c, -30), 100))
		s.Overlay = overlay("from-black/10 to-transparent", tw("black", 10), transparent)
	case TemplateGlass:
		s.Background = gradient(diagonal, stop(c+"15", 0), stop(c+"05", 100))
		s.TextColor = TextDarkGray
		s.BorderColor = c + "40"
		s.BlurSurface = true
		s.BlurRadius = 20
		s.ClassName = "border-2 backdrop-blur-xl"
	case TemplateDark:
		s.Background = gradient(diagonal, stop("#0a0a0a", 0), stop("#1a1a2e", 50), stop(c+"20", 100))
		s.Overlay = overlay("from-transparent via-black/20 to-transparent", transparent, tw("black", 20), transparent)
	case TemplateNeon:
		s.Background = gradient(diagonal, stop("#000000", 0), stop("#1a1a2e", 100))
		s.BoxShadow = fmt.Sprintf("0 0 30px %s40, inset 0 0 50px %s10", c, c)
		s.BorderColor = c
		s.GlowColor = c
		s.ClassName = "border-2"
	case TemplateElegant:
		s.Background = gradient("to bottom right",
			stop(c, 0), stop(AdjustBrightness(c, -20), 50), stop(AdjustBrightness(c, 10), 100))
		s.Overlay = overlay("from-white/5 to-transparent", tw("white", 5), transparent)
	default:
		s.Background = Background{Kind: BackgroundSolid, Color: c}
		s.Overlay = overlay("from-black/5 to-transparent", tw("black", 5), transparent)
	}
	return s
}

const transparent = "#00000000"

// tw converts a utility-style "color/percent" to "#rrggbbaa".
func tw(name string, percent int) string {
	base := "#000000"
	if name == "white" {
		base = "#ffffff"
	}
	return base + tailwindAlpha(percent)
}

func tailwindAlpha(percent int) string {
	return fmt.Sprintf("%02x", int(roundHalfUp(float64(percent)*255/100)))
}

func stop(c string, pos int) ColorStop {
	return ColorStop{Color: c, Position: pos}
}

func gradient(direction string, stops ...ColorStop) Background {
	return Background{Kind: BackgroundGradient, Direction: direction, Stops: stops}
}

// overlay spreads the colors evenly from the top-left to the bottom-right.
func overlay(class string, colors ...string) *Overlay {
	o := &Overlay{Class: class, Direction: "to bottom right"}
	for i, c := range colors {
		pos := 0
		if len(colors) > 1 {
			pos = i * 100 / (len(colors) - 1)
		}
		o.Stops = append(o.Stops, stop(c, pos))
	}
	return o
}

func linearGradient(direction string, stops []ColorStop) string {
	parts := make([]string, 0, len(stops)+1)
	parts = append(parts, direction)
	for _, s := range stops {
		parts = append(parts, fmt.Sprintf("%s %d%%", s.Color, s.Position))
	}
	return "linear-gradient(" + strings.Join(parts, ", ") + ")"
}
