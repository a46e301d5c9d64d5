package domain

import "strings"

// Template is one of the six visual presets a manual-mode card can use.
type Template string

const (
	TemplateModern   Template = "modern"
	TemplateGradient Template = "gradient"
	TemplateGlass    Template = "glass"
	TemplateDark     Template = "dark"
	TemplateNeon     Template = "neon"
	TemplateElegant  Template = "elegant"
)

// Templates lists every template in picker order.
var Templates = []Template{
	TemplateModern,
	TemplateGradient,
	TemplateGlass,
	TemplateDark,
	TemplateNeon,
	TemplateElegant,
}

// ParseTemplate accepts a known template name. An empty string means
// "not chosen yet" and is valid.
func ParseTemplate(s string) (Template, error) {
	t := Template(strings.ToLower(strings.TrimSpace(s)))
	if t == "" {
		return "", nil
	}
	for _, known := range Templates {
		if t == known {
			return t, nil
		}
	}
	return "", ErrInvalidTemplate
}

// TemplateInfo describes a template for the picker.
type TemplateInfo struct {
	ID          Template `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
}

// TemplateCatalog returns the picker entries for every template.
func TemplateCatalog() []TemplateInfo {
	return []TemplateInfo{
		{ID: TemplateModern, Name: "Modern", Description: "Flat fill in your brand color"},
		{ID: TemplateGradient, Name: "Gradient", Description: "Diagonal blend into a deeper shade"},
		{ID: TemplateGlass, Name: "Glass", Description: "Frosted translucent tint with dark text"},
		{ID: TemplateDark, Name: "Dark", Description: "Near-black base with a color wash"},
		{ID: TemplateNeon, Name: "Neon", Description: "Black card with a glowing edge"},
		{ID: TemplateElegant, Name: "Elegant", Description: "Three-stop shade and highlight blend"},
	}
}

// ColorPreset is a named swatch offered by the color picker.
type ColorPreset struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ColorPresets are the swatches offered next to the free-form picker.
var ColorPresets = []ColorPreset{
	{Name: "LinkMe Blue", Value: "#2563eb"},
	{Name: "Purple", Value: "#9333ea"},
	{Name: "Pink", Value: "#ec4899"},
	{Name: "Red", Value: "#ef4444"},
	{Name: "Orange", Value: "#f97316"},
	{Name: "Green", Value: "#10b981"},
	{Name: "Teal", Value: "#14b8a6"},
	{Name: "Indigo", Value: "#6366f1"},
}
