package application

import "github.com/linkme/cardstudio/internal/modules/studio/domain"

var formLabels = map[domain.ProfileType]FormLabels{
	domain.ProfilePersonal: {
		Name:             "Full Name",
		NamePlaceholder:  "Hala Al-Issawi",
		Title:            "Title / Role",
		TitlePlaceholder: "QA Engineer – NFC Systems",
		Bio:              "Short Bio",
		BioPlaceholder:   "Passionate about building clean, smart, and user-friendly systems.",
		Image:            "Profile Image",
	},
	domain.ProfileBusiness: {
		Name:             "Company Name",
		NamePlaceholder:  "Dot LinkMe Solutions",
		Title:            "Industry / Category",
		TitlePlaceholder: "Smart NFC & Digital Identity",
		Bio:              "Description",
		BioPlaceholder:   "We help you turn your physical card into a smart NFC-powered identity.",
		Image:            "Company Logo",
	},
}

// DemoBackgrounds stand in for generated AI backgrounds.
var DemoBackgrounds = []string{
	"https://images.unsplash.com/photo-1557683316-973673baf926?auto=format&fit=crop&w=800&q=80",
	"https://images.unsplash.com/photo-1579546929518-9e396f3cc809?auto=format&fit=crop&w=800&q=80",
	"https://images.unsplash.com/photo-1557682250-33bd709cbe85?auto=format&fit=crop&w=800&q=80",
}

// BuildCatalog returns the static picker data.
func BuildCatalog() Catalog {
	return Catalog{
		Templates:    domain.TemplateCatalog(),
		Platforms:    domain.Platforms,
		CountryCodes: domain.CountryCodes,
		ColorPresets: domain.ColorPresets,
		Labels:       formLabels,
		DefaultColor: domain.DefaultColor,
	}
}
