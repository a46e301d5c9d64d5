package domain

import (
	"regexp"
	"strings"
)

// Platform is one of the fixed social-link keys.
type Platform string

const (
	PlatformWebsite   Platform = "website"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformInstagram Platform = "instagram"
	PlatformTwitter   Platform = "twitter"
	PlatformGitHub    Platform = "github"
	PlatformWhatsApp  Platform = "whatsapp"
	PlatformEmail     Platform = "email"
	PlatformPhone     Platform = "phone"
)

// PhoneCodeKey holds the country code that accompanies the phone value.
const PhoneCodeKey = "phone_code"

// DefaultPhoneCode is used when no valid country code was selected.
const DefaultPhoneCode = "+962"

// PlatformInfo is the form metadata for a platform.
type PlatformInfo struct {
	Key         Platform `json:"key"`
	Label       string   `json:"label"`
	Placeholder string   `json:"placeholder"`
	ValidateURL bool     `json:"validateUrl"`
}

// Platforms is the closed platform set in form and submission order.
var Platforms = []PlatformInfo{
	{Key: PlatformWebsite, Label: "Website", Placeholder: "https://yoursite.com", ValidateURL: true},
	{Key: PlatformLinkedIn, Label: "LinkedIn", Placeholder: "Your LinkedIn URL", ValidateURL: true},
	{Key: PlatformInstagram, Label: "Instagram", Placeholder: "Your Instagram link", ValidateURL: true},
	{Key: PlatformTwitter, Label: "Twitter", Placeholder: "Your Twitter link", ValidateURL: true},
	{Key: PlatformGitHub, Label: "GitHub", Placeholder: "Your GitHub link", ValidateURL: true},
	{Key: PlatformWhatsApp, Label: "WhatsApp", Placeholder: "Your WhatsApp link", ValidateURL: true},
	{Key: PlatformEmail, Label: "Email", Placeholder: "hello@example.com"},
	{Key: PlatformPhone, Label: "Phone", Placeholder: "+962 7X XXX XXXX"},
}

// ParseSocialKey accepts a platform key or the phone country-code key.
func ParseSocialKey(s string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == PhoneCodeKey {
		return key, nil
	}
	for _, p := range Platforms {
		if string(p.Key) == key {
			return key, nil
		}
	}
	return "", ErrInvalidPlatform
}

// CountryCode is a dialing prefix offered next to the phone field.
type CountryCode struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Shortcut string `json:"shortcut"`
}

var CountryCodes = []CountryCode{
	{Name: "Jordan", Code: "+962", Shortcut: "JO"},
	{Name: "Saudi Arabia", Code: "+966", Shortcut: "SA"},
	{Name: "UAE", Code: "+971", Shortcut: "AE"},
	{Name: "Qatar", Code: "+974", Shortcut: "QA"},
	{Name: "Kuwait", Code: "+965", Shortcut: "KW"},
	{Name: "USA", Code: "+1", Shortcut: "US"},
	{Name: "UK", Code: "+44", Shortcut: "GB"},
	{Name: "Australia", Code: "+61", Shortcut: "AU"},
	{Name: "Germany", Code: "+49", Shortcut: "DE"},
	{Name: "France", Code: "+33", Shortcut: "FR"},
	{Name: "Italy", Code: "+39", Shortcut: "IT"},
	{Name: "Spain", Code: "+34", Shortcut: "ES"},
}

// PhoneCode returns the selected country code, or DefaultPhoneCode when the
// selection is missing or not one of CountryCodes.
func PhoneCode(links map[string]string) string {
	code := strings.TrimSpace(links[PhoneCodeKey])
	for _, c := range CountryCodes {
		if c.Code == code {
			return code
		}
	}
	return DefaultPhoneCode
}

var urlShape = regexp.MustCompile(`(?i)^(https?://)?([a-z0-9-]+\.)+[a-z]{2,}(:\d+)?(/\S*)?$`)

// IsValidLinkURL reports whether v looks like a web URL.
func IsValidLinkURL(v string) bool {
	return urlShape.MatchString(strings.TrimSpace(v))
}

// ValidateSocialLinks returns a per-platform error flag. Empty values and the
// email and phone platforms are never flagged.
func ValidateSocialLinks(links map[string]string) map[Platform]bool {
	errs := make(map[Platform]bool, len(Platforms))
	for _, p := range Platforms {
		v := strings.TrimSpace(links[string(p.Key)])
		errs[p.Key] = p.ValidateURL && v != "" && !IsValidLinkURL(v)
	}
	return errs
}

// HasSocialErrors reports whether any flag is set.
func HasSocialErrors(errs map[Platform]bool) bool {
	for _, bad := range errs {
		if bad {
			return true
		}
	}
	return false
}

// SocialLink is one entry of the submission payload.
type SocialLink struct {
	Platform Platform `json:"platform"`
	URL      string   `json:"url"`
}

// FlattenSocialLinks converts the link map into an ordered list following
// the platform order. Empty entries are skipped and the phone value is
// rewritten as "<code> <digits>".
func FlattenSocialLinks(links map[string]string) []SocialLink {
	out := make([]SocialLink, 0, len(links))
	for _, p := range Platforms {
		v := strings.TrimSpace(links[string(p.Key)])
		if v == "" {
			continue
		}
		if p.Key == PlatformPhone {
			digits := digitsOnly(v)
			if digits == "" {
				continue
			}
			v = PhoneCode(links) + " " + digits
		}
		out = append(out, SocialLink{Platform: p.Key, URL: v})
	}
	return out
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
