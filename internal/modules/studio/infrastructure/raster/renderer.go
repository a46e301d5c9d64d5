package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/linkme/cardstudio/internal/modules/studio/application"
	"github.com/linkme/cardstudio/internal/modules/studio/domain"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultScale renders the 360x210 card at 720x420.
const DefaultScale = 2

var (
	white    = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	gray800  = color.NRGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xff}
	midnight = color.NRGBA{R: 0x0b, G: 0x0f, B: 0x19, A: 0xff}
)

// Renderer draws card previews as PNG images.
type Renderer struct {
	scale int
	face  *basicfont.Face
}

func NewRenderer(scale int) *Renderer {
	if scale < 1 {
		scale = DefaultScale
	}
	return &Renderer{scale: scale, face: basicfont.Face7x13}
}

// Render paints the card in the same layer order as the web preview:
// background, overlay, border, header badges, avatar, text, footer and QR.
func (r *Renderer) Render(p domain.CardPreview, images application.CardImages) ([]byte, error) {
	w, h := r.px(p.Width), r.px(p.Height)
	if w <= 0 || h <= 0 {
		w, h = r.px(domain.CardWidth), r.px(domain.CardHeight)
	}
	card := image.NewNRGBA(image.Rect(0, 0, w, h))

	r.paintBackground(card, p.Style, images.Background)
	if o := p.Style.Overlay; o != nil {
		fillGradient(card, angle(o.Direction, w, h), o.Stops)
	}
	r.paintBorder(card, p.Style)

	ink := white
	if p.Style.TextColor == domain.TextDarkGray {
		ink = gray800
	}
	pad := r.px(16)

	// header
	r.pill(card, p.Badge, pad, pad, ink)
	right := w - pad
	if p.TemplateLabel != "" {
		right = r.pillRight(card, p.TemplateLabel, right, pad, ink)
	}
	if p.ModeBadge != "" {
		r.pillRight(card, p.ModeBadge, right-r.px(6), pad, ink)
	}

	// avatar and text block
	avatarSize := r.px(56)
	avatarTop := r.px(48)
	r.paintAvatar(card, p, images.Avatar, pad, avatarTop, avatarSize, ink)

	textX := pad + avatarSize + r.px(14)
	textW := w - textX - pad
	nameScale := r.scale * 3 / 2
	r.text(card, fit(p.Name, r.chars(textW, nameScale)), textX, avatarTop, ink, nameScale)
	r.text(card, fit(p.Title, r.chars(textW, r.scale)), textX, avatarTop+r.px(24), withAlpha(ink, 0xd9), r.scale)
	for i, line := range wrap(p.Bio, r.chars(textW, r.scale), 2) {
		r.text(card, line, textX, avatarTop+r.px(42)+i*r.px(13), withAlpha(ink, 0xb3), r.scale)
	}

	// footer
	footerY := h - pad - r.px(13)
	r.text(card, p.Brand, pad, footerY-r.px(12), ink, r.scale)
	r.text(card, fit(p.Tagline, r.chars(w/2, r.scale)), pad, footerY, withAlpha(ink, 0xb3), r.scale)

	qrSize := r.px(domain.CardHeight / 5)
	qrX, qrY := w-pad-qrSize, h-pad-qrSize
	if len(images.QR) > 0 {
		if err := r.paintQR(card, images.QR, qrX, qrY, qrSize); err != nil {
			return nil, err
		}
	}
	featW := r.textWidth(p.Features, r.scale)
	r.text(card, p.Features, qrX-r.px(8)-featW, h-pad-r.px(13), withAlpha(ink, 0xb3), r.scale)

	out := image.NewNRGBA(card.Bounds())
	draw.DrawMask(out, out.Bounds(), card, image.Point{}, roundedMask(w, h, r.px(16)), image.Point{}, draw.Src)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode card: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) px(v int) int {
	return v * r.scale
}

// chars is how many glyphs drawn at scale fit into width.
func (r *Renderer) chars(width, scale int) int {
	return width / (r.face.Advance * scale)
}

func (r *Renderer) paintBackground(dst *image.NRGBA, s domain.ResolvedStyle, bg []byte) {
	b := dst.Bounds()
	// translucent templates are composited over the page colour
	page := midnight
	if s.BlurSurface {
		page = white
	}
	draw.Draw(dst, b, image.NewUniform(page), image.Point{}, draw.Src)

	switch s.Background.Kind {
	case domain.BackgroundSolid:
		c, _ := parseColor(s.Background.Color)
		draw.Draw(dst, b, image.NewUniform(c), image.Point{}, draw.Over)
	case domain.BackgroundImage:
		img, err := decodeBounded(bg)
		if err != nil {
			draw.Draw(dst, b, image.NewUniform(midnight), image.Point{}, draw.Src)
			return
		}
		filled := imaging.Fill(img, b.Dx(), b.Dy(), imaging.Center, imaging.Lanczos)
		draw.Draw(dst, b, filled, image.Point{}, draw.Src)
	default:
		fillGradient(dst, angle(s.Background.Direction, b.Dx(), b.Dy()), s.Background.Stops)
	}

	if s.BlurSurface && s.BlurRadius > 0 {
		blurred := imaging.Blur(dst, float64(s.BlurRadius)/10)
		draw.Draw(dst, b, blurred, image.Point{}, draw.Src)
	}
}

func (r *Renderer) paintBorder(dst *image.NRGBA, s domain.ResolvedStyle) {
	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	if s.GlowColor != "" {
		glow, _ := parseColor(s.GlowColor)
		for i := 0; i < r.px(6); i++ {
			a := uint8(0x40 * (r.px(6) - i) / r.px(6))
			strokeRect(dst, image.Rect(i, i, w-i, h-i), 1, withAlpha(glow, a))
		}
	}
	if s.BorderColor != "" {
		border, _ := parseColor(s.BorderColor)
		strokeRect(dst, image.Rect(0, 0, w, h), r.px(2), border)
	}
}

func (r *Renderer) paintAvatar(dst *image.NRGBA, p domain.CardPreview, data []byte, x, y, size int, ink color.NRGBA) {
	radius := size / 2
	if p.Avatar.Shape == domain.AvatarRoundedSquare {
		radius = r.px(12)
	}
	rect := image.Rect(x, y, x+size, y+size)
	mask := roundedMask(size, size, radius)

	if len(data) > 0 {
		if img, err := decodeBounded(data, imaging.AutoOrientation(true)); err == nil {
			face := imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos)
			draw.DrawMask(dst, rect, face, image.Point{}, mask, image.Point{}, draw.Over)
			return
		}
	}

	// placeholder: translucent tile with the initial of the shown name
	draw.DrawMask(dst, rect, image.NewUniform(withAlpha(ink, 0x33)), image.Point{}, mask, image.Point{}, draw.Over)
	initial := "?"
	if n := strings.TrimSpace(sanitize(p.Name)); n != "" {
		initial = strings.ToUpper(n[:1])
	}
	scale := r.scale * 2
	tw := r.textWidth(initial, scale)
	r.text(dst, initial, x+(size-tw)/2, y+(size-13*scale)/2, ink, scale)
}

// decodeBounded refuses images whose header exceeds domain.MaxImageSide.
func decodeBounded(data []byte, opts ...imaging.DecodeOption) (image.Image, error) {
	if err := domain.CheckImageBounds(data); err != nil {
		return nil, err
	}
	return imaging.Decode(bytes.NewReader(data), opts...)
}

func (r *Renderer) paintQR(dst *image.NRGBA, data []byte, x, y, size int) error {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode qr code: %w", err)
	}
	m := r.px(2)
	tile := image.Rect(x-m, y-m, x+size+m, y+size+m)
	draw.DrawMask(dst, tile, image.NewUniform(white), image.Point{}, roundedMask(tile.Dx(), tile.Dy(), m*2), image.Point{}, draw.Over)
	qr := imaging.Resize(img, size, size, imaging.NearestNeighbor)
	draw.Draw(dst, image.Rect(x, y, x+size, y+size), qr, image.Point{}, draw.Over)
	return nil
}

func (r *Renderer) pill(dst *image.NRGBA, label string, x, y int, ink color.NRGBA) int {
	tw := r.textWidth(label, r.scale)
	padX, padY := r.px(6), r.px(3)
	rect := image.Rect(x, y, x+tw+2*padX, y+r.px(13)+2*padY)
	draw.DrawMask(dst, rect, image.NewUniform(withAlpha(ink, 0x26)), image.Point{},
		roundedMask(rect.Dx(), rect.Dy(), rect.Dy()/2), image.Point{}, draw.Over)
	r.text(dst, label, x+padX, y+padY, ink, r.scale)
	return rect.Dx()
}

// pillRight draws a pill ending at right and returns its left edge.
func (r *Renderer) pillRight(dst *image.NRGBA, label string, right, y int, ink color.NRGBA) int {
	width := r.textWidth(label, r.scale) + 2*r.px(6)
	r.pill(dst, label, right-width, y, ink)
	return right - width
}

func (r *Renderer) textWidth(s string, scale int) int {
	return font.MeasureString(r.face, sanitize(s)).Ceil() * scale
}

// text draws s with its top-left corner at x, y. basicfont is a 7x13 bitmap
// face, so larger sizes are nearest-neighbour upscales.
func (r *Renderer) text(dst *image.NRGBA, s string, x, y int, c color.NRGBA, scale int) {
	s = sanitize(s)
	if s == "" {
		return
	}
	m := r.face.Metrics()
	width := font.MeasureString(r.face, s).Ceil()
	height := m.Height.Ceil()

	glyphs := image.NewNRGBA(image.Rect(0, 0, width, height))
	d := &font.Drawer{
		Dst:  glyphs,
		Src:  image.NewUniform(c),
		Face: r.face,
		Dot:  fixed.Point26_6{X: 0, Y: m.Ascent},
	}
	d.DrawString(s)

	scaled := imaging.Resize(glyphs, width*scale, height*scale, imaging.NearestNeighbor)
	draw.Draw(dst, image.Rect(x, y, x+width*scale, y+height*scale), scaled, image.Point{}, draw.Over)
}

// angle converts a gradient direction to a CSS angle in degrees.
func angle(direction string, w, h int) float64 {
	d := strings.TrimSpace(direction)
	if strings.HasSuffix(d, "deg") {
		if v, err := strconv.ParseFloat(strings.TrimSuffix(d, "deg"), 64); err == nil {
			return v
		}
	}
	switch d {
	case "to bottom right":
		// the 50% line joins the other two corners
		return 180 - math.Atan(float64(h)/float64(w))*180/math.Pi
	case "to right":
		return 90
	case "to top":
		return 0
	case "to left":
		return 270
	}
	return 180
}

type stopColor struct {
	c   color.NRGBA
	pos float64
}

// fillGradient composites a CSS-style linear gradient over dst.
func fillGradient(dst *image.NRGBA, deg float64, stops []domain.ColorStop) {
	if len(stops) == 0 {
		return
	}
	parsed := make([]stopColor, 0, len(stops))
	for _, s := range stops {
		c, _ := parseColor(s.Color)
		parsed = append(parsed, stopColor{c: c, pos: float64(s.Position) / 100})
	}

	b := dst.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	rad := deg * math.Pi / 180
	dx, dy := math.Sin(rad), -math.Cos(rad)
	length := math.Abs(w*dx) + math.Abs(h*dy)

	layer := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			t := ((float64(x)+0.5-w/2)*dx+(float64(y)+0.5-h/2)*dy)/length + 0.5
			layer.SetNRGBA(x, y, colorAt(parsed, t))
		}
	}
	draw.Draw(dst, b, layer, b.Min, draw.Over)
}

func colorAt(stops []stopColor, t float64) color.NRGBA {
	if t <= stops[0].pos {
		return stops[0].c
	}
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		if t <= b.pos {
			span := b.pos - a.pos
			if span <= 0 {
				return b.c
			}
			return lerp(a.c, b.c, (t-a.pos)/span)
		}
	}
	return stops[len(stops)-1].c
}

func lerp(a, b color.NRGBA, f float64) color.NRGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*f))
	}
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// parseColor reads #rrggbb or #rrggbbaa. Anything else is the default
// brand color.
func parseColor(s string) (color.NRGBA, bool) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		c, _ := parseColor(domain.DefaultColor)
		return c, false
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		c, _ := parseColor(domain.DefaultColor)
		return c, false
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, true
}

func withAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = uint8(uint16(c.A) * uint16(a) / 0xff)
	return c
}

func strokeRect(dst *image.NRGBA, r image.Rectangle, width int, c color.NRGBA) {
	src := image.NewUniform(c)
	for _, edge := range []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width),
		image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y+width, r.Min.X+width, r.Max.Y-width),
		image.Rect(r.Max.X-width, r.Min.Y+width, r.Max.X, r.Max.Y-width),
	} {
		draw.Draw(dst, edge, src, image.Point{}, draw.Over)
	}
}

// roundedMask is an opaque w x h mask with corners of the given radius cut
// away. A radius of half the side gives a circle.
func roundedMask(w, h, radius int) *image.Alpha {
	m := image.NewAlpha(image.Rect(0, 0, w, h))
	rf := float64(radius)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cx := math.Min(math.Max(float64(x)+0.5, rf), float64(w)-rf)
			cy := math.Min(math.Max(float64(y)+0.5, rf), float64(h)-rf)
			if math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy) <= rf {
				m.SetAlpha(x, y, color.Alpha{A: 0xff})
			}
		}
	}
	return m
}

// sanitize maps text onto the ASCII range of the bitmap face.
func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '•' || r == '–' || r == '—':
			b.WriteRune('-')
		case r == '\n' || r == '\t':
			b.WriteRune(' ')
		case r >= 0x20 && r < 0x7f:
			b.WriteRune(r)
		case r < 0x20:
		default:
			b.WriteRune('?')
		}
	}
	return b.String()
}

func fit(s string, n int) string {
	s = sanitize(s)
	if n <= 3 || len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n-3]) + "..."
}

// wrap breaks s into at most maxLines lines of maxChars, ending the last
// line with an ellipsis when text is cut.
func wrap(s string, maxChars, maxLines int) []string {
	words := strings.Fields(sanitize(s))
	if maxChars <= 3 || maxLines <= 0 || len(words) == 0 {
		return nil
	}

	var lines []string
	cur := ""
	for _, word := range words {
		switch {
		case cur == "":
			cur = word
		case len(cur)+1+len(word) <= maxChars:
			cur += " " + word
		default:
			lines = append(lines, fit(cur, maxChars))
			cur = word
		}
	}
	lines = append(lines, fit(cur, maxChars))

	if len(lines) > maxLines {
		lines = lines[:maxLines]
		last := lines[maxLines-1]
		if len(last)+3 > maxChars {
			last = strings.TrimSpace(last[:maxChars-3])
		}
		lines[maxLines-1] = last + "..."
	}
	return lines
}
