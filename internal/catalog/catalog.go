package catalog

import (
	"fmt"

	"anglegen/internal/i18n"
)

// Angle is one of the fixed camera perspectives requested for every source
// image. The set is created once at process start and never changes.
type Angle struct {
	ID     string
	Title  string
	Prompt string
}

// Style is an optional visual treatment applied uniformly across all angles
// in one generation run. The prompt fragment may be empty ("no style").
type Style struct {
	ID      string
	NameKey i18n.Key
	Prompt  string
}

var angles = []Angle{
	{
		ID:     "side",
		Title:  "Side Angle",
		Prompt: "Generate an image of the subject from a side angle view, keeping the original style.",
	},
	{
		ID:     "low",
		Title:  "Low Angle",
		Prompt: "Generate an image of the subject from a low angle, looking up, to make it appear more prominent, keeping the original style.",
	},
	{
		ID:     "high",
		Title:  "High Angle",
		Prompt: "Generate an image of the subject from a high angle, looking down, to give a sense of perspective, keeping the original style.",
	},
}

var styles = []Style{
	{
		ID:      "none",
		NameKey: i18n.KeyStyleNone,
		Prompt:  "",
	},
	{
		ID:      "dramatic",
		NameKey: i18n.KeyStyleDramatic,
		Prompt:  "Apply a dramatic style using intense, high-contrast lighting to create deep, dark shadows and sharp highlights. Use a dark color palette (like blacks and deep blues) with high contrast to make the main subjects stand out. Add strong shadow effects on the sides and bright lighting on key focal points for a majestic and powerful look.",
	},
	{
		ID:      "artistic",
		NameKey: i18n.KeyStyleArtistic,
		Prompt:  "Transform the image into an artistic painting. Apply effects like oil paint, watercolor, or a cartoonish drawing style. Use unconventional color gradients and artistic effects like abstraction or modern art to make it look like a unique and distinctive piece of art.",
	},
	{
		ID:      "modern",
		NameKey: i18n.KeyStyleModern,
		Prompt:  "Give the image a modern style with a simple, clean design and bright, vibrant colors. Minimize heavy shadows and focus on clear, precise lines. The overall look should be fresh and contemporary, suitable for a modern and appealing aesthetic.",
	},
	{
		ID:      "cinematic",
		NameKey: i18n.KeyStyleCinematic,
		Prompt:  "Recreate the image with a cinematic style. Use soft lighting and warm colors to create a movie-like feel. Add effects like dark letterbox bars (cinemascope) and a subtle haze or fog to create depth. The image should look like a still from a real movie scene, with dramatic lighting and powerful cinematic effects.",
	},
	{
		ID:      "vintage",
		NameKey: i18n.KeyStyleVintage,
		Prompt:  "Apply a vintage style to the image. Use warm, faded colors like sepia, pale yellow, or dark brown. Add aging effects like film grain, scratches, or light leaks to give the photo an old, historic feel, as if it were a photograph from the past.",
	},
	{
		ID:      "retro",
		NameKey: i18n.KeyStyleRetro,
		Prompt:  "Give the image a retro style inspired by the 1980s. Use vibrant, neon colors or a classic black and white look. Add effects like blur, noise, or light trails to create an old-school feel. The image should look like a vintage photo with a distinct retro vibe.",
	},
	{
		ID:      "graffiti",
		NameKey: i18n.KeyStyleGraffiti,
		Prompt:  "Transform the image with a graffiti style. Add bold, spray-painted graphics and free-form artistic lines. Use bright, vibrant colors like red, blue, and yellow with effects on the edges. The image should be full of energy and life, like a piece of street art.",
	},
	{
		ID:      "futuristic",
		NameKey: i18n.KeyStyleFuturistic,
		Prompt:  "Create a futuristic look for the image. Use effects like glowing lights, 3D designs, and modern technology to create a futuristic appearance. Focus on metallic colors like silver and black with tech-inspired effects. The image should look like a scene from the future, with advanced technology and a sleek design.",
	},
}

// Angles returns the configured camera angles in display order. Callers get
// a copy so the package-level set stays immutable.
func Angles() []Angle {
	out := make([]Angle, len(angles))
	copy(out, angles)
	return out
}

// Styles returns the configured styles in display order.
func Styles() []Style {
	out := make([]Style, len(styles))
	copy(out, styles)
	return out
}

// AngleByID looks up one angle by identifier.
func AngleByID(id string) (Angle, bool) {
	for _, a := range angles {
		if a.ID == id {
			return a, true
		}
	}
	return Angle{}, false
}

// StyleByID looks up one style by identifier.
func StyleByID(id string) (Style, bool) {
	for _, s := range styles {
		if s.ID == id {
			return s, true
		}
	}
	return Style{}, false
}

// StylePrompt returns the prompt fragment for the style, or the empty
// string when the identifier is unknown.
func StylePrompt(id string) string {
	s, ok := StyleByID(id)
	if !ok {
		return ""
	}
	return s.Prompt
}

// Validate checks the catalog invariants at process start: unique,
// non-empty identifiers, non-empty angle prompts, and style name keys
// that resolve in the translation catalog.
func Validate() error {
	seen := make(map[string]struct{}, len(angles))
	for _, a := range angles {
		if a.ID == "" || a.Title == "" || a.Prompt == "" {
			return fmt.Errorf("catalog: angle %q is incomplete", a.ID)
		}
		if _, dup := seen[a.ID]; dup {
			return fmt.Errorf("catalog: duplicate angle id %q", a.ID)
		}
		seen[a.ID] = struct{}{}
	}
	seen = make(map[string]struct{}, len(styles))
	for _, s := range styles {
		if s.ID == "" {
			return fmt.Errorf("catalog: style with empty id")
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("catalog: duplicate style id %q", s.ID)
		}
		seen[s.ID] = struct{}{}
		if !i18n.Has(s.NameKey) {
			return fmt.Errorf("catalog: style %q references unknown name key %q", s.ID, s.NameKey)
		}
	}
	return nil
}
