package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Palette struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Text       string `json:"text"`
	Headings   string `json:"headings"`
}

// ThemeSpec is a named color palette applied to a template at render time.
type ThemeSpec struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Palette Palette `json:"palette"`
	BuiltIn bool    `json:"builtIn"`
}

// Built-in themes are immutable process-wide constants. User themes never
// mutate these in place.
var builtinThemes = []ThemeSpec{
	{
		ID:   "slate",
		Name: "Slate",
		Palette: Palette{
			Primary:    "#1e293b",
			Secondary:  "#475569",
			Accent:     "#0ea5e9",
			Background: "#ffffff",
			Text:       "#0f172a",
			Headings:   "#1e293b",
		},
		BuiltIn: true,
	},
	{
		ID:   "forest",
		Name: "Forest",
		Palette: Palette{
			Primary:    "#14532d",
			Secondary:  "#166534",
			Accent:     "#65a30d",
			Background: "#fefce8",
			Text:       "#1c1917",
			Headings:   "#14532d",
		},
		BuiltIn: true,
	},
	{
		ID:   "burgundy",
		Name: "Burgundy",
		Palette: Palette{
			Primary:    "#7f1d1d",
			Secondary:  "#991b1b",
			Accent:     "#d97706",
			Background: "#ffffff",
			Text:       "#292524",
			Headings:   "#7f1d1d",
		},
		BuiltIn: true,
	},
	{
		ID:   "midnight",
		Name: "Midnight",
		Palette: Palette{
			Primary:    "#312e81",
			Secondary:  "#4338ca",
			Accent:     "#06b6d4",
			Background: "#ffffff",
			Text:       "#1e1b4b",
			Headings:   "#312e81",
		},
		BuiltIn: true,
	},
}

// BuiltinThemes returns copies so callers cannot mutate the constants.
func BuiltinThemes() []ThemeSpec {
	out := make([]ThemeSpec, len(builtinThemes))
	copy(out, builtinThemes)
	return out
}

// BuiltinTheme looks up a built-in theme by id.
func BuiltinTheme(id string) (ThemeSpec, bool) {
	for _, t := range builtinThemes {
		if t.ID == id {
			return t, true
		}
	}
	return ThemeSpec{}, false
}

// DefaultTheme is applied when a render request names no theme.
func DefaultTheme() ThemeSpec {
	return builtinThemes[0]
}

// Theme is a persisted user-owned custom theme.
type Theme struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Palette   []byte    `gorm:"type:jsonb" json:"-"`
	CreatedAt time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (Theme) TableName() string {
	return "themes"
}

func (t *Theme) Spec() (ThemeSpec, error) {
	spec := ThemeSpec{ID: t.ID.String(), Name: t.Name}
	if len(t.Palette) > 0 {
		if err := json.Unmarshal(t.Palette, &spec.Palette); err != nil {
			return spec, fmt.Errorf("failed to decode theme palette: %w", err)
		}
	}
	return spec, nil
}

func (t *Theme) SetPalette(p Palette) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode theme palette: %w", err)
	}
	t.Palette = data
	return nil
}
