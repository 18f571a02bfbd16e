package models

import "time"

// DesignResult is one generated design proposal. CSSVars maps custom-property
// names to values; RawCSS is an optional free-form override block.
type DesignResult struct {
	Summary string   `json:"summary"`
	Changes []string `json:"changes,omitempty"`

	CSSVars map[string]string `json:"css_vars,omitempty"`
	RawCSS  string            `json:"raw_css,omitempty"`

	GridColumns    int    `json:"grid_columns,omitempty"`
	SectionPadding string `json:"section_padding,omitempty"`
	HeroStyle      string `json:"hero_style,omitempty"`
	HeadingFont    string `json:"heading_font,omitempty"`
	BodyFont       string `json:"body_font,omitempty"`
}

// DesignTurn is one prompt/response exchange persisted to history. Every turn
// is recorded whether or not it is later published.
type DesignTurn struct {
	ID        int           `json:"id"`
	StoreID   int           `json:"store_id"`
	Prompt    string        `json:"prompt"`
	Reply     string        `json:"reply,omitempty"`
	Design    *DesignResult `json:"design,omitempty"`
	Published bool          `json:"published"`
	CreatedAt time.Time     `json:"created_at"`
}

// TokenBalance meters AI design generation per store.
type TokenBalance struct {
	StoreID   int        `json:"store_id"`
	Remaining int        `json:"remaining"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// HasTokens reports whether a generation may be granted right now.
func (b TokenBalance) HasTokens(now time.Time) bool {
	if b.Remaining <= 0 {
		return false
	}
	if b.ExpiresAt != nil && !b.ExpiresAt.After(now) {
		return false
	}
	return true
}
