package models

import "time"

// ThemeState distinguishes "never designed" from "explicitly reset". The
// sentinel lives in the shared store row so every session agrees on it.
type ThemeState string

const (
	ThemeStateNone      ThemeState = "none"
	ThemeStatePublished ThemeState = "published"
	ThemeStateReset     ThemeState = "reset"
)

type Store struct {
	ID          int        `json:"id"`
	OwnerID     int        `json:"owner_id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	LogoURL     string     `json:"logo_url,omitempty"`
	Policies    string     `json:"policies,omitempty"`
	SocialLinks string     `json:"social_links,omitempty"`
	ThemeState  ThemeState `json:"theme_state"`
	ThemeCSS    string     `json:"theme_css,omitempty"`
	PlanID      *int       `json:"plan_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}
