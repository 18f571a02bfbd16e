package designer

import (
	"fmt"
	"sort"
	"strconv"

	"dukanBack/internal/models"
)

// destructiveThreshold is the fraction of tracked fields that may change
// before a design is flagged as destructive.
const destructiveThreshold = 0.5

// FieldChange is one tracked attribute that differs between two designs.
type FieldChange struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

func (c FieldChange) String() string {
	if c.Old == "" {
		return fmt.Sprintf("%s set to %q", c.Field, c.New)
	}
	if c.New == "" {
		return fmt.Sprintf("%s cleared (was %q)", c.Field, c.Old)
	}
	return fmt.Sprintf("%s changed from %q to %q", c.Field, c.Old, c.New)
}

func trackedFields(d *models.DesignResult) map[string]string {
	fields := map[string]string{}
	if d == nil {
		return fields
	}
	for name, value := range d.CSSVars {
		fields["css:"+name] = value
	}
	if d.GridColumns != 0 {
		fields["layout:grid_columns"] = strconv.Itoa(d.GridColumns)
	}
	if d.SectionPadding != "" {
		fields["layout:section_padding"] = d.SectionPadding
	}
	if d.HeroStyle != "" {
		fields["layout:hero_style"] = d.HeroStyle
	}
	if d.HeadingFont != "" {
		fields["font:heading"] = d.HeadingFont
	}
	if d.BodyFont != "" {
		fields["font:body"] = d.BodyFont
	}
	if d.RawCSS != "" {
		fields["css:raw_override"] = d.RawCSS
	}
	return fields
}

// Diff compares two designs over every tracked CSS variable, layout hint and
// font, old vs new. Unchanged fields are omitted. Output order is stable.
func Diff(old, new *models.DesignResult) []FieldChange {
	oldFields := trackedFields(old)
	newFields := trackedFields(new)

	names := map[string]struct{}{}
	for name := range oldFields {
		names[name] = struct{}{}
	}
	for name := range newFields {
		names[name] = struct{}{}
	}

	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	var changes []FieldChange
	for _, name := range sorted {
		if oldFields[name] != newFields[name] {
			changes = append(changes, FieldChange{Field: name, Old: oldFields[name], New: newFields[name]})
		}
	}
	return changes
}

// DestructiveWarning flags a proposed design that rewrites more than the
// threshold fraction of the current design's tracked fields. The warning is
// advisory: it is shown to the user and never blocks staging the design. A
// proposal identical to the current design never flags.
func DestructiveWarning(current, proposed *models.DesignResult) string {
	changes := Diff(current, proposed)
	if len(changes) == 0 {
		return ""
	}
	tracked := len(trackedFields(current))
	if tracked == 0 {
		return ""
	}
	fraction := float64(len(changes)) / float64(tracked)
	if fraction <= destructiveThreshold {
		return ""
	}
	summary := fmt.Sprintf("this design changes %d of %d tracked fields:", len(changes), tracked)
	for _, c := range changes {
		summary += "\n- " + c.String()
	}
	return summary
}

// PublishSummary builds the synthetic confirmation message appended after a
// publish, naming exactly which attributes changed relative to the previous
// published design.
func PublishSummary(previous, published *models.DesignResult) string {
	changes := Diff(previous, published)
	if len(changes) == 0 {
		return "Design published. No tracked attributes changed."
	}
	summary := "Design published. Changes:"
	for _, c := range changes {
		summary += "\n- " + c.String()
	}
	return summary
}
