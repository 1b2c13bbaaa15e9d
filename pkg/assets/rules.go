package assets

import "strings"

// Fallback categories for names no rule matches.
const (
	DefaultIconCategory      = "Other"
	DefaultPictogramCategory = "General"
)

// Rule assigns Category to names containing any of Keywords
// (case-insensitive).
type Rule struct {
	Keywords []string
	Category string
}

// Rules is an ordered rule table; the first matching rule wins.
type Rules []Rule

// Categorize returns the category of the first matching rule, or fallback.
func (r Rules) Categorize(name, fallback string) string {
	lower := strings.ToLower(name)
	for _, rule := range r {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Category
			}
		}
	}
	return fallback
}

// IconRules categorizes icons scanned without metadata.
var IconRules = Rules{
	{Keywords: []string{"add", "plus"}, Category: "Actions"},
	{Keywords: []string{"delete", "remove", "trash"}, Category: "Actions"},
	{Keywords: []string{"edit", "pencil"}, Category: "Actions"},
	{Keywords: []string{"save", "check"}, Category: "Actions"},
	{Keywords: []string{"download", "upload"}, Category: "Actions"},
	{Keywords: []string{"search", "magnify"}, Category: "Actions"},
	{Keywords: []string{"filter", "sort"}, Category: "Actions"},
	{Keywords: []string{"user", "person", "profile"}, Category: "User"},
	{Keywords: []string{"settings", "preferences", "gear"}, Category: "Settings"},
	{Keywords: []string{"notification", "alert", "warning"}, Category: "Alerts"},
	{Keywords: []string{"home", "house"}, Category: "Navigation"},
	{Keywords: []string{"arrow", "chevron", "caret"}, Category: "Navigation"},
	{Keywords: []string{"menu", "hamburger"}, Category: "Navigation"},
	{Keywords: []string{"file", "document", "folder"}, Category: "Files"},
	{Keywords: []string{"image", "photo", "picture"}, Category: "Media"},
	{Keywords: []string{"video", "play", "pause"}, Category: "Media"},
	{Keywords: []string{"audio", "sound", "volume"}, Category: "Media"},
	{Keywords: []string{"email", "mail", "message"}, Category: "Communication"},
	{Keywords: []string{"phone", "call"}, Category: "Communication"},
	{Keywords: []string{"chat", "comment"}, Category: "Communication"},
	{Keywords: []string{"calendar", "date", "time"}, Category: "Time"},
	{Keywords: []string{"clock", "timer"}, Category: "Time"},
	{Keywords: []string{"chart", "graph", "analytics"}, Category: "Charts"},
	{Keywords: []string{"table", "grid"}, Category: "Data"},
	{Keywords: []string{"list", "item"}, Category: "Data"},
}

// PictogramRules categorizes pictograms scanned without metadata.
var PictogramRules = Rules{
	{Keywords: []string{"ai", "machine", "robot"}, Category: "AI & Technology"},
	{Keywords: []string{"cloud", "server", "data"}, Category: "Cloud & Data"},
	{Keywords: []string{"security", "shield", "lock"}, Category: "Security"},
	{Keywords: []string{"business", "office", "team"}, Category: "Business"},
	{Keywords: []string{"health", "medical", "care"}, Category: "Healthcare"},
	{Keywords: []string{"finance", "money", "bank"}, Category: "Finance"},
	{Keywords: []string{"education", "school", "learn"}, Category: "Education"},
	{Keywords: []string{"travel", "transport", "journey"}, Category: "Travel"},
	{Keywords: []string{"environment", "green", "sustainability"}, Category: "Environment"},
}
