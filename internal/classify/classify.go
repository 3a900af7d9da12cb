package classify

import (
	"strings"

	"github.com/shobhitxp/QAAItestgenerator/internal/entity"
)

// Classify maps a free-form purpose label to a FormType by keyword
// containment. Matching runs in a fixed order so overlapping labels
// ("login search") resolve deterministically. Total over all strings.
func Classify(label string) entity.FormType {
	lower := strings.ToLower(label)

	switch {
	case strings.Contains(lower, "search"):
		return entity.FormTypeSearch
	case strings.Contains(lower, "login"):
		return entity.FormTypeLogin
	case strings.Contains(lower, "contact"):
		return entity.FormTypeContact
	case strings.Contains(lower, "registration"):
		return entity.FormTypeRegistration
	default:
		return entity.FormTypeUnknown
	}
}

// Selectors derives the named selector set for a form type. The four
// generic roles plus the form role are present for every type, including
// unknown; type-specific roles are layered on top.
func Selectors(ft entity.FormType) entity.SelectorSet {
	selectors := entity.SelectorSet{
		entity.RoleInput:    `input[type="text"], input[type="search"], input[type="email"], input[type="password"]`,
		entity.RoleButton:   `button, input[type="submit"], input[type="button"]`,
		entity.RoleSelect:   `select`,
		entity.RoleTextarea: `textarea`,
		entity.RoleForm:     `form`,
	}

	switch ft {
	case entity.FormTypeSearch:
		selectors[entity.RoleSearchInput] = `input[type="search"], input[placeholder*="search"], input[name*="search"], input[id*="search"]`
		selectors[entity.RoleSearchButton] = `button[type="submit"], input[type="submit"], button:has-text("Search")`
		selectors[entity.RoleResults] = `.search-results, .results, [class*="result"], [id*="result"]`
	case entity.FormTypeLogin:
		selectors[entity.RoleUsername] = `input[name="username"], input[name="email"], input[type="email"]`
		selectors[entity.RolePassword] = `input[name="password"], input[type="password"]`
		selectors[entity.RoleLoginButton] = `button[type="submit"], input[type="submit"]`
	case entity.FormTypeContact:
		selectors[entity.RoleName] = `input[name="name"], input[name="fullname"]`
		selectors[entity.RoleEmail] = `input[name="email"], input[type="email"]`
		selectors[entity.RoleMessage] = `textarea[name="message"], textarea[name="comment"]`
		selectors[entity.RoleSubmit] = `button[type="submit"], input[type="submit"]`
	case entity.FormTypeRegistration:
		selectors[entity.RoleName] = `input[name="name"], input[name="fullname"], input[name="username"]`
		selectors[entity.RoleEmail] = `input[name="email"], input[type="email"]`
		selectors[entity.RolePassword] = `input[name="password"], input[type="password"]`
		selectors[entity.RoleConfirmPassword] = `input[name="confirm_password"], input[name="password_confirmation"]`
		selectors[entity.RoleSubmit] = `button[type="submit"], input[type="submit"]`
	}

	return selectors
}

// ClassifyAndSelect is the combined contract: one FormType and its
// selector set for any label.
func ClassifyAndSelect(label string) (entity.FormType, entity.SelectorSet) {
	ft := Classify(label)

	return ft, Selectors(ft)
}
