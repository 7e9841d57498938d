package handlers

import (
	"net/http"

	"anglegen/internal/catalog"
	"anglegen/internal/i18n"
	"anglegen/internal/middleware"
)

type angleView struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type styleView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Config lists the configured angles and styles, with style names localized
// to the request's negotiated locale.
func (a *App) Config(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromContext(r.Context())

	angles := make([]angleView, 0, len(catalog.Angles()))
	for _, angle := range catalog.Angles() {
		angles = append(angles, angleView{ID: angle.ID, Title: angle.Title})
	}

	styles := make([]styleView, 0, len(catalog.Styles()))
	for _, style := range catalog.Styles() {
		styles = append(styles, styleView{ID: style.ID, Name: i18n.T(locale, style.NameKey, nil)})
	}

	a.json(w, http.StatusOK, map[string]any{
		"locale":  locale,
		"locales": i18n.Locales(),
		"angles":  angles,
		"styles":  styles,
	})
}
