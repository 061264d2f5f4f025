// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package render produces the storefront opt-in checkbox and the admin
// settings page markup.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/constants"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/admin.js
var adminScript []byte

// AdminScript returns the settings page script
func AdminScript() []byte {
	return adminScript
}

// Output identifies what a filter is looking at
type Output string

const (
	OutputCheckbox     Output = "checkbox"
	OutputListSelector Output = "list_selector"
	OutputSettingsPage Output = "settings_page"
)

// OutputFilter may rewrite rendered markup before it is returned
type OutputFilter func(output Output, html string) string

// SettingsView is everything the settings page shows
type SettingsView struct {
	Config         model.Configuration
	Lists          model.ListResult
	SettingsToken  string
	LicenseToken   string
	Saved          bool
	LicenseMessage string
	Errors         []string
	ActionURL      string
	UpdateListsURL string
	ScriptURL      string
}

// settingsPageData adds the rendered list selector to the view
type settingsPageData struct {
	SettingsView
	ListSelector template.HTML
}

type checkboxData struct {
	Field   string
	Label   string
	Checked bool
}

// Renderer renders the embedded templates and runs the output filters
type Renderer struct {
	templates *template.Template
	filters   []OutputFilter
}

// NewRenderer parses the embedded templates
func NewRenderer(filters ...OutputFilter) (*Renderer, error) {
	funcs := sprig.FuncMap()
	funcs["settingsField"] = settingsField

	tmpl, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Renderer{templates: tmpl, filters: filters}, nil
}

// settingsField returns the form name of a settings field
func settingsField(name string) string {
	return constants.FormSettingsPrefix + "[" + name + "]"
}

// OptInCheckbox renders the storefront checkbox, or nothing when no API key is configured
func (r *Renderer) OptInCheckbox(cfg model.Configuration) (string, error) {
	if !cfg.HasAPIKey() {
		return r.filter(OutputCheckbox, ""), nil
	}

	return r.execute(OutputCheckbox, "checkbox", checkboxData{
		Field:   constants.FieldOptIn,
		Label:   cfg.CheckboxLabel,
		Checked: cfg.CheckedByDefault,
	})
}

// ListSelector renders the list select control for result
func (r *Renderer) ListSelector(result model.ListResult) (string, error) {
	return r.execute(OutputListSelector, "list_selector", result)
}

// SettingsPage renders the full admin settings page
func (r *Renderer) SettingsPage(view SettingsView) (string, error) {
	selector, err := r.ListSelector(view.Lists)
	if err != nil {
		return "", err
	}

	return r.execute(OutputSettingsPage, "settings", settingsPageData{
		SettingsView: view,
		ListSelector: template.HTML(selector),
	})
}

func (r *Renderer) execute(output Output, name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", output, err)
	}
	return r.filter(output, buf.String()), nil
}

func (r *Renderer) filter(output Output, html string) string {
	for _, f := range r.filters {
		html = f(output, html)
	}
	return html
}
