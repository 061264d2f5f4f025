// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package service implements the HTTP endpoints of the GetResponse opt-in service.
package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"goa.design/clue/health"
	goahttp "goa.design/goa/v3/http"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/render"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/constants"
	lfxerrors "github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/log"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/redaction"
)

// Routes served by the opt-in service
const (
	SettingsPath      = "/settings"
	UpdateListsPath   = "/ajax/update_lists"
	CheckboxPath      = "/optin/checkbox"
	GuestCheckboxPath = "/optin/checkbox/guest"
	RegisterPath      = "/optin/register"
	GuestPath         = "/optin/guest"
	AdminScriptPath   = "/static/admin.js"
	LivezPath         = "/livez"
	ReadyzPath        = "/readyz"
)

// maxFormBytes bounds every posted form
const maxFormBytes = 1 << 20

// Dependencies wires the use cases behind the HTTP endpoints
type Dependencies struct {
	Auth      port.Authenticator
	Settings  service.SettingsReaderWriter
	Lists     *service.ListSynchronizer
	Refresher *service.Refresher
	Processor *service.OptInProcessor
	Licenses  service.LicenseManager
	Tokens    port.FormTokens
	Renderer  *render.Renderer
	Pingers   []health.Pinger
}

// OptInService serves the admin settings screens and the storefront opt-in endpoints
type OptInService struct {
	Dependencies
	checker health.Checker
}

// NewOptInService returns the opt-in service implementation
func NewOptInService(deps Dependencies) *OptInService {
	return &OptInService{
		Dependencies: deps,
		checker:      health.NewChecker(deps.Pingers...),
	}
}

// Mount registers every route on mux
func (s *OptInService) Mount(mux goahttp.Muxer) {
	mux.Handle(http.MethodGet, LivezPath, s.Livez)
	mux.Handle(http.MethodGet, ReadyzPath, health.Handler(s.checker))
	mux.Handle(http.MethodGet, AdminScriptPath, s.AdminScript)

	mux.Handle(http.MethodGet, SettingsPath, s.requireAdmin(s.SettingsPage))
	mux.Handle(http.MethodPost, SettingsPath, s.requireAdmin(s.SaveSettings))
	mux.Handle(http.MethodPost, UpdateListsPath, s.requireAdmin(s.UpdateLists))

	mux.Handle(http.MethodGet, CheckboxPath, s.Checkbox)
	mux.Handle(http.MethodGet, GuestCheckboxPath, s.Checkbox)
	mux.Handle(http.MethodPost, RegisterPath, s.requireStorefront(s.SubmitRegistration))
	mux.Handle(http.MethodPost, GuestPath, s.requireStorefront(s.SubmitGuest))
}

// requireAdmin parses the Heimdall-authorized principal from the bearer token
func (s *OptInService) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, err := s.authenticate(r)
		if err != nil {
			wrapError(ctx, w, lfxerrors.NewUnauthorized("admin authentication required", err))
			return
		}
		next(w, r.WithContext(ctx))
	}
}

// requireStorefront only lets submissions relayed by the storefront backend
// through. Rejected callers still get 204 and nothing is subscribed.
func (s *OptInService) requireStorefront(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, err := s.authenticate(r)
		if err != nil {
			slog.WarnContext(ctx, "opt-in submission rejected: caller not authenticated",
				"path", r.URL.Path,
				"error", err,
			)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r.WithContext(ctx))
	}
}

// authenticate stores the bearer token principal in the request context
func (s *OptInService) authenticate(r *http.Request) (context.Context, error) {
	ctx := r.Context()

	principal, err := s.Auth.ParsePrincipal(ctx, r.Header.Get(constants.AuthorizationHeader), slog.Default())
	if err != nil {
		return ctx, err
	}

	ctx = context.WithValue(ctx, constants.PrincipalContextID, principal)
	return log.AppendCtx(ctx, slog.String("principal", principal)), nil
}

// Livez implements the livez endpoint for liveness probes.
func (s *OptInService) Livez(w http.ResponseWriter, r *http.Request) {
	slog.DebugContext(r.Context(), "liveness check completed successfully")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}

// AdminScript serves the settings page script
func (s *OptInService) AdminScript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	_, _ = w.Write(render.AdminScript())
}

// SettingsPage renders the admin settings page with the current lists
func (s *OptInService) SettingsPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	view := render.SettingsView{
		Saved: query.Get("saved") == "1",
	}
	if query.Get("sl_activation") == "false" {
		view.LicenseMessage = query.Get("message")
	}

	s.renderSettings(ctx, w, http.StatusOK, view)
}

// renderSettings completes view with the stored settings, lists and tokens
func (s *OptInService) renderSettings(ctx context.Context, w http.ResponseWriter, status int, view render.SettingsView) {
	cfg, err := s.Settings.Load(ctx)
	if err != nil {
		wrapError(ctx, w, err)
		return
	}

	settingsToken, err := s.Tokens.Issue(ctx, constants.TokenActionSettings)
	if err != nil {
		wrapError(ctx, w, err)
		return
	}
	licenseToken, err := s.Tokens.Issue(ctx, constants.TokenActionLicense)
	if err != nil {
		wrapError(ctx, w, err)
		return
	}

	view.Config = *cfg
	view.Lists = s.Lists.FetchLists(ctx, cfg.APIKey, cfg.ListID)
	view.SettingsToken = settingsToken
	view.LicenseToken = licenseToken
	view.ActionURL = SettingsPath
	view.UpdateListsURL = UpdateListsPath
	view.ScriptURL = AdminScriptPath

	html, err := s.Renderer.SettingsPage(view)
	if err != nil {
		wrapError(ctx, w, err)
		return
	}
	writeHTML(ctx, w, status, html)
}

// SaveSettings stores the posted settings, then runs the license action if a
// license button was pressed, and redirects back to the settings page
func (s *OptInService) SaveSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	form, err := parseForm(w, r)
	if err != nil {
		wrapError(ctx, w, err)
		return
	}

	update := convertFormToConfigurationUpdate(form)
	if _, err := s.Settings.Save(ctx, form.Get(constants.FieldSettingsToken), update); err != nil {
		var validation lfxerrors.Validation
		if errors.As(err, &validation) {
			s.renderSettings(ctx, w, http.StatusBadRequest, render.SettingsView{Errors: []string{validationMessage(err)}})
			return
		}
		var conflict lfxerrors.Conflict
		if errors.As(err, &conflict) {
			s.renderSettings(ctx, w, http.StatusConflict, render.SettingsView{Errors: []string{validationMessage(err)}})
			return
		}
		wrapError(ctx, w, err)
		return
	}

	action, ok := licenseActionFromForm(form)
	if !ok {
		http.Redirect(w, r, SettingsPath+"?saved=1", http.StatusSeeOther)
		return
	}

	licenseToken := form.Get(constants.FieldLicenseToken)
	if action == model.LicenseActionActivate {
		err = s.Licenses.Activate(ctx, licenseToken)
	} else {
		err = s.Licenses.Deactivate(ctx, licenseToken)
	}
	if err != nil {
		var license lfxerrors.License
		if errors.As(err, &license) {
			query := url.Values{
				"sl_activation": {"false"},
				"message":       {license.Message()},
			}
			http.Redirect(w, r, SettingsPath+"?"+query.Encode(), http.StatusSeeOther)
			return
		}
		var validation lfxerrors.Validation
		if errors.As(err, &validation) {
			s.renderSettings(ctx, w, http.StatusBadRequest, render.SettingsView{Errors: []string{validationMessage(err)}})
			return
		}
		wrapError(ctx, w, err)
		return
	}

	http.Redirect(w, r, SettingsPath+"?saved=1", http.StatusSeeOther)
}

// UpdateLists answers the settings page script with a fresh list selector.
// A request arriving while a refresh is running gets 204.
func (s *OptInService) UpdateLists(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	form, err := parseForm(w, r)
	if err != nil {
		wrapError(ctx, w, err)
		return
	}

	cfg, err := s.Settings.Load(ctx)
	if err != nil {
		wrapError(ctx, w, err)
		return
	}

	result, accepted := s.Refresher.Refresh(ctx, form.Get(constants.FieldAPIKeyAjax), cfg.ListID)
	if !accepted {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	html, err := s.Renderer.ListSelector(result)
	if err != nil {
		wrapError(ctx, w, err)
		return
	}
	writeHTML(ctx, w, http.StatusOK, html)
}

// Checkbox renders the storefront opt-in checkbox. The body is empty when no
// API key is configured.
func (s *OptInService) Checkbox(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cfg, err := s.Settings.Load(ctx)
	if err != nil {
		wrapError(ctx, w, err)
		return
	}

	html, err := s.Renderer.OptInCheckbox(*cfg)
	if err != nil {
		wrapError(ctx, w, err)
		return
	}
	writeHTML(ctx, w, http.StatusOK, html)
}

// SubmitRegistration processes a registration form. It always answers 204
// so the storefront flow never fails because of the opt-in.
func (s *OptInService) SubmitRegistration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	defer w.WriteHeader(http.StatusNoContent)

	form, cfg, ok := s.optInInput(ctx, w, r)
	if !ok {
		return
	}

	submission := convertFormToOptInSubmission(form)
	if err := s.Processor.ProcessOptIn(ctx, *cfg, submission); err != nil {
		slog.WarnContext(ctx, "registration opt-in failed",
			"email", redaction.RedactEmail(submission.Email),
			"error", err,
		)
	}
}

// SubmitGuest processes a guest checkout form, always answering 204. The
// guest is only subscribed when the opt-in box was ticked.
func (s *OptInService) SubmitGuest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	defer w.WriteHeader(http.StatusNoContent)

	form, cfg, ok := s.optInInput(ctx, w, r)
	if !ok {
		return
	}

	submission := convertFormToOptInSubmission(form)
	if err := s.Processor.ProcessGuestSubmission(ctx, *cfg, submission); err != nil {
		slog.WarnContext(ctx, "guest opt-in failed",
			"email", redaction.RedactEmail(submission.Email),
			"error", err,
		)
	}
}

// optInInput parses the storefront form and loads the settings, logging failures
func (s *OptInService) optInInput(ctx context.Context, w http.ResponseWriter, r *http.Request) (url.Values, *model.Configuration, bool) {
	form, err := parseForm(w, r)
	if err != nil {
		slog.WarnContext(ctx, "failed to parse opt-in form", "error", err)
		return nil, nil, false
	}

	cfg, err := s.Settings.Load(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load settings for opt-in", "error", err)
		return nil, nil, false
	}
	return form, cfg, true
}

func parseForm(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return nil, lfxerrors.NewValidation("invalid form submission", err)
	}
	return r.PostForm, nil
}

// validationMessage strips the wrapped cause so only the user facing text is shown
func validationMessage(err error) string {
	message := err.Error()
	if i := strings.Index(message, ": "); i > 0 {
		return message[:i]
	}
	return message
}

func writeHTML(ctx context.Context, w http.ResponseWriter, status int, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(html)); err != nil {
		slog.ErrorContext(ctx, "failed to write response", "error", err)
	}
}
