package server

import (
	"bytes"
	"embed"
	stderrors "errors"
	"html/template"
	"math"
	"net/http"
	"time"

	"salaryinsights/internal/formatters"
	"salaryinsights/internal/observability"
	"salaryinsights/internal/orchestration"
	"salaryinsights/internal/schema"
	"salaryinsights/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

//go:embed templates/*.html
var templateFS embed.FS

type pageRenderer struct {
	tmpl *template.Template
}

func newPageRenderer() *pageRenderer {
	funcs := template.FuncMap{
		"add":  func(a, b float64) float64 { return a + b },
		"sub":  func(a, b float64) float64 { return a - b },
		"half": func(a float64) float64 { return a / 2 },
	}
	return &pageRenderer{
		tmpl: template.Must(template.New("pages").Funcs(funcs).ParseFS(templateFS, "templates/*.html")),
	}
}

// render executes the template into a buffer first so a failing template
// never leaves a half written page behind
func (p *pageRenderer) render(w http.ResponseWriter, status int, data pageData) error {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, "index", data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

type experienceOption struct {
	Value    string
	Label    string
	Selected bool
}

type pageData struct {
	Snapshot    orchestration.Snapshot
	Form        schema.RawProfile
	Errors      schema.FieldErrors
	Experiences []experienceOption
	Chart       *chartView
	Loading     bool
	HasResult   bool
	Refresh     int // seconds, zero disables the meta refresh
}

func (s *Server) newPageData(snap orchestration.Snapshot, form schema.RawProfile, fieldErrs schema.FieldErrors) pageData {
	data := pageData{
		Snapshot:  snap,
		Form:      form,
		Errors:    fieldErrs,
		Loading:   snap.State == orchestration.StateLoading,
		HasResult: snap.State == orchestration.StateResult,
	}
	for _, level := range types.ExperienceLevels {
		data.Experiences = append(data.Experiences, experienceOption{
			Value:    string(level),
			Label:    level.Label(),
			Selected: form.Experience == string(level),
		})
	}
	if data.HasResult {
		data.Chart = buildChart(snap.Estimate, s.Money)
	}
	if snap.Busy() {
		data.Refresh = refreshSeconds(s.Web.RefreshInterval)
	}
	return data
}

func refreshSeconds(interval time.Duration) int {
	seconds := int(math.Ceil(interval.Seconds()))
	if seconds < 1 {
		return 1
	}
	return seconds
}

// formFromProfile pre-fills the form with the last captured profile
func formFromProfile(snap orchestration.Snapshot) schema.RawProfile {
	if !snap.HasProfile {
		return schema.RawProfile{}
	}
	p := snap.Profile
	return schema.RawProfile{
		JobRole:        p.JobRole,
		Experience:     string(p.Experience),
		Location:       p.Location,
		Skills:         p.Skills,
		JobDescription: p.JobDescription,
	}
}

func (s *Server) cookieName() string {
	if s.Web.SessionCookie == "" {
		return "salary_insights_session"
	}
	return s.Web.SessionCookie
}

// sessionFor returns the caller's controller, starting a session and setting
// its cookie when the request carries none or an expired one
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) *orchestration.Controller {
	var id string
	if cookie, err := r.Cookie(s.cookieName()); err == nil {
		id = cookie.Value
	}

	id, ctrl, created := s.Sessions.GetOrCreate(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     s.cookieName(),
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			Secure:   s.Web.SecureCookie,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return ctrl
}

// existingSession looks up the caller's controller without creating one
func (s *Server) existingSession(r *http.Request) (*orchestration.Controller, bool) {
	cookie, err := r.Cookie(s.cookieName())
	if err != nil {
		return nil, false
	}
	return s.Sessions.Get(cookie.Value)
}

func (s *Server) renderPage(w http.ResponseWriter, status int, data pageData) {
	if err := s.pages.render(w, status, data); err != nil {
		s.Logger.LogError(err, "Failed to render page")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

func redirectHome(w http.ResponseWriter, r *http.Request, fragment string) {
	http.Redirect(w, r, "/"+fragment, http.StatusSeeOther)
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	ctrl := s.sessionFor(w, r)
	snap := ctrl.Snapshot()
	s.renderPage(w, http.StatusOK, s.newPageData(snap, formFromProfile(snap), nil))
}

// predictHandler validates the form and starts a prediction. Invalid input is
// rendered back with field messages and never reaches the provider.
func (s *Server) predictHandler(w http.ResponseWriter, r *http.Request) {
	ctrl := s.sessionFor(w, r)

	if err := r.ParseForm(); err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	raw := schema.RawProfile{
		JobRole:        r.PostFormValue(schema.FieldJobRole),
		Experience:     r.PostFormValue(schema.FieldExperience),
		Location:       r.PostFormValue(schema.FieldLocation),
		Skills:         r.PostFormValue(schema.FieldSkills),
		JobDescription: r.PostFormValue(schema.FieldJobDescription),
	}

	profile, fieldErrs := schema.ValidateProfile(raw)
	if len(fieldErrs) > 0 {
		s.Logger.Debug("Rejected job profile", "fields", fieldErrs.Fields())
		s.renderPage(w, http.StatusUnprocessableEntity, s.newPageData(ctrl.Snapshot(), raw, fieldErrs))
		return
	}

	generation := ctrl.Submit(profile)
	s.Logger.Debug("Salary prediction started", "generation", generation)
	redirectHome(w, r, "")
}

func (s *Server) regenerateHandler(w http.ResponseWriter, r *http.Request) {
	ctrl := s.sessionFor(w, r)
	if _, err := ctrl.Regenerate(); err != nil {
		s.Logger.Debug("Regenerate ignored", "reason", err.Error())
	}
	redirectHome(w, r, "")
}

func (s *Server) dismissHandler(w http.ResponseWriter, r *http.Request) {
	s.sessionFor(w, r).Dismiss()
	redirectHome(w, r, "")
}

func (s *Server) skillsHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.sessionFor(w, r).SuggestSkills(); err != nil {
		s.Logger.Debug("Skill suggestion ignored", "reason", err.Error())
	}
	redirectHome(w, r, "#skills")
}

func (s *Server) coverLetterHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.sessionFor(w, r).GenerateCoverLetter(); err != nil {
		s.Logger.Debug("Cover letter request ignored", "reason", err.Error())
	}
	redirectHome(w, r, "#cover-letter")
}

// currentLetter returns the finished cover letter of the caller's session
func (s *Server) currentLetter(r *http.Request) (orchestration.Snapshot, bool) {
	ctrl, ok := s.existingSession(r)
	if !ok {
		return orchestration.Snapshot{}, false
	}
	snap := ctrl.Snapshot()
	return snap, snap.CoverLetter.HasValue
}

func (s *Server) coverLetterTextHandler(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.currentLetter(r)
	if !ok {
		http.Error(w, "No cover letter available", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="cover-letter.txt"`)
	_, _ = w.Write([]byte(snap.CoverLetter.Value))
}

func (s *Server) coverLetterPDFHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, ok := s.currentLetter(r)
		if !ok {
			http.Error(w, "No cover letter available", http.StatusNotFound)
			return
		}

		metrics := om.GetMetrics()
		data, err := formatters.CoverLetterPDF(types.CoverLetter{Text: snap.CoverLetter.Value}, snap.Profile.JobRole)
		if err != nil {
			s.Logger.LogError(err, "Failed to render cover letter PDF")
			metrics.RecordBusinessMetric(r.Context(), observability.MetricCoverLetterExported, false, om,
				attribute.String("format", "pdf"))
			http.Error(w, "Failed to render PDF", http.StatusInternalServerError)
			return
		}

		metrics.RecordBusinessMetric(r.Context(), observability.MetricCoverLetterExported, true, om,
			attribute.String("format", "pdf"),
			attribute.Int("output.size_bytes", len(data)))

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="cover-letter.pdf"`)
		_, _ = w.Write(data)
	}
}
