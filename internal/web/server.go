// Package web is the local companion UI: pill search, drug details,
// bookmarks, reminders, prescriptions and the health calculators.
package web

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strconv"
	"time"

	"pillscout/internal/domain"
	"pillscout/internal/drugapi"
	"pillscout/internal/health"
	"pillscout/internal/reminder"
	"pillscout/internal/storage"
)

//go:embed all:static
var staticFiles embed.FS

//go:embed all:templates
var templateFiles embed.FS

// Server holds the dependencies for the HTTP server.
type Server struct {
	db        *storage.DB
	client    *drugapi.Client
	reminders *reminder.Service
	router    *http.ServeMux
	templates *template.Template
}

// NewServer creates and configures a new server.
func NewServer(db *storage.DB, client *drugapi.Client, reminders *reminder.Service) *Server {
	tpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}

	s := &Server{
		db:        db,
		client:    client,
		reminders: reminders,
		router:    http.NewServeMux(),
		templates: tpl,
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// routes sets up the routing for the server.
func (s *Server) routes() {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		log.Fatalf("Failed to create sub-filesystem for static assets: %v", err)
	}
	s.router.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.router.HandleFunc("/", s.handleHome())
	s.router.HandleFunc("/search", s.handleSearch())
	s.router.HandleFunc("/drugs", s.handleDrugSearch())
	s.router.HandleFunc("/drugs/details", s.handleDrugDetails())
	s.router.HandleFunc("/suggest", s.handleSuggest())
	s.router.HandleFunc("/diseases", s.handleDisease())

	s.router.HandleFunc("/bookmarks", s.handleBookmarks())
	s.router.HandleFunc("/bookmarks/toggle", s.handleToggleBookmark())
	s.router.HandleFunc("/bookmarks/delete", s.handleDeleteBookmark())

	s.router.HandleFunc("/reminders", s.handleReminders())
	s.router.HandleFunc("/reminders/taken", s.handleReminderTaken())
	s.router.HandleFunc("/reminders/delete", s.handleDeleteReminder())

	s.router.HandleFunc("/prescriptions", s.handlePrescriptions())
	s.router.HandleFunc("/prescriptions/delete", s.handleDeletePrescription())

	s.router.HandleFunc("/calculators", s.handleCalculators())
	s.router.HandleFunc("/calculators/bmi", s.handleBMI())
	s.router.HandleFunc("/calculators/bloodpressure", s.handleBloodPressure())
	s.router.HandleFunc("/calculators/bloodsugar", s.handleBloodSugar())
	s.router.HandleFunc("/calculators/pulse", s.handlePulse())
	s.router.HandleFunc("/calculators/cholesterol", s.handleCholesterol())
}

func (s *Server) handleHome() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		s.templates.ExecuteTemplate(w, "home", nil)
	}
}

// handleSearch renders one page of visual-criteria search results with a
// link to the next page while more pages remain.
func (s *Server) handleSearch() http.HandlerFunc {
	type pageData struct {
		Pills                 []domain.Pill
		Last                  bool
		Imprint, Color, Shape string
		NextPage              int
	}
	return func(w http.ResponseWriter, r *http.Request) {
		imprint := r.URL.Query().Get("imprint")
		color := r.URL.Query().Get("color")
		shape := r.URL.Query().Get("shape")
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 {
			page = 1
		}

		result, err := s.client.SearchPills(r.Context(), imprint, color, shape, page)
		if err != nil {
			log.Printf("Error searching pills: %v", err)
			http.Error(w, "Unable to fetch pills", http.StatusBadGateway)
			return
		}

		s.templates.ExecuteTemplate(w, "pills", pageData{
			Pills:    result.Pills,
			Last:     result.Last,
			Imprint:  imprint,
			Color:    color,
			Shape:    shape,
			NextPage: page + 1,
		})
	}
}

func (s *Server) handleDrugSearch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "" {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/drugs/details?name="+name, http.StatusSeeOther)
	}
}

func (s *Server) handleDrugDetails() http.HandlerFunc {
	type detailsData struct {
		DrugName   string
		Details    *domain.DrugDetails
		Bookmarked bool
	}
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "" {
			http.NotFound(w, r)
			return
		}

		details, err := s.client.DrugDetails(r.Context(), name)
		if err != nil {
			if !errors.Is(err, drugapi.ErrNotFound) {
				log.Printf("Error loading drug details for %s: %v", name, err)
			}
			s.templates.ExecuteTemplate(w, "drug_not_found", nil)
			return
		}

		labeler := r.URL.Query().Get("labeler")
		if labeler == "" {
			labeler = details.Manufacturer
		}
		imprint := r.URL.Query().Get("imprint")
		if imprint == "" {
			imprint = details.Imprint
		}

		existing, err := s.db.FindBookmark(name, labeler, imprint)
		if err != nil {
			log.Printf("Error checking bookmark for %s: %v", name, err)
		}

		s.templates.ExecuteTemplate(w, "drug", detailsData{
			DrugName:   name,
			Details:    details,
			Bookmarked: existing != nil,
		})
	}
}

// handleSuggest serves autocomplete suggestions as JSON. The caller sends
// a monotonically increasing seq with each request and discards responses
// whose seq is older than the latest one issued: last response wins, so a
// slow early request cannot overwrite fresher suggestions.
func (s *Server) handleSuggest() http.HandlerFunc {
	type suggestResponse struct {
		Seq         int64    `json:"seq"`
		Suggestions []string `json:"suggestions"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		seq, _ := strconv.ParseInt(q.Get("seq"), 10, 64)
		term := q.Get("term")

		var suggestions []string
		switch q.Get("kind") {
		case "imprint":
			suggestions = s.client.SuggestImprints(r.Context(), term)
		default:
			medType := q.Get("med_type")
			if medType == "" {
				medType = "b"
			}
			suggestions = s.client.SuggestNames(r.Context(), term, medType)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(suggestResponse{Seq: seq, Suggestions: suggestions})
	}
}

func (s *Server) handleDisease() http.HandlerFunc {
	type diseaseData struct {
		Term    string
		Summary template.HTML
	}
	return func(w http.ResponseWriter, r *http.Request) {
		term := r.URL.Query().Get("term")
		summary, err := s.client.DiseaseSummary(r.Context(), term)
		if err != nil {
			log.Printf("Error fetching disease summary for %s: %v", term, err)
			summary = ""
		}
		s.templates.ExecuteTemplate(w, "disease", diseaseData{
			Term:    term,
			Summary: template.HTML(summary),
		})
	}
}

func (s *Server) renderBookmarks(w http.ResponseWriter) {
	bookmarks, err := s.db.ListBookmarks()
	if err != nil {
		log.Printf("Error listing bookmarks: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	s.templates.ExecuteTemplate(w, "bookmarks", map[string]interface{}{
		"Bookmarks": bookmarks,
	})
}

func (s *Server) handleBookmarks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.renderBookmarks(w)
	}
}

func (s *Server) handleToggleBookmark() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		drugName := r.PostFormValue("drug_name")
		if drugName == "" {
			http.Error(w, "Drug name cannot be empty", http.StatusBadRequest)
			return
		}

		added, err := s.db.ToggleBookmark(drugName, r.PostFormValue("labeler"), r.PostFormValue("imprint"))
		if err != nil {
			log.Printf("Error toggling bookmark for %s: %v", drugName, err)
			http.Error(w, "Failed to update bookmark", http.StatusInternalServerError)
			return
		}
		log.Printf("Bookmark for %s toggled, added=%v", drugName, added)

		if referer := r.Header.Get("Referer"); referer != "" {
			http.Redirect(w, r, referer, http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/bookmarks", http.StatusSeeOther)
	}
}

func (s *Server) handleDeleteBookmark() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		id, err := strconv.ParseInt(r.PostFormValue("id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid bookmark ID", http.StatusBadRequest)
			return
		}
		if err := s.db.DeleteBookmark(id); err != nil {
			log.Printf("Error deleting bookmark %d: %v", id, err)
			http.Error(w, "Failed to delete bookmark", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/bookmarks", http.StatusSeeOther)
	}
}

func (s *Server) renderReminders(w http.ResponseWriter) {
	reminders, err := s.reminders.List()
	if err != nil {
		log.Printf("Error listing reminders: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	s.templates.ExecuteTemplate(w, "reminders", map[string]interface{}{
		"Reminders":        reminders,
		"DoseForms":        domain.DoseForms,
		"DoseInstructions": domain.DoseInstructions,
	})
}

func (s *Server) handleReminders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s.renderReminders(w)
		case http.MethodPost:
			s.handleCreateReminder(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) handleCreateReminder(w http.ResponseWriter, r *http.Request) {
	at, err := parseReminderTime(r.PostFormValue("time"))
	if err != nil {
		http.Error(w, "Invalid reminder time", http.StatusBadRequest)
		return
	}

	_, err = s.reminders.Create(r.Context(), reminder.Input{
		DrugName:     r.PostFormValue("drug_name"),
		Shape:        r.PostFormValue("shape"),
		Instructions: r.PostFormValue("instructions"),
		ShapeImage:   r.PostFormValue("shape_image"),
		At:           at,
	})
	if err != nil {
		log.Printf("Error creating reminder: %v", err)
		http.Error(w, "Failed to save reminder", http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/reminders", http.StatusSeeOther)
}

// parseReminderTime accepts the browser's datetime-local format as well as
// RFC 3339.
func parseReminderTime(value string) (time.Time, error) {
	if at, err := time.Parse("2006-01-02T15:04", value); err == nil {
		return at, nil
	}
	return time.Parse(time.RFC3339, value)
}

func (s *Server) handleReminderTaken() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		id, err := strconv.ParseInt(r.PostFormValue("id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid reminder ID", http.StatusBadRequest)
			return
		}
		if err := s.reminders.MarkTaken(id, time.Now()); err != nil {
			log.Printf("Error marking reminder %d taken: %v", id, err)
			http.Error(w, "Failed to update reminder", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/reminders", http.StatusSeeOther)
	}
}

func (s *Server) handleDeleteReminder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		id, err := strconv.ParseInt(r.PostFormValue("id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid reminder ID", http.StatusBadRequest)
			return
		}
		if err := s.reminders.Delete(id); err != nil {
			log.Printf("Error deleting reminder %d: %v", id, err)
			http.Error(w, "Failed to delete reminder", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/reminders", http.StatusSeeOther)
	}
}

func (s *Server) renderPrescriptions(w http.ResponseWriter) {
	prescriptions, err := s.db.ListPrescriptions()
	if err != nil {
		log.Printf("Error listing prescriptions: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	s.templates.ExecuteTemplate(w, "prescriptions", map[string]interface{}{
		"Prescriptions": prescriptions,
	})
}

func (s *Server) handlePrescriptions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s.renderPrescriptions(w)
		case http.MethodPost:
			s.handleCreatePrescription(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) handleCreatePrescription(w http.ResponseWriter, r *http.Request) {
	title := r.PostFormValue("title")
	front := r.PostFormValue("front_image")
	if title == "" || front == "" {
		http.Error(w, "Title and front image are required", http.StatusBadRequest)
		return
	}

	_, err := s.db.InsertPrescription(domain.Prescription{
		Title:       title,
		Description: r.PostFormValue("description"),
		FrontImage:  front,
		BackImage:   r.PostFormValue("back_image"),
	})
	if err != nil {
		log.Printf("Error saving prescription: %v", err)
		http.Error(w, "Failed to save prescription", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/prescriptions", http.StatusSeeOther)
}

func (s *Server) handleDeletePrescription() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		id, err := strconv.ParseInt(r.PostFormValue("id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid prescription ID", http.StatusBadRequest)
			return
		}
		if err := s.db.DeletePrescription(id); err != nil {
			log.Printf("Error deleting prescription %d: %v", id, err)
			http.Error(w, "Failed to delete prescription", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/prescriptions", http.StatusSeeOther)
	}
}

func (s *Server) handleCalculators() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderCalculators(w, "")
	}
}

func (s *Server) renderCalculators(w http.ResponseWriter, result string) {
	s.templates.ExecuteTemplate(w, "calculators", map[string]interface{}{
		"Result": result,
	})
}

func (s *Server) handleBMI() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		weight, _ := strconv.ParseFloat(r.PostFormValue("weight"), 64)
		feet, _ := strconv.ParseFloat(r.PostFormValue("feet"), 64)
		inches, _ := strconv.ParseFloat(r.PostFormValue("inches"), 64)

		res, err := health.BMI(weight, feet, inches)
		if err != nil {
			s.renderCalculators(w, "Please enter valid weight and height values.")
			return
		}
		s.renderCalculators(w, fmt.Sprintf("BMI %.2f - %s", res.Value, res.Category))
	}
}

func (s *Server) handleBloodPressure() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sys, _ := strconv.Atoi(r.PostFormValue("systolic"))
		dia, _ := strconv.Atoi(r.PostFormValue("diastolic"))

		res, err := health.BloodPressure(sys, dia)
		if err != nil {
			s.renderCalculators(w, "Please enter valid blood pressure values.")
			return
		}
		s.renderCalculators(w, fmt.Sprintf("%s - %s", res.Result, res.Advice))
	}
}

func (s *Server) handleBloodSugar() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		level, _ := strconv.ParseFloat(r.PostFormValue("level"), 64)
		fasting := r.PostFormValue("time") == "fasting"

		res, err := health.BloodSugar(level, fasting)
		if err != nil {
			s.renderCalculators(w, "Please enter a valid blood sugar level.")
			return
		}
		s.renderCalculators(w, fmt.Sprintf("%.0f mg/dL - %s", level, res))
	}
}

func (s *Server) handlePulse() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bpm, _ := strconv.Atoi(r.PostFormValue("bpm"))

		res, err := health.PulseRate(bpm)
		if err != nil {
			s.renderCalculators(w, "Please enter a valid pulse rate.")
			return
		}
		s.renderCalculators(w, fmt.Sprintf("%d bpm - %s", bpm, res))
	}
}

func (s *Server) handleCholesterol() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		total, _ := strconv.ParseFloat(r.PostFormValue("total"), 64)
		hdl, _ := strconv.ParseFloat(r.PostFormValue("hdl"), 64)

		ratio, err := health.CholesterolRatio(total, hdl)
		if err != nil {
			s.renderCalculators(w, "Please enter valid cholesterol values.")
			return
		}
		s.renderCalculators(w, fmt.Sprintf("Total/HDL ratio: %s", ratio))
	}
}
