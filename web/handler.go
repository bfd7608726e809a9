// Package web serves the task dashboard: server-rendered HTML pages and the
// small JSON API the pages call.
package web

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	internalstrings "github.com/amonks/taskboard/internal/strings"
	"github.com/amonks/taskboard/task"
	"github.com/rs/zerolog"
)

// Options configures the web handler.
type Options struct {
	Service *task.Service

	// Logger receives request failures. Defaults to a disabled logger.
	Logger *zerolog.Logger
}

// Handler serves the task dashboard.
type Handler struct {
	svc       *task.Service
	log       zerolog.Logger
	mux       *http.ServeMux
	templates *templateWrapper
}

// NewHandler creates a new web handler.
func NewHandler(opts Options) *Handler {
	handler := &Handler{
		svc:       opts.Service,
		log:       zerolog.Nop(),
		templates: newTemplateWrapper(),
	}
	if opts.Logger != nil {
		handler.log = opts.Logger.With().Str("cmp", "web").Logger()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/{$}", handler.handleDashboard)
	for _, view := range []task.ViewName{task.ViewPending, task.ViewCompleted, task.ViewOverdue, task.ViewSaved, task.ViewDeleted} {
		mux.HandleFunc("/"+string(view), handler.handleView(view))
	}
	mux.HandleFunc("/search", handler.handleSearch)
	mux.HandleFunc("/add", handler.handleAdd)
	mux.HandleFunc("/edit/{ref}", handler.handleEdit)

	mux.HandleFunc("/complete/{ref}", handler.handleAction(handler.complete))
	mux.HandleFunc("/delete/{ref}", handler.handleAction(handler.svc.SoftDelete))
	mux.HandleFunc("/restore/{ref}", handler.handleAction(handler.svc.Restore))
	mux.HandleFunc("/permanent-delete/{ref}", handler.handleAction(handler.svc.PermanentDelete))
	mux.HandleFunc("/save/{ref}", handler.handleAction(handler.svc.Save))
	mux.HandleFunc("/unsave/{ref}", handler.handleAction(handler.svc.Unsave))

	mux.HandleFunc("/api/task/{ref}", handler.handleTaskDetails)
	mux.HandleFunc("/api/bulk-action", handler.handleBulkAction)
	mux.HandleFunc("/api/stats", handler.handleStats)
	mux.HandleFunc("/api/digest", handler.handleDigest)
	mux.HandleFunc("/assist", handler.handleAssist)
	handler.mux = mux

	return handler
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

type templateWrapper struct {
	tmpl *template.Template
}

func newTemplateWrapper() *templateWrapper {
	return &templateWrapper{tmpl: newTemplates()}
}

func (tw *templateWrapper) Render(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = tw.tmpl.ExecuteTemplate(w, "page", data)
}

type selectOption struct {
	Value string
	Label string
}

type pageData struct {
	// Page selects the body template: dashboard, list, search, or form.
	Page  string
	Title string
	Tab   string

	Dashboard task.Dashboard
	Items     []task.Annotated
	View      task.ViewName

	Query string

	Sort        task.SortMode
	SortOptions []selectOption

	Form              taskFormValues
	EditRef           string
	Error             string
	RecurrenceOptions []selectOption
}

type taskFormValues struct {
	Title       string
	Due         string
	Description string
	Recurrence  string
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	mode := h.requestSort(r)
	h.templates.Render(w, http.StatusOK, pageData{
		Page:        "dashboard",
		Title:       "Dashboard",
		Tab:         "dashboard",
		Dashboard:   h.svc.Dashboard(r.Context(), mode),
		Sort:        mode,
		SortOptions: sortOptions(),
	})
}

func (h *Handler) handleView(view task.ViewName) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w, http.MethodGet)
			return
		}
		mode := h.requestSort(r)
		items, err := h.svc.View(r.Context(), view, mode)
		if err != nil {
			h.log.Error().Err(err).Str("view", string(view)).Msg("build view")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		h.templates.Render(w, http.StatusOK, pageData{
			Page:        "list",
			Title:       viewTitle(view),
			Tab:         string(view),
			Items:       items,
			View:        view,
			Sort:        mode,
			SortOptions: sortOptions(),
		})
	}
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	query := trimmedQueryValue(r, "q")
	h.templates.Render(w, http.StatusOK, pageData{
		Page:  "search",
		Title: "Search",
		Tab:   "search",
		Query: query,
		Items: h.svc.Search(r.Context(), query),
	})
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		Page:              "form",
		Title:             "Add task",
		Tab:               "add",
		Form:              taskFormValues{Recurrence: string(task.RecurrenceNone)},
		RecurrenceOptions: recurrenceOptions(),
	}
	switch r.Method {
	case http.MethodGet:
		h.templates.Render(w, http.StatusOK, data)
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			data.Error = "invalid form input"
			h.templates.Render(w, http.StatusBadRequest, data)
			return
		}
		data.Form = taskFormValuesFromRequest(r)
		_, err := h.svc.Add(r.Context(), data.Form.addOptions())
		if err != nil {
			data.Error = formError(err)
			h.templates.Render(w, statusForError(err), data)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		writeMethodNotAllowed(w, http.MethodGet+", "+http.MethodPost)
	}
}

func (h *Handler) handleEdit(w http.ResponseWriter, r *http.Request) {
	ref := r.PathValue("ref")
	data := pageData{
		Page:              "form",
		Title:             "Edit task",
		EditRef:           ref,
		RecurrenceOptions: recurrenceOptions(),
	}
	switch r.Method {
	case http.MethodGet:
		item, err := h.svc.Show(r.Context(), ref)
		if err != nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		data.Form = taskFormValuesFromTask(item.Task)
		h.templates.Render(w, http.StatusOK, data)
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			data.Error = "invalid form input"
			h.templates.Render(w, http.StatusBadRequest, data)
			return
		}
		data.Form = taskFormValuesFromRequest(r)
		_, err := h.svc.Edit(r.Context(), ref, data.Form.editOptions())
		if err != nil {
			if isUnknownRef(err) {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			data.Error = formError(err)
			h.templates.Render(w, statusForError(err), data)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		writeMethodNotAllowed(w, http.MethodGet+", "+http.MethodPost)
	}
}

func (h *Handler) requestSort(r *http.Request) task.SortMode {
	value := trimmedQueryValue(r, "sort")
	if value == "" {
		return h.svc.DefaultSort()
	}
	mode, err := task.ParseSortMode(value)
	if err != nil {
		h.log.Debug().Err(err).Msg("ignoring sort parameter")
		return h.svc.DefaultSort()
	}
	return mode
}

func taskFormValuesFromRequest(r *http.Request) taskFormValues {
	return taskFormValues{
		Title:       trimmedFormValue(r, "task"),
		Due:         trimmedFormValue(r, "due"),
		Description: trimmedFormValue(r, "description"),
		Recurrence:  trimmedFormValue(r, "recurrence"),
	}
}

func taskFormValuesFromTask(t task.Task) taskFormValues {
	recurrence := t.Recurrence
	if recurrence == "" {
		recurrence = task.RecurrenceNone
	}
	return taskFormValues{
		Title:       t.Title,
		Due:         t.Due,
		Description: t.Description,
		Recurrence:  string(recurrence),
	}
}

func (values taskFormValues) addOptions() task.AddOptions {
	return task.AddOptions{
		Title:       values.Title,
		Due:         values.Due,
		Description: values.Description,
		Recurrence:  task.Recurrence(values.Recurrence),
	}
}

// editOptions replaces every editable field. A form without a recurrence
// field keeps the stored pattern.
func (values taskFormValues) editOptions() task.EditOptions {
	opts := task.EditOptions{
		Title:       &values.Title,
		Due:         &values.Due,
		Description: &values.Description,
	}
	if values.Recurrence != "" {
		recurrence := task.Recurrence(values.Recurrence)
		opts.Recurrence = &recurrence
	}
	return opts
}

func formError(err error) string {
	switch {
	case errors.Is(err, task.ErrEmptyTitle):
		return "Task name cannot be empty."
	case errors.Is(err, task.ErrInvalidDue):
		return "Invalid date format. Use mm/dd/yyyy."
	default:
		return err.Error()
	}
}

func viewTitle(view task.ViewName) string {
	name := string(view)
	return strings.ToUpper(name[:1]) + name[1:] + " tasks"
}

func sortOptions() []selectOption {
	labels := map[task.SortMode]string{
		task.SortPriorityHigh: "Priority (urgent first)",
		task.SortPriorityLow:  "Priority (urgent last)",
		task.SortDateOldest:   "Due date (soonest)",
		task.SortDateNewest:   "Due date (latest)",
		task.SortAlphaAsc:     "Name (A-Z)",
		task.SortAlphaDesc:    "Name (Z-A)",
	}
	options := make([]selectOption, 0, len(task.ValidSortModes()))
	for _, mode := range task.ValidSortModes() {
		options = append(options, selectOption{Value: string(mode), Label: labels[mode]})
	}
	return options
}

func recurrenceOptions() []selectOption {
	options := make([]selectOption, 0, len(task.ValidRecurrences()))
	for _, recurrence := range task.ValidRecurrences() {
		options = append(options, selectOption{Value: string(recurrence), Label: string(recurrence)})
	}
	return options
}

func trimmedQueryValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

func trimmedFormValue(r *http.Request, key string) string {
	return strings.TrimSpace(internalstrings.NormalizeNewlines(r.FormValue(key)))
}

func writeMethodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}
