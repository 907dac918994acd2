package api

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"noteshub.in/noteshub/internal/core"
	"noteshub.in/noteshub/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

// Classes offered in the upload form and the student filter, as in the
// original CBSE portal.
var classOptions = []string{"IX", "X", "XI", "XII"}

const (
	maxUploadBytes  = 32 << 20 // multipart memory cap, matches typical PDF sizes
	browsePageSize  = 20
	uploadFieldName = "pdf_file"
)

type Handler struct {
	upload *core.UploadService
	browse *core.BrowseService
	log    *logrus.Logger
	tmpl   *template.Template
}

func NewHandler(upload *core.UploadService, browse *core.BrowseService, log *logrus.Logger) *Handler {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/*.html"))
	return &Handler{upload: upload, browse: browse, log: log, tmpl: tmpl}
}

// ---- Student surface ----

type listPageData struct {
	Classes []string
	Filter  store.TopicFilter
	Topics  []store.Topic
	Total   int64
	HasPrev bool
	HasNext bool
	PrevURL string
	NextURL string
}

func (h *Handler) BrowseHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	filter := store.TopicFilter{
		Class:    q.Get("class"),
		Subject:  q.Get("subject"),
		Search:   q.Get("q"),
		Page:     page,
		PageSize: browsePageSize,
	}

	topics, total, err := h.browse.List(r.Context(), filter)
	if err != nil {
		h.log.Errorf("failed to list topics: %v", err)
		http.Error(w, "Failed to load topics", http.StatusInternalServerError)
		return
	}

	data := listPageData{
		Classes: classOptions,
		Filter:  filter,
		Topics:  topics,
		Total:   total,
		HasPrev: page > 1,
		HasNext: int64(page*browsePageSize) < total,
	}
	if data.HasPrev {
		data.PrevURL = browseURL(filter, page-1)
	}
	if data.HasNext {
		data.NextURL = browseURL(filter, page+1)
	}

	h.render(w, http.StatusOK, "student_list", data)
}

func (h *Handler) TopicDetailHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "topicID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid topic id", http.StatusBadRequest)
		return
	}

	topic, err := h.browse.Get(r.Context(), id)
	if err != nil {
		h.log.Errorf("failed to get topic %d: %v", id, err)
		http.Error(w, "Failed to load topic", http.StatusInternalServerError)
		return
	}
	if topic == nil {
		http.Error(w, "Topic not found", http.StatusNotFound)
		return
	}

	h.render(w, http.StatusOK, "topic_detail", struct{ Topic *store.Topic }{topic})
}

// ---- Teacher surface ----

type uploadFormData struct {
	Classes []string
	Form    core.UploadInput
	Error   string
}

func (h *Handler) UploadFormHandler(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "upload_form", uploadFormData{Classes: classOptions})
}

type uploadResultData struct {
	Result *core.UploadResult
	Failed bool
	Error  string
}

func (h *Handler) UploadSubmitHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.render(w, http.StatusBadRequest, "upload_form", uploadFormData{
			Classes: classOptions,
			Error:   "Could not read the submitted form: " + err.Error(),
		})
		return
	}

	in := core.UploadInput{
		Class:   r.FormValue("class"),
		Subject: r.FormValue("subject"),
		Chapter: r.FormValue("chapter"),
		Topic:   r.FormValue("topic"),
		Summary: r.FormValue("summary"),
	}

	if file, header, err := r.FormFile(uploadFieldName); err == nil {
		defer file.Close()
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			h.log.Errorf("failed to read uploaded file: %v", readErr)
			http.Error(w, "Failed to read uploaded file", http.StatusInternalServerError)
			return
		}
		in.PDF = data
		in.Filename = header.Filename
	}

	result, err := h.upload.Upload(r.Context(), in)

	var vErr *core.ValidationError
	if errors.As(err, &vErr) {
		// Bad input is reported inline on the form, nothing was stored.
		h.render(w, http.StatusBadRequest, "upload_form", uploadFormData{
			Classes: classOptions,
			Form:    in,
			Error:   vErr.Error(),
		})
		return
	}

	data := uploadResultData{Result: result}
	status := http.StatusOK
	if err != nil {
		data.Failed = true
		data.Error = err.Error()
		status = http.StatusInternalServerError
	}
	h.render(w, status, "upload_result", data)
}

// ---- Shared ----

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		h.log.Errorf("failed to render template %s: %v", name, err)
	}
}

func browseURL(f store.TopicFilter, page int) string {
	v := url.Values{}
	if f.Class != "" {
		v.Set("class", f.Class)
	}
	if f.Subject != "" {
		v.Set("subject", f.Subject)
	}
	if f.Search != "" {
		v.Set("q", f.Search)
	}
	v.Set("page", strconv.Itoa(page))
	return fmt.Sprintf("/?%s", v.Encode())
}
