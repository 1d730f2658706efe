// internal/controller/template_controller.go
package controller

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/jciconnect/comms-service/internal/errors"
	"github.com/jciconnect/comms-service/internal/model"
	"github.com/jciconnect/comms-service/internal/repository"
)

type TemplateController struct {
	Repo repository.TemplateRepositoryInterface
}

type templatePayload struct {
	Name      string   `json:"name"`
	Channel   string   `json:"type"`
	Subject   *string  `json:"subject"`
	Content   string   `json:"content"`
	Variables []string `json:"variables"`
	IsActive  *bool    `json:"is_active"`
}

func (p *templatePayload) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return appErrors.NewValidation("name is required")
	}
	if strings.TrimSpace(p.Content) == "" {
		return appErrors.NewValidation("content is required")
	}
	if !model.Channel(p.Channel).Valid() {
		return appErrors.NewInvalidTemplateType(p.Channel)
	}
	if p.Subject != nil && model.Channel(p.Channel) != model.ChannelEmail {
		return appErrors.NewValidation("subject is only valid for email templates")
	}
	return nil
}

// Create stores a new template.
// POST /api/templates
func (c *TemplateController) Create(w http.ResponseWriter, r *http.Request) {
	var payload templatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, appErrors.NewValidation("invalid request body: "+err.Error()))
		return
	}
	if err := payload.validate(); err != nil {
		respondError(w, err)
		return
	}

	tpl := &model.Template{
		Name:      payload.Name,
		Channel:   model.Channel(payload.Channel),
		Subject:   payload.Subject,
		Content:   payload.Content,
		Variables: payload.Variables,
		IsActive:  true,
	}
	if payload.IsActive != nil {
		tpl.IsActive = *payload.IsActive
	}

	if err := c.Repo.Create(tpl); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, tpl)
}

// List returns a paginated template listing.
// GET /api/templates?page=&page_size=&type=&active=
func (c *TemplateController) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	channel := r.URL.Query().Get("type")

	var active *bool
	if raw := r.URL.Query().Get("active"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(w, appErrors.NewValidation("invalid active filter"))
			return
		}
		active = &v
	}

	templates, total, err := c.Repo.List((page-1)*pageSize, pageSize, channel, active)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"data":       templates,
		"pagination": paginationMeta(page, pageSize, total),
	})
}

// Get returns one template by id.
// GET /api/templates/{id}
func (c *TemplateController) Get(w http.ResponseWriter, r *http.Request) {
	tpl, err := c.Repo.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tpl)
}

// Update replaces the mutable fields of a template.
// PUT /api/templates/{id}
func (c *TemplateController) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	tpl, err := c.Repo.GetByID(id)
	if err != nil {
		respondError(w, err)
		return
	}

	var payload templatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, appErrors.NewValidation("invalid request body: "+err.Error()))
		return
	}
	if payload.Channel == "" {
		payload.Channel = string(tpl.Channel)
	} else if payload.Channel != string(tpl.Channel) {
		// The channel decides which transport and recipient field apply;
		// changing it in place would orphan existing logs.
		respondError(w, appErrors.NewValidation("template type cannot be changed"))
		return
	}
	if err := payload.validate(); err != nil {
		respondError(w, err)
		return
	}

	tpl.Name = payload.Name
	tpl.Subject = payload.Subject
	tpl.Content = payload.Content
	tpl.Variables = payload.Variables
	if payload.IsActive != nil {
		tpl.IsActive = *payload.IsActive
	}

	if err := c.Repo.Update(tpl); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tpl)
}

// Delete removes a template.
// DELETE /api/templates/{id}
func (c *TemplateController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.Repo.Delete(chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, model.MessageResponse{
		Success: true,
		Message: "Template deleted",
	})
}

func pagination(r *http.Request) (page, pageSize int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

func paginationMeta(page, pageSize, total int) map[string]int {
	totalPages := (total + pageSize - 1) / pageSize
	return map[string]int{
		"page":        page,
		"page_size":   pageSize,
		"total_count": total,
		"total_pages": totalPages,
	}
}
