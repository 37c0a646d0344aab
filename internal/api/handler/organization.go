// Package handler contains the HTTP handlers for the organization registry.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/mail"

	"github.com/orgstack/orghub/internal/api/response"
	"github.com/orgstack/orghub/internal/registry"
	"github.com/orgstack/orghub/pkg/models"
)

// Registry defines the organization lifecycle interface the handlers depend on.
type Registry interface {
	Create(ctx context.Context, organizationName, email, password string) (*models.OrganizationMetadata, error)
	Get(ctx context.Context, organizationName string) (*models.OrganizationMetadata, error)
	Update(ctx context.Context, organizationName, email, password string) (string, error)
	Delete(ctx context.Context, organizationName string) error
}

type organizationRequest struct {
	OrganizationName string `json:"organization_name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
}

// decodeOrganizationRequest parses and validates the shared create/update
// body. A false return means an error response has already been written.
func decodeOrganizationRequest(w http.ResponseWriter, r *http.Request) (organizationRequest, bool) {
	var req organizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
		return req, false
	}
	if req.OrganizationName == "" {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "organization_name is required", nil)
		return req, false
	}
	if !validEmail(req.Email) {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "email must be a valid email address", nil)
		return req, false
	}
	if req.Password == "" {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "password is required", nil)
		return req, false
	}
	return req, true
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// NewCreateOrganizationHandler returns an http.HandlerFunc for POST /org/create.
func NewCreateOrganizationHandler(svc Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeOrganizationRequest(w, r)
		if !ok {
			return
		}

		meta, err := svc.Create(r.Context(), req.OrganizationName, req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, registry.ErrAlreadyExists):
				response.Error(w, http.StatusBadRequest, "ALREADY_EXISTS", "Organization name already exists", nil)
			default:
				serverError(w, err)
			}
			return
		}

		response.JSON(w, map[string]string{
			"organization_name": meta.OrganizationName,
			"message":           "Organization created successfully",
		})
	}
}

// NewGetOrganizationHandler returns an http.HandlerFunc for GET /org/get.
func NewGetOrganizationHandler(svc Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("organization_name")
		if name == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "organization_name is required", nil)
			return
		}

		meta, err := svc.Get(r.Context(), name)
		if err != nil {
			switch {
			case errors.Is(err, registry.ErrNotFound):
				response.Error(w, http.StatusNotFound, "NOT_FOUND", "Organization not found", nil)
			default:
				serverError(w, err)
			}
			return
		}

		response.JSON(w, meta)
	}
}

// NewUpdateOrganizationHandler returns an http.HandlerFunc for PUT /org/update.
func NewUpdateOrganizationHandler(svc Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeOrganizationRequest(w, r)
		if !ok {
			return
		}

		msg, err := svc.Update(r.Context(), req.OrganizationName, req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, registry.ErrNameTaken):
				response.Error(w, http.StatusBadRequest, "NAME_TAKEN", "Organization name already taken", nil)
			default:
				serverError(w, err)
			}
			return
		}

		response.JSON(w, map[string]string{"message": msg})
	}
}

// NewDeleteOrganizationHandler returns an http.HandlerFunc for DELETE /org/delete.
func NewDeleteOrganizationHandler(svc Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("organization_name")
		if name == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "organization_name is required", nil)
			return
		}

		if err := svc.Delete(r.Context(), name); err != nil {
			switch {
			case errors.Is(err, registry.ErrNotFound):
				response.Error(w, http.StatusNotFound, "NOT_FOUND", "Organization not found", nil)
			default:
				serverError(w, err)
			}
			return
		}

		response.JSON(w, map[string]string{
			"message": fmt.Sprintf("Organization %s and its data deleted", name),
		})
	}
}

// serverError maps collaborator failures to a generic 500 without leaking
// storage details to the client.
func serverError(w http.ResponseWriter, err error) {
	if errors.Is(err, registry.ErrPartialFailure) {
		response.Error(w, http.StatusInternalServerError, "PARTIAL_FAILURE",
			"Organization creation failed and cleanup did not complete", nil)
		return
	}
	response.Error(w, http.StatusInternalServerError, "STORAGE_UNAVAILABLE",
		"An unexpected error occurred", nil)
}
