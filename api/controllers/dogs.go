package controllers

import (
	"net/http"
	"strings"

	"github.com/parkpals/parkpals-backend/api/middleware"
	"github.com/parkpals/parkpals-backend/api/responses"
	"github.com/parkpals/parkpals-backend/api/validators"
	"github.com/parkpals/parkpals-backend/internal/dogs"
	pkgerrors "github.com/parkpals/parkpals-backend/pkg/errors"
	"github.com/parkpals/parkpals-backend/pkg/logger"
)

// DogsCreate registers a dog owned by the caller.
func DogsCreate(svc dogs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dog service unavailable"))
			return
		}

		principal, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var payload dogs.CreateDogRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Create(ctx, principal, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// DogsList returns the caller's dogs, or every dog with ?all=true.
func DogsList(svc dogs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dog service unavailable"))
			return
		}

		principal, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var (
			list []dogs.DogDTO
			err  error
		)
		if strings.EqualFold(r.URL.Query().Get("all"), "true") {
			list, err = svc.ListAll(ctx)
		} else {
			list, err = svc.ListMine(ctx, principal)
		}
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// DogsGet returns a single dog by id.
func DogsGet(svc dogs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dog service unavailable"))
			return
		}

		id, err := validators.ParsePathID(r, "dogID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// DogsUpdate applies partial updates; owner or admin only.
func DogsUpdate(svc dogs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dog service unavailable"))
			return
		}

		principal, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		id, err := validators.ParsePathID(r, "dogID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload dogs.UpdateDogRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Update(ctx, principal, id, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// DogsDelete removes a dog; owner or admin only.
func DogsDelete(svc dogs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dog service unavailable"))
			return
		}

		principal, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		id, err := validators.ParsePathID(r, "dogID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, principal, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
