package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// ResourceService is the CRUD surface shared by accounts, categories,
// transactions and users.
type ResourceService[T, C, U any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id uuid.UUID) (T, error)
	Create(ctx context.Context, in C) (T, error)
	Update(ctx context.Context, id uuid.UUID, patch U) (T, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type SettingsService interface {
	GetOrCreate(ctx context.Context) (core.Settings, error)
	Update(ctx context.Context, patch core.SettingsUpdate) (core.Settings, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Services struct {
	Accounts     ResourceService[core.Account, core.AccountCreate, core.AccountUpdate]
	Categories   ResourceService[core.Category, core.CategoryCreate, core.CategoryUpdate]
	Transactions ResourceService[core.Transaction, core.TransactionCreate, core.TransactionUpdate]
	Users        ResourceService[core.User, core.UserCreate, core.UserUpdate]
	Settings     SettingsService
}

// registerResource mounts list and create on prefix (with and without a
// trailing slash) and get, patch and delete on prefix/{id}.
func registerResource[T, C, U any](mux *http.ServeMux, prefix string, svc ResourceService[T, C, U]) {
	list := func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeError(w, r, log.OpList, err)
			return
		}
		if items == nil {
			items = []T{}
		}
		writeJSON(w, http.StatusOK, items)
	}

	get := func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			writeError(w, r, log.OpRead, err)
			return
		}
		item, err := svc.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, log.OpRead, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}

	update := func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			writeError(w, r, log.OpUpdate, err)
			return
		}
		var patch U
		if err := decodeJSON(w, r, &patch); err != nil {
			writeError(w, r, log.OpDecode, err)
			return
		}
		item, err := svc.Update(r.Context(), id, patch)
		if err != nil {
			writeError(w, r, log.OpUpdate, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}

	remove := func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			writeError(w, r, log.OpDelete, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			writeError(w, r, log.OpDelete, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}

	create := createHandler(svc)
	for _, p := range []string{prefix, prefix + "/{$}"} {
		mux.HandleFunc("GET "+p, list)
		mux.Handle("POST "+p, create)
	}
	mux.HandleFunc("GET "+prefix+"/{id}", get)
	mux.HandleFunc("PATCH "+prefix+"/{id}", update)
	mux.HandleFunc("DELETE "+prefix+"/{id}", remove)
}

func createHandler[T, C, U any](svc ResourceService[T, C, U]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in C
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, r, log.OpDecode, err)
			return
		}
		item, err := svc.Create(r.Context(), in)
		if err != nil {
			writeError(w, r, log.OpCreate, err)
			return
		}
		writeJSON(w, http.StatusCreated, item)
	}
}

func registerSettings(mux *http.ServeMux, prefix string, svc SettingsService) {
	get := func(w http.ResponseWriter, r *http.Request) {
		settings, err := svc.GetOrCreate(r.Context())
		if err != nil {
			writeError(w, r, log.OpRead, err)
			return
		}
		writeJSON(w, http.StatusOK, settings)
	}

	update := func(w http.ResponseWriter, r *http.Request) {
		var patch core.SettingsUpdate
		if err := decodeJSON(w, r, &patch); err != nil {
			writeError(w, r, log.OpDecode, err)
			return
		}
		settings, err := svc.Update(r.Context(), patch)
		if err != nil {
			writeError(w, r, log.OpUpdate, err)
			return
		}
		writeJSON(w, http.StatusOK, settings)
	}

	for _, p := range []string{prefix, prefix + "/{$}"} {
		mux.HandleFunc("GET "+p, get)
		mux.HandleFunc("PATCH "+p, update)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleReady(pinger Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := pinger.Ping(ctx); err != nil {
			if !errors.Is(err, core.ErrDownstream) {
				err = core.Downstream("database", err)
			}
			writeError(w, r, log.OpRead, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
