package hero

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/matheustorresii/tour-of-heroes/internal/db"
	"github.com/matheustorresii/tour-of-heroes/internal/models"
)

// CollectionPath is where the hero collection is served.
const CollectionPath = "/api/heroes"

// Service defines the behaviors the handler requires from the persistence layer.
type Service interface {
	CreateHero(h models.Hero) (models.Hero, error)
	GetHero(id int) (models.Hero, error)
	ListHeroes() ([]models.Hero, error)
	SearchHeroes(term string) ([]models.Hero, error)
	UpdateHero(h models.Hero) (models.Hero, error)
	DeleteHero(id int) (models.Hero, error)
}

// Publisher receives an event after every successful mutation.
type Publisher interface {
	Publish(evt models.HeroEvent)
}

// Handler provides HTTP handlers for hero flows.
type Handler struct {
	svc    Service
	pub    Publisher
	logger *slog.Logger
}

// NewHandler creates a new hero Handler. pub may be nil.
func NewHandler(svc Service, pub Publisher, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, pub: pub, logger: logger.With("component", "hero")}
}

// Register mounts the collection and item routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc(CollectionPath, h.HeroesCollection)
	mux.HandleFunc(CollectionPath+"/", h.HeroesItem)
}

// heroPayload is the body of POST and PUT requests.
type heroPayload struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// HeroesCollection handles /api/heroes for GET (list or ?name= search), POST (create)
// and PUT (update keyed by the body id).
func (h *Handler) HeroesCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		var (
			items []models.Hero
			err   error
		)
		if r.URL.Query().Has("name") {
			items, err = h.svc.SearchHeroes(r.URL.Query().Get("name"))
		} else {
			items, err = h.svc.ListHeroes()
		}
		if err != nil {
			h.internalError(w, "list heroes", err)
			return
		}
		if items == nil {
			items = []models.Hero{}
		}
		writeJSON(w, http.StatusOK, items)

	case http.MethodPost:
		req, ok := decodePayload(w, r)
		if !ok {
			return
		}
		created, err := h.svc.CreateHero(models.Hero{Name: req.Name})
		if err != nil {
			h.storeError(w, "create hero", err)
			return
		}
		h.publish(models.HeroCreated, created)
		writeJSON(w, http.StatusCreated, created)

	case http.MethodPut:
		req, ok := decodePayload(w, r)
		if !ok {
			return
		}
		if req.ID <= 0 {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		h.update(w, models.Hero{ID: req.ID, Name: req.Name})

	default:
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

// HeroesItem handles /api/heroes/{id} for GET, PUT, DELETE. A bare
// /api/heroes/ falls through to the collection.
func (h *Handler) HeroesItem(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, CollectionPath+"/") {
		http.NotFound(w, r)
		return
	}
	raw := strings.TrimPrefix(r.URL.Path, CollectionPath+"/")
	if raw == "" {
		h.HeroesCollection(w, r)
		return
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		item, err := h.svc.GetHero(id)
		if err != nil {
			h.storeError(w, "get hero", err)
			return
		}
		writeJSON(w, http.StatusOK, item)

	case http.MethodPut:
		req, ok := decodePayload(w, r)
		if !ok {
			return
		}
		if req.ID != 0 && req.ID != id {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		h.update(w, models.Hero{ID: id, Name: req.Name})

	case http.MethodDelete:
		deleted, err := h.svc.DeleteHero(id)
		if err != nil {
			h.storeError(w, "delete hero", err)
			return
		}
		h.publish(models.HeroDeleted, deleted)
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (h *Handler) update(w http.ResponseWriter, hero models.Hero) {
	updated, err := h.svc.UpdateHero(hero)
	if err != nil {
		h.storeError(w, "update hero", err)
		return
	}
	h.publish(models.HeroUpdated, updated)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) publish(t models.HeroEventType, hero models.Hero) {
	if h.pub == nil {
		return
	}
	h.pub.Publish(models.HeroEvent{Type: t, Hero: hero})
}

func (h *Handler) storeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, db.ErrHeroNotFound):
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	case errors.Is(err, db.ErrInvalidHero):
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
	default:
		h.internalError(w, op, err)
	}
}

func (h *Handler) internalError(w http.ResponseWriter, op string, err error) {
	h.logger.Error("store failure", "op", op, "err", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func decodePayload(w http.ResponseWriter, r *http.Request) (heroPayload, bool) {
	var req heroPayload
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return heroPayload{}, false
	}
	if strings.TrimSpace(req.Name) == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return heroPayload{}, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
