package web

import (
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/louisbranch/seedshift/internal/services/web/module"
	apperrors "github.com/louisbranch/seedshift/internal/services/web/platform/errors"
	"github.com/louisbranch/seedshift/internal/services/web/platform/httpx"
	"github.com/louisbranch/seedshift/internal/services/web/routepath"
	webstorage "github.com/louisbranch/seedshift/internal/services/web/storage"
	"github.com/louisbranch/seedshift/internal/services/web/templates"
	"github.com/louisbranch/seedshift/internal/variation"
	"github.com/louisbranch/seedshift/internal/variation/attr"
	"go.uber.org/zap"
)

const maxOverrideBody = 64 << 10

type apiModule struct {
	svc *service
}

func newAPIModule(svc *service) apiModule {
	return apiModule{svc: svc}
}

func (apiModule) ID() string { return "api" }

func (m apiModule) Healthy() bool { return m.svc.storeHealthy() }

func (m apiModule) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+routepath.APIVariation, m.handleVariation)
	mux.HandleFunc("PUT "+routepath.VariantPattern, m.handlePutVariants)
	mux.HandleFunc("DELETE "+routepath.VariantPattern, m.handleDeleteVariants)
	return module.Mount{Prefix: "/api/", Handler: mux}, nil
}

type layoutSnapshot struct {
	ID        string   `json:"id"`
	Index     int      `json:"index"`
	Name      string   `json:"name"`
	Direction string   `json:"direction"`
	Sidebar   string   `json:"sidebar"`
	Regions   []string `json:"regions"`
}

type variationSnapshot struct {
	Enabled      bool                         `json:"enabled"`
	Seed         int                          `json:"seed"`
	Layout       layoutSnapshot               `json:"layout"`
	CardOrder    []int                        `json:"card_order"`
	Attributes   map[string]map[string]string `json:"attributes"`
	ActiveEvents []string                     `json:"active_events"`
}

func snapshot(page variation.Page, cards int) variationSnapshot {
	lay := page.Layout()
	c := page.Catalog()
	attributes := make(map[string]map[string]string, len(attr.Kinds))
	for _, kind := range attr.Kinds {
		keys := make([]string, 0, len(c.Attributes.Map(kind)))
		for key := range c.Attributes.Map(kind) {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		selected := make(map[string]string, len(keys))
		for _, key := range keys {
			selected[key] = page.Attr(kind, key, "")
		}
		attributes[string(kind)] = selected
	}
	return variationSnapshot{
		Enabled: page.Enabled(),
		Seed:    page.Seed(),
		Layout: layoutSnapshot{
			ID:        lay.ID,
			Index:     lay.Index,
			Name:      lay.Name,
			Direction: lay.Direction,
			Sidebar:   string(lay.Sidebar()),
			Regions:   lay.RegionNames(),
		},
		CardOrder:    page.Order(templates.CardsLabel, cards),
		Attributes:   attributes,
		ActiveEvents: page.Scope().Active(),
	}
}

func (m apiModule) handleVariation(w http.ResponseWriter, r *http.Request) {
	page := m.svc.engine.Load(r.URL.Query(), m.svc.scopes.lookup(visitorID(r)))
	_ = httpx.WriteJSON(w, http.StatusOK, snapshot(page, len(m.svc.products)))
}

type putVariantsRequest struct {
	Candidates []string `json:"candidates"`
}

type variantsResponse struct {
	Kind       string   `json:"kind"`
	Key        string   `json:"key"`
	Candidates []string `json:"candidates"`
	Href       string   `json:"href"`
}

func parseVariantPath(r *http.Request) (attr.Kind, string, error) {
	kind, ok := attr.ParseKind(r.PathValue("kind"))
	if !ok {
		return "", "", apperrors.E(apperrors.KindInvalidInput, "unknown variant kind")
	}
	key := strings.TrimSpace(r.PathValue("key"))
	if key == "" {
		return "", "", apperrors.E(apperrors.KindInvalidInput, "element key is required")
	}
	return kind, key, nil
}

func (m apiModule) handlePutVariants(w http.ResponseWriter, r *http.Request) {
	kind, key, err := parseVariantPath(r)
	if err != nil {
		_ = httpx.WriteJSONError(w, err)
		return
	}
	var req putVariantsRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxOverrideBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		_ = httpx.WriteJSONError(w, apperrors.Wrap(apperrors.KindInvalidInput, "malformed request body", err))
		return
	}
	if len(req.Candidates) == 0 {
		_ = httpx.WriteJSONError(w, apperrors.E(apperrors.KindInvalidInput, "at least one candidate is required"))
		return
	}
	for _, candidate := range req.Candidates {
		if strings.TrimSpace(candidate) == "" {
			_ = httpx.WriteJSONError(w, apperrors.E(apperrors.KindInvalidInput, "candidates must not be empty"))
			return
		}
	}

	err = m.mutate(r, func() error {
		return m.svc.store.PutVariants(r.Context(), webstorage.VariantOverride{
			Kind:       kind,
			Key:        key,
			Candidates: req.Candidates,
		})
	})
	if err != nil {
		_ = httpx.WriteJSONError(w, err)
		return
	}
	href := routepath.Variant(string(kind), key)
	w.Header().Set("Location", href)
	_ = httpx.WriteJSON(w, http.StatusOK, variantsResponse{Kind: string(kind), Key: key, Candidates: req.Candidates, Href: href})
}

func (m apiModule) handleDeleteVariants(w http.ResponseWriter, r *http.Request) {
	kind, key, err := parseVariantPath(r)
	if err != nil {
		_ = httpx.WriteJSONError(w, err)
		return
	}
	err = m.mutate(r, func() error {
		return m.svc.store.DeleteVariants(r.Context(), kind, key)
	})
	if err != nil {
		_ = httpx.WriteJSONError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// mutate runs write against the store and swaps in the rebuilt catalog.
func (m apiModule) mutate(r *http.Request, write func() error) error {
	if m.svc.store == nil {
		return apperrors.E(apperrors.KindUnavailable, "variant store is not configured")
	}
	m.svc.catalogMu.Lock()
	defer m.svc.catalogMu.Unlock()
	if err := write(); err != nil {
		m.svc.logger.Error("write variant override", zap.String("path", r.URL.Path), zap.Error(err))
		return apperrors.Wrap(apperrors.KindUnavailable, "variant store unavailable", err)
	}
	if err := m.svc.refreshCatalog(r.Context()); err != nil {
		m.svc.logger.Error("refresh variant catalog", zap.Error(err))
		return apperrors.Wrap(apperrors.KindUnavailable, "variant catalog refresh failed", err)
	}
	return nil
}
