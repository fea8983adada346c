package web

import (
	"bytes"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/louisbranch/seedshift/internal/platform/requestctx"
	"github.com/louisbranch/seedshift/internal/services/web/module"
	apperrors "github.com/louisbranch/seedshift/internal/services/web/platform/errors"
	"github.com/louisbranch/seedshift/internal/services/web/platform/httpx"
	"github.com/louisbranch/seedshift/internal/services/web/routepath"
	"github.com/louisbranch/seedshift/internal/services/web/templates"
	"github.com/louisbranch/seedshift/internal/variation/gate"
	"github.com/louisbranch/seedshift/internal/variation/seed"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

type moduleWithHealth interface {
	module.Module
	module.HealthReporter
}

// DefaultProducts is the sample storefront inventory.
func DefaultProducts() []templates.Product {
	return []templates.Product{
		{SKU: "lamp-01", Name: "Desk lamp", Price: "$39.00"},
		{SKU: "mug-02", Name: "Stoneware mug", Price: "$14.00"},
		{SKU: "pack-03", Name: "Canvas backpack", Price: "$79.00"},
		{SKU: "pen-04", Name: "Fountain pen", Price: "$45.00"},
		{SKU: "plant-05", Name: "Potted fern", Price: "$22.00"},
		{SKU: "tea-06", Name: "Loose leaf tea", Price: "$12.50"},
	}
}

type storefrontModule struct {
	svc *service
}

func newStorefrontModule(svc *service) storefrontModule {
	return storefrontModule{svc: svc}
}

func (storefrontModule) ID() string { return "storefront" }

func (storefrontModule) Healthy() bool { return true }

func (m storefrontModule) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+routepath.Root+"{$}", m.handleIndex)
	mux.HandleFunc("GET "+routepath.Random, m.handleRandom)
	mux.HandleFunc("POST "+routepath.EventPattern, m.handleEvent)
	return module.Mount{Prefix: routepath.Root, Handler: mux}, nil
}

func (m storefrontModule) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx, span := m.svc.tracer.Start(r.Context(), "storefront.render")
	defer span.End()

	q := r.URL.Query()
	page := m.svc.engine.Load(q, m.svc.scopes.lookup(visitorID(r)))
	lay := page.Layout()
	span.SetAttributes(
		attribute.Bool("seedshift.enabled", page.Enabled()),
		attribute.Int("seedshift.seed", page.Seed()),
		attribute.String("seedshift.layout", lay.ID),
	)

	var buf bytes.Buffer
	view := templates.StorefrontView{Page: page, Products: m.svc.products, Query: q}
	if err := templates.Storefront(view).Render(ctx, &buf); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render storefront")
		m.svc.logger.Error("render storefront", zap.Error(err))
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteHTML(w, http.StatusOK, buf.String())
}

func (m storefrontModule) handleRandom(w http.ResponseWriter, r *http.Request) {
	s, err := seed.Random()
	if err != nil {
		m.svc.logger.Error("draw random seed", zap.Error(err))
		httpx.WriteError(w, apperrors.Wrap(apperrors.KindUnavailable, "random seed unavailable", err))
		return
	}
	q := url.Values{}
	if value := r.URL.Query().Get(gate.QueryParam); value != "" {
		q.Set(gate.QueryParam, value)
	}
	q.Set(seed.QueryParam, strconv.Itoa(s))
	httpx.WriteRedirect(w, r, routepath.Storefront(q))
}

func (m storefrontModule) handleEvent(w http.ResponseWriter, r *http.Request) {
	eventType := strings.TrimSpace(r.PathValue("type"))
	if _, known := m.svc.engine.Catalog().Events[eventType]; !known {
		httpx.WriteError(w, apperrors.E(apperrors.KindNotFound, "unknown event type"))
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.WriteError(w, apperrors.Wrap(apperrors.KindInvalidInput, "malformed form", err))
		return
	}

	id := visitorID(r)
	if id == "" {
		id = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     routepath.ScopeCookieName,
			Value:    id,
			Path:     routepath.Root,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	scope := m.svc.scopes.acquire(id)
	if scope == nil {
		httpx.WriteError(w, apperrors.E(apperrors.KindUnavailable, "shutting down"))
		return
	}
	scope.Register(eventType)
	httpx.WriteRedirect(w, r, routepath.Storefront(r.Form))
}

// withVisitor stores the visitor id from the scope cookie in the request
// context.
func withVisitor() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := visitorCookie(r)
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(requestctx.WithVisitorID(r.Context(), id)))
		})
	}
}

func visitorID(r *http.Request) string {
	return requestctx.VisitorIDFromContext(r.Context())
}

// visitorCookie returns the scope id from the visitor cookie, or "" when the
// cookie is missing or not a uuid.
func visitorCookie(r *http.Request) string {
	cookie, err := r.Cookie(routepath.ScopeCookieName)
	if err != nil {
		return ""
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return ""
	}
	return id.String()
}
