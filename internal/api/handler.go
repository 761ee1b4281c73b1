package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"

	talerr "github.com/amterp/tally/internal/errors"
	"github.com/amterp/tally/internal/config"
	"github.com/amterp/tally/internal/model"
	"github.com/amterp/tally/internal/service"
)

// StateListener receives the session state after every applied event.
type StateListener interface {
	OnStateChange(snapshot service.Snapshot)
}

// Handler contains all HTTP handlers for the API.
//
// Design: single-user, single-session. net/http serves requests on many
// goroutines, so every session call happens under mu; the session itself is
// not safe for concurrent use. All connected clients (browser tabs) see the
// same counters.
//
// applyMu is taken before mu and held until listeners return, so snapshots
// reach listeners in the order they were taken. Reads only need mu.
type Handler struct {
	applyMu   sync.Mutex
	mu        sync.Mutex
	session   *service.Session
	palette   model.Palette
	listeners []StateListener
}

// NewHandler creates a handler serving the given session.
func NewHandler(session *service.Session, palette model.Palette) *Handler {
	if palette == nil {
		palette = model.DefaultPalette()
	}
	return &Handler{
		session: session,
		palette: palette,
	}
}

// AddListener registers l to receive a snapshot after each change.
func (h *Handler) AddListener(l StateListener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, l)
}

// RegisterRoutes sets up all API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/state", h.GetState)
	mux.HandleFunc("GET /api/v1/config", h.GetConfig)

	// Counter routes
	mux.HandleFunc("POST /api/v1/counters", h.CreateCounter)
	mux.HandleFunc("PUT /api/v1/counters/order", h.ReorderCounters)
	mux.HandleFunc("GET /api/v1/counters/{id}", h.GetCounter)
	mux.HandleFunc("PATCH /api/v1/counters/{id}", h.UpdateCounter)
	mux.HandleFunc("DELETE /api/v1/counters/{id}", h.DeleteCounter)
	mux.HandleFunc("POST /api/v1/counters/{id}/increment", h.IncrementCounter)
	mux.HandleFunc("POST /api/v1/counters/{id}/decrement", h.DecrementCounter)
	mux.HandleFunc("POST /api/v1/counters/{id}/move", h.MoveCounter)

	// Filter routes
	mux.HandleFunc("POST /api/v1/filter/colors/{color}", h.ToggleFilterColor)
	mux.HandleFunc("PUT /api/v1/filter/text", h.SetFilterText)
	mux.HandleFunc("POST /api/v1/filter/panel", h.ToggleFilterPanel)

	// Static files (frontend)
	mux.Handle("/", h.StaticHandler())
}

// Snapshot returns the current state under lock.
func (h *Handler) Snapshot() service.Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session.Snapshot()
}

// Apply runs events against the session in order and, if any succeeded,
// notifies listeners. Processing stops at the first error.
// Listeners must not call Apply.
func (h *Handler) Apply(events ...service.Event) (service.Snapshot, error) {
	h.applyMu.Lock()
	defer h.applyMu.Unlock()

	h.mu.Lock()
	var err error
	applied := 0
	for _, ev := range events {
		if err = h.session.Apply(ev); err != nil {
			break
		}
		applied++
	}
	snapshot := h.session.Snapshot()
	listeners := append([]StateListener(nil), h.listeners...)
	h.mu.Unlock()

	if applied > 0 {
		for _, l := range listeners {
			l.OnStateChange(snapshot)
		}
	}
	return snapshot, err
}

// OnConfigChange implements ConfigSubscriber: new counters pick up the new
// default title and the palette is served to clients.
func (h *Handler) OnConfigChange(cfg *config.Config) {
	h.mu.Lock()
	h.session.SetDefaultTitle(cfg.DefaultTitle)
	h.session.SetMatchMode(cfg.MatchMode())
	h.palette = cfg.ResolvedPalette()
	h.mu.Unlock()
}

func (h *Handler) respond(w http.ResponseWriter, status int, events ...service.Event) {
	snapshot, err := h.Apply(events...)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, status, snapshot)
}

// --- State Handlers ---

// GetState returns the full session snapshot.
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.Snapshot())
}

// ConfigResponse is the JSON response for display configuration.
type ConfigResponse struct {
	DefaultTitle string        `json:"default_title"`
	Palette      model.Palette `json:"palette"`
	Colors       []string      `json:"colors"`
}

// GetConfig returns the palette and defaults the frontend renders with.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	resp := ConfigResponse{
		DefaultTitle: h.session.DefaultTitle(),
		Palette:      h.palette,
		Colors:       model.ColorNames(),
	}
	h.mu.Unlock()
	JSON(w, http.StatusOK, resp)
}

// --- Counter Handlers ---

// CreateCounterRequest is the optional JSON body for creating a counter.
type CreateCounterRequest struct {
	Title string `json:"title,omitempty"`
	Color string `json:"color,omitempty"`
}

// CreateCounter appends a new counter.
func (h *Handler) CreateCounter(w http.ResponseWriter, r *http.Request) {
	var req CreateCounterRequest
	// The body is optional.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		BadRequest(w, "invalid JSON body")
		return
	}

	color := model.ColorSystem
	if req.Color != "" {
		parsed, err := model.ParseColor(req.Color)
		if err != nil {
			Error(w, talerr.InvalidColor(req.Color))
			return
		}
		color = parsed
	}

	h.respond(w, http.StatusCreated, service.Event{Kind: service.EventAdd, Title: req.Title, Color: &color})
}

// GetCounter returns a single counter by ID.
func (h *Handler) GetCounter(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	counter, err := h.session.Get(r.PathValue("id"))
	h.mu.Unlock()
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, counter)
}

// UpdateCounterRequest is the JSON body for updating a counter.
// Nil fields are left unchanged. Value accepts a JSON number or a numeric string.
type UpdateCounterRequest struct {
	Title *string         `json:"title,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
	Color *string         `json:"color,omitempty"`
}

// UpdateCounter sets any of title, value and color.
func (h *Handler) UpdateCounter(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req UpdateCounterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}

	// Validate everything before touching the session so a bad field
	// doesn't leave a partial update behind.
	var events []service.Event
	if req.Title != nil {
		events = append(events, service.Event{Kind: service.EventSetTitle, ID: id, Title: *req.Title})
	}
	if len(req.Value) > 0 {
		value, err := parseValue(req.Value)
		if err != nil {
			Error(w, err)
			return
		}
		events = append(events, service.Event{Kind: service.EventSetValue, ID: id, Value: value})
	}
	if req.Color != nil {
		color, err := model.ParseColor(*req.Color)
		if err != nil {
			Error(w, talerr.InvalidColor(*req.Color))
			return
		}
		events = append(events, service.Event{Kind: service.EventSetColor, ID: id, Color: &color})
	}

	if len(events) == 0 {
		BadRequest(w, "nothing to update (expected title, value or color)")
		return
	}

	h.respond(w, http.StatusOK, events...)
}

// parseValue accepts 42 or "42".
func parseValue(raw json.RawMessage) (uint64, error) {
	text := strings.TrimSpace(string(raw))
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, talerr.InvalidCount(text)
		}
		text = s
	}
	value, err := model.ParseCount(text)
	if err != nil {
		return 0, talerr.InvalidCount(text)
	}
	return value, nil
}

// DeleteCounter removes a counter.
func (h *Handler) DeleteCounter(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, service.Event{Kind: service.EventDelete, ID: r.PathValue("id")})
}

// IncrementCounter adds one to a counter.
func (h *Handler) IncrementCounter(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, service.Event{Kind: service.EventIncrement, ID: r.PathValue("id")})
}

// DecrementCounter subtracts one from a counter.
func (h *Handler) DecrementCounter(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, service.Event{Kind: service.EventDecrement, ID: r.PathValue("id")})
}

// MoveCounterRequest is the JSON body for moving a counter.
type MoveCounterRequest struct {
	To string `json:"to"` // up, down, top, bottom
}

var moveKinds = map[string]service.EventKind{
	"up":     service.EventMoveUp,
	"down":   service.EventMoveDown,
	"top":    service.EventMoveTop,
	"bottom": service.EventMoveBottom,
}

// MoveCounter moves a counter one step or to either end.
func (h *Handler) MoveCounter(w http.ResponseWriter, r *http.Request) {
	var req MoveCounterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}

	kind, ok := moveKinds[req.To]
	if !ok {
		BadRequest(w, "to must be one of up, down, top, bottom")
		return
	}

	h.respond(w, http.StatusOK, service.Event{Kind: kind, ID: r.PathValue("id")})
}

// ReorderRequest is the JSON body for reordering all counters.
type ReorderRequest struct {
	IDs []string `json:"ids"`
}

// ReorderCounters replaces the display order.
func (h *Handler) ReorderCounters(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}

	h.respond(w, http.StatusOK, service.Event{Kind: service.EventReorder, IDs: req.IDs})
}

// --- Filter Handlers ---

// ToggleFilterColor flips one color in the filter.
func (h *Handler) ToggleFilterColor(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("color")
	color, err := model.ParseColor(name)
	if err != nil {
		Error(w, talerr.InvalidColor(name))
		return
	}

	h.respond(w, http.StatusOK, service.Event{Kind: service.EventToggleFilterColor, Color: &color})
}

// FilterTextRequest is the JSON body for setting the text filter.
type FilterTextRequest struct {
	Text string `json:"text"`
}

// SetFilterText replaces the text filter.
func (h *Handler) SetFilterText(w http.ResponseWriter, r *http.Request) {
	var req FilterTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}

	h.respond(w, http.StatusOK, service.Event{Kind: service.EventSetFilterText, Text: req.Text})
}

// ToggleFilterPanel shows or hides the filtered view.
func (h *Handler) ToggleFilterPanel(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, service.Event{Kind: service.EventToggleFilterPanel})
}
