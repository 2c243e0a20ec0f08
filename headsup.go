/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Heads-up game sessions.
//
// Each session lives at /headsup/:gameid and is served by one Hub. The phone
// that presses start becomes the holder for that round: it streams tilt
// samples and suspend signals, and every other connected browser watches the
// card, score and clock. A round is driven by a headsup.Controller that only
// the hub's run loop touches.
//
// Features:
// - WebSockets per game ID: /path/:gameid and /path/:gameid/ws
// - Players identified by cookie (playerID)
// - Rounds pause while the holder is backgrounded, disconnected or held upright
// - Manual correct/skip for devices without motion sensors
// - Sessions auto-reaped after configurable idle timeout
// - Random 8-char game IDs via crypto/rand, with server-side collision check
// - In-browser QR button to share the current session, backed by go-qrcode

package main

import (
	"crypto/rand"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Seednode/headsup/games/headsup"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"github.com/skip2/go-qrcode"
)

// Messages coming from clients
type ClientMessage struct {
	Type       string   `json:"type"`                  // "start", "abandon", "sample", "suspend", "action"
	CategoryID *int     `json:"category_id,omitempty"` // start
	FrontBack  *float64 `json:"front_back,omitempty"`  // sample
	LeftRight  *float64 `json:"left_right,omitempty"`  // sample
	Reason     string   `json:"reason,omitempty"`      // suspend
	Active     *bool    `json:"active,omitempty"`      // suspend
	Action     string   `json:"action,omitempty"`      // action
}

// CategorySummary is a category without its word list.
type CategorySummary struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji,omitempty"`
	Cards int    `json:"cards"`
}

func summarize(c headsup.Category) CategorySummary {
	return CategorySummary{
		ID:    c.ID,
		Name:  c.Name,
		Emoji: c.Emoji,
		Cards: len(c.Words),
	}
}

func summarizeAll(categories []headsup.Category) []CategorySummary {
	out := make([]CategorySummary, 0, len(categories))
	for _, c := range categories {
		out = append(out, summarize(c))
	}
	return out
}

// SessionInfoMessage is sent immediately on connect so the client can draw
// the category picker, or rejoin a round already under way.
type SessionInfoMessage struct {
	Type       string             `json:"type"` // "session_info"
	GameID     string             `json:"game_id"`
	IsHolder   bool               `json:"is_holder"`
	Categories []CategorySummary  `json:"categories"`
	Round      *RoundStateMessage `json:"round,omitempty"`
}

type RoundStateMessage struct {
	RoundID   string           `json:"round_id"`
	Category  string           `json:"category"`
	Phase     string           `json:"phase"`
	Score     int              `json:"score"`
	Remaining int              `json:"remaining"`
	Word      string           `json:"word,omitempty"`
	Ledger    []headsup.Result `json:"ledger"`
}

type RoundStartedMessage struct {
	Type     string          `json:"type"` // "round_started"
	RoundID  string          `json:"round_id"`
	Category CategorySummary `json:"category"`
	Seconds  int             `json:"seconds"`
	IsHolder bool            `json:"is_holder"`
}

type CardMessage struct {
	Type string `json:"type"` // "card"
	Word string `json:"word"`
}

type ActionResolvedMessage struct {
	Type    string          `json:"type"` // "action_resolved"
	Outcome headsup.Outcome `json:"outcome"`
	Word    string          `json:"word"`
	Score   int             `json:"score"`
}

type TickMessage struct {
	Type      string `json:"type"` // "tick"
	Remaining int    `json:"remaining"`
	Warning   bool   `json:"warning,omitempty"`
	Danger    bool   `json:"danger,omitempty"`
}

type PausedMessage struct {
	Type    string                  `json:"type"` // "paused"
	Reasons []headsup.SuspendReason `json:"reasons"`
}

type RoundEndedMessage struct {
	Type      string           `json:"type"` // "round_ended"
	RoundID   string           `json:"round_id"`
	Score     int              `json:"score"`
	Ledger    []headsup.Result `json:"ledger"`
	Abandoned bool             `json:"abandoned"`
}

// SimpleMessage is for notifications without a payload ("resumed", "error").
type SimpleMessage struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

type Client struct {
	conn     *websocket.Conn
	send     chan any
	playerID string
}

type command struct {
	client *Client
	msg    ClientMessage
}

type Hub struct {
	id      string
	cfg     *Config
	catalog *headsup.Catalog
	clock   clockwork.Clock
	clients map[*Client]bool

	register chan *Client
	unreg    chan *Client
	commands chan command
	tasks    chan func()
	quit     chan struct{}
	stopOnce sync.Once

	mu         sync.RWMutex
	createdAt  time.Time
	lastActive time.Time

	round       *headsup.Controller
	holder      string                         // playerID feeding the current round
	suspensions map[string]*headsup.Suspension // playerID -> raised reasons
	played      int
}

func newHub(cfg *Config, catalog *headsup.Catalog, clock clockwork.Clock, gameID string) *Hub {
	now := clock.Now()
	return &Hub{
		id:          gameID,
		cfg:         cfg,
		catalog:     catalog,
		clock:       clock,
		clients:     make(map[*Client]bool),
		register:    make(chan *Client),
		unreg:       make(chan *Client),
		commands:    make(chan command, 64),
		tasks:       make(chan func()),
		quit:        make(chan struct{}),
		createdAt:   now,
		lastActive:  now,
		suspensions: make(map[string]*headsup.Suspension),
	}
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			h.touch()
			h.clients[c] = true

			h.sendTo(c, h.sessionInfo(c))

			// Coming back clears a drop, whether or not this player still holds the round.
			h.setSuspended(c.playerID, headsup.ReasonDisconnected, false)

		case c := <-h.unreg:
			h.touch()

			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}

			if c.playerID == h.holder && !h.connected(c.playerID) {
				h.setSuspended(c.playerID, headsup.ReasonDisconnected, true)
			}

			h.pruneSuspensions()

		case cmd := <-h.commands:
			h.touch()
			h.handleCommand(cmd)

		case fn := <-h.tasks:
			fn()

		case <-h.quit:
			h.shutdown()

			return
		}
	}
}

// post hands a scheduled callback to the run loop, so the round controller
// is only ever touched from one goroutine.
func (h *Hub) post(fn func()) {
	select {
	case h.tasks <- fn:
	case <-h.quit:
	}
}

func (h *Hub) stop() {
	h.stopOnce.Do(func() {
		close(h.quit)
	})
}

func (h *Hub) shutdown() {
	if h.round != nil {
		h.round.EndRoundEarly()
	}

	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) touch() {
	h.mu.Lock()
	h.lastActive = h.clock.Now()
	h.mu.Unlock()
}

func (h *Hub) idleSince(cutoff time.Time) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.lastActive.Before(cutoff)
}

func (h *Hub) connected(playerID string) bool {
	for c := range h.clients {
		if c.playerID == playerID {
			return true
		}
	}
	return false
}

func (h *Hub) suspensionFor(playerID string) *headsup.Suspension {
	s, ok := h.suspensions[playerID]
	if !ok {
		s = headsup.NewSuspension()
		h.suspensions[playerID] = s
	}
	return s
}

// pruneSuspensions forgets players that are gone and not holding the round.
// The holder's entry stays so a drop keeps the round paused until they return.
func (h *Hub) pruneSuspensions() {
	for playerID := range h.suspensions {
		if playerID != h.holder && !h.connected(playerID) {
			delete(h.suspensions, playerID)
		}
	}
}

// setSuspended records a reason against a player, and forwards it to the
// round when that player is the holder.
func (h *Hub) setSuspended(playerID string, reason headsup.SuspendReason, raised bool) {
	if playerID == "" {
		return
	}

	s, ok := h.suspensions[playerID]
	if !ok && !raised {
		return
	}
	if !ok {
		s = h.suspensionFor(playerID)
	}

	if !s.Set(reason, raised) {
		return
	}

	if playerID == h.holder && h.round != nil {
		h.round.SetSuspended(reason, raised)
	}
}

func inProgress(round *headsup.Controller) bool {
	if round == nil {
		return false
	}

	phase := round.Phase()

	return phase == headsup.PhaseActive || phase == headsup.PhasePaused
}

func (h *Hub) sessionInfo(c *Client) SessionInfoMessage {
	msg := SessionInfoMessage{
		Type:       "session_info",
		GameID:     h.id,
		IsHolder:   c.playerID != "" && c.playerID == h.holder,
		Categories: summarizeAll(h.catalog.Categories()),
	}

	if h.round != nil && h.round.Phase() != headsup.PhaseIdle {
		st := h.round.State()
		msg.Round = &RoundStateMessage{
			RoundID:   st.RoundID,
			Category:  st.Category,
			Phase:     st.Phase.String(),
			Score:     st.Score,
			Remaining: st.Remaining,
			Word:      st.Word,
			Ledger:    st.Ledger,
		}
	}

	return msg
}

func (h *Hub) handleCommand(cmd command) {
	c := cmd.client
	msg := cmd.msg

	switch msg.Type {
	case "start":
		h.startRound(c, msg)

	case "abandon":
		if inProgress(h.round) {
			logf(h.cfg, "GAMES: Round %s abandoned in %s", h.round.ID(), h.id)
			h.round.EndRoundEarly()
		}

	case "sample":
		if h.round == nil || c.playerID != h.holder || msg.FrontBack == nil || msg.LeftRight == nil {
			return
		}

		h.round.OnSample(headsup.Sample{
			FrontBack: *msg.FrontBack,
			LeftRight: *msg.LeftRight,
		})

	case "suspend":
		reason := headsup.SuspendReason(msg.Reason)
		if msg.Active == nil || (reason != headsup.ReasonBackgrounded && reason != headsup.ReasonWrongOrientation) {
			h.sendError(c, "unknown suspend reason")

			return
		}

		h.setSuspended(c.playerID, reason, *msg.Active)

	case "action":
		action, err := headsup.ParseAction(msg.Action)
		if err != nil {
			h.sendError(c, err.Error())

			return
		}

		if h.round != nil {
			h.round.OnAction(action)
		}

	default:
		// ignore unknown types
	}
}

func (h *Hub) startRound(c *Client, msg ClientMessage) {
	if msg.CategoryID == nil {
		h.sendError(c, "missing category")

		return
	}

	if inProgress(h.round) {
		h.sendError(c, headsup.ErrRoundStarted.Error())

		return
	}

	category, err := h.catalog.Lookup(*msg.CategoryID)
	if err != nil {
		h.sendError(c, err.Error())

		return
	}

	sched := headsup.NewScheduler(h.clock, h.post)
	round := headsup.NewController(h.cfg.round(), h.clock, sched, nil, h.publish)

	for _, reason := range h.suspensionFor(c.playerID).Reasons() {
		round.SetSuspended(reason, true)
	}

	h.round = round
	h.holder = c.playerID
	h.pruneSuspensions()

	if err := round.StartRound(category); err != nil {
		h.sendError(c, err.Error())

		return
	}

	h.played++

	logf(h.cfg, "GAMES: Round %s started in %s with %q (round %d)", round.ID(), h.id, category.Name, h.played)
}

// publish turns round events into socket messages. It runs on the hub's
// run loop, because the controller only emits from calls made there.
func (h *Hub) publish(ev headsup.Event) {
	switch e := ev.(type) {
	case headsup.RoundStarted:
		for client := range h.clients {
			h.sendTo(client, RoundStartedMessage{
				Type:     "round_started",
				RoundID:  e.RoundID,
				Category: summarize(e.Category),
				Seconds:  e.Seconds,
				IsHolder: client.playerID == h.holder,
			})
		}

	case headsup.CardChanged:
		h.broadcast(CardMessage{
			Type: "card",
			Word: e.Word,
		})

	case headsup.ActionResolved:
		h.broadcast(ActionResolvedMessage{
			Type:    "action_resolved",
			Outcome: e.Outcome,
			Word:    e.Word,
			Score:   e.Score,
		})

	case headsup.TimerTicked:
		h.broadcast(TickMessage{
			Type:      "tick",
			Remaining: e.Remaining,
			Warning:   e.Warning,
			Danger:    e.Danger,
		})

	case headsup.RoundPaused:
		h.broadcast(PausedMessage{
			Type:    "paused",
			Reasons: e.Reasons,
		})

	case headsup.RoundResumed:
		h.broadcast(SimpleMessage{
			Type: "resumed",
		})

	case headsup.RoundEnded:
		logf(h.cfg, "GAMES: Round %s ended in %s with score %d", e.RoundID, h.id, e.Score)

		h.broadcast(RoundEndedMessage{
			Type:      "round_ended",
			RoundID:   e.RoundID,
			Score:     e.Score,
			Ledger:    e.Ledger,
			Abandoned: e.Abandoned,
		})
	}
}

func (h *Hub) broadcast(msg any) {
	for client := range h.clients {
		h.sendTo(client, msg)
	}
}

// sendTo never blocks the run loop; a client that cannot keep up is dropped.
func (h *Hub) sendTo(c *Client, msg any) {
	if _, ok := h.clients[c]; !ok {
		return
	}

	select {
	case c.send <- msg:
	default:
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) sendError(c *Client, text string) {
	h.sendTo(c, SimpleMessage{
		Type:    "error",
		Message: text,
	})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const playerCookieName = "headsup_id"

func getOrSetPlayerID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

// GameManager holds a set of hubs keyed by game ID, so each $path/$gameid
// is its own isolated session.
type GameManager struct {
	cfg         *Config
	catalog     *headsup.Catalog
	clock       clockwork.Clock
	idleTimeout time.Duration

	mu   sync.Mutex
	hubs map[string]*Hub

	done      chan struct{}
	closeOnce sync.Once
}

func newGameManager(cfg *Config, catalog *headsup.Catalog, clock clockwork.Clock) *GameManager {
	gm := &GameManager{
		cfg:         cfg,
		catalog:     catalog,
		clock:       clock,
		idleTimeout: cfg.sessionTimeout,
		hubs:        make(map[string]*Hub),
		done:        make(chan struct{}),
	}
	if gm.idleTimeout > 0 {
		go gm.reaperLoop()
	}
	return gm
}

func (gm *GameManager) getHub(gameID string) *Hub {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if hub, ok := gm.hubs[gameID]; ok {
		return hub
	}

	hub := newHub(gm.cfg, gm.catalog, gm.clock, gameID)
	gm.hubs[gameID] = hub
	go hub.run()
	return hub
}

// newGameID generates a crypto-random game ID and ensures it doesn't
// collide with existing games.
func (gm *GameManager) newGameID() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	for {
		buf := make([]byte, 8)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, 8)
		for i := range out {
			out[i] = letters[int(buf[i])%len(letters)]
		}
		id := string(out)

		gm.mu.Lock()
		_, exists := gm.hubs[id]
		gm.mu.Unlock()

		if !exists {
			return id
		}
	}
}

// reaperLoop periodically removes hubs that have been idle longer than idleTimeout.
func (gm *GameManager) reaperLoop() {
	ticker := gm.clock.NewTicker(gm.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			gm.reap()
		case <-gm.done:
			return
		}
	}
}

func (gm *GameManager) reap() int {
	cutoff := gm.clock.Now().Add(-gm.idleTimeout)

	gm.mu.Lock()
	defer gm.mu.Unlock()

	reaped := 0
	for id, hub := range gm.hubs {
		if hub.idleSince(cutoff) {
			delete(gm.hubs, id)
			hub.stop()
			reaped++

			logf(gm.cfg, "GAMES: Reaped idle game %s (created %s)", id, hub.createdAt.Format(logDate))
		}
	}

	return reaped
}

// Close ends every session. Rounds in progress are abandoned.
func (gm *GameManager) Close() {
	gm.closeOnce.Do(func() {
		close(gm.done)

		gm.mu.Lock()
		defer gm.mu.Unlock()

		for id, hub := range gm.hubs {
			delete(gm.hubs, id)
			hub.stop()
		}
	})
}

// WebSocket handler that picks the hub based on :gameid
func serveWSForManager(cfg *Config, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if gameID == "" {
			http.Error(w, "missing game id", http.StatusBadRequest)
			return
		}

		playerID := getOrSetPlayerID(w, r)

		hub := gm.getHub(gameID)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logErr(err, "ERROR: Websocket upgrade failed")
			return
		}

		client := &Client{
			conn:     conn,
			send:     make(chan any, 32),
			playerID: playerID,
		}

		select {
		case hub.register <- client:
		case <-hub.quit:
			_ = conn.Close()
			return
		}

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unreg <- c:
		case <-h.quit:
		}
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		select {
		case h.commands <- command{client: c, msg: msg}:
		case <-h.quit:
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(timeout))
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// QR handler: generates a PNG QR code for the current game URL using go-qrcode.
func qrHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if gameID == "" {
			http.Error(w, "missing game id", http.StatusBadRequest)
			return
		}

		// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		// We are at /.../:gameid/qr; strip trailing "/qr" to get the game URL.
		path := strings.TrimSuffix(r.URL.Path, "/qr")

		url := scheme + "://" + r.Host + path

		const qrSize = 320 // mobile-friendly size
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		securityHeaders(cfg, w)
		_, _ = w.Write(png)
	}
}

func serveGamePage(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		page, err := assets.ReadFile("assets/headsup/index.html")
		if err != nil {
			errs <- err
			http.Error(w, "missing client", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		securityHeaders(cfg, w)

		_ = getOrSetPlayerID(w, r)

		if _, err := w.Write(page); err != nil {
			errs <- err
		}
	}
}

// serveCategories lists the catalog without word lists, so other sites can
// offer a category picker before linking into a game.
func serveCategories(cfg *Config, catalog *headsup.Catalog, errs chan<- error) http.Handler {
	categories := summarizeAll(catalog.Categories())

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		securityHeaders(cfg, w)

		if err := json.NewEncoder(w).Encode(categories); err != nil {
			errs <- err
		}
	})
}

// redirectNewGame handles GET /path by generating a new random game ID
// (with server-side collision detection) and redirecting to /path/:gameid.
func redirectNewGame(cfg *Config, path string, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gameID := gm.newGameID()
		logf(cfg, "GAMES: Created game %s/%s", path, gameID)
		http.Redirect(w, r, cfg.prefix+path+"/"+gameID, http.StatusTemporaryRedirect)
	}
}

// registerHeadsUpGame sets up routes so that:
//   - $path                  → redirects to new random game (8-char ID)
//   - $path/:gameid          → HTML client
//   - $path/:gameid/ws       → WebSocket for that game
//   - $path/:gameid/qr       → PNG QR code for that game URL
//   - /api$path/categories   → category list, with CORS when origins are configured
func registerHeadsUpGame(cfg *Config, catalog *headsup.Catalog, path string, mux *httprouter.Router, errs chan<- error) *GameManager {
	gm := newGameManager(cfg, catalog, clockwork.NewRealClock())

	mux.GET(cfg.prefix+path, redirectNewGame(cfg, path, gm))

	mux.GET(cfg.prefix+path+"/:gameid", serveGamePage(cfg, errs))

	mux.GET(cfg.prefix+path+"/:gameid/ws", serveWSForManager(cfg, gm))

	mux.GET(cfg.prefix+path+"/:gameid/qr", qrHandler(cfg))

	api := serveCategories(cfg, catalog, errs)
	if len(cfg.allowedOrigins) > 0 {
		api = cors.New(cors.Options{
			AllowedOrigins: cfg.allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		}).Handler(api)
		mux.Handler(http.MethodOptions, cfg.prefix+"/api"+path+"/categories", api)
	}
	mux.Handler(http.MethodGet, cfg.prefix+"/api"+path+"/categories", api)

	return gm
}
