// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package apitest provides an in-memory ProSkillify backend for tests.
//
// The server speaks the same JSON as the real backend, issues HS256 JWTs
// and keeps per-route call counters. Routes can be made to fail with a
// given status or held open until released, which lets tests exercise
// pending states and late results deterministically.
package apitest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jeranaias/proskill-tui/internal/model"
)

// Route keys accepted by Fail, Hold and Calls.
const (
	RouteLogin               = "POST /api/auth/login"
	RouteRegister            = "POST /api/auth/register"
	RouteMe                  = "GET /api/auth/me"
	RouteListTeams           = "GET /api/teams/"
	RouteCreateTeam          = "POST /api/teams/"
	RouteListConversations   = "GET /api/conversations/"
	RouteCreateConversation  = "POST /api/conversations/"
	RouteDeleteConversation  = "DELETE /api/conversations/{id}"
	RouteRenameConversation  = "PUT /api/conversations/{id}"
	RouteListMessages        = "GET /api/conversations/{id}/messages"
	RouteListTraining        = "GET /api/conversations_training/"
	RouteCreateTraining      = "POST /api/conversations_training/"
	RouteDeleteTraining      = "DELETE /api/conversations_training/{id}"
	RouteRenameTraining      = "PUT /api/conversations_training/{id}"
	RouteListTrainingMessage = "GET /api/conversations_training/{id}/messages"
	RouteQnA                 = "POST /api/rag/qna"
	RouteTrainerQnA          = "POST /api/rag/agent_trainer_qna"
	RouteCharacters          = "GET /api/trainer_characters/"
	RouteTrain               = "POST /api/rag/add_uploaded_file_to_chromadb/"
)

// ReplyFunc produces the assistant's answer to a question.
type ReplyFunc func(kind model.Kind, conversationID int, question string) model.ChatResponse

// EchoReply answers every question with "echo: <question>".
func EchoReply(_ model.Kind, _ int, question string) model.ChatResponse {
	return model.ChatResponse{Completion: "echo: " + question}
}

type account struct {
	user     model.User
	password string
}

type conversation struct {
	model.Conversation
	partnerID int
	messages  []model.Message
}

// Server is a fake backend. The zero value is not usable; call NewServer.
type Server struct {
	*httptest.Server

	secret []byte
	ttl    time.Duration

	mu            sync.Mutex
	accounts      map[string]*account // by email
	teams         map[int]*model.Team
	conversations map[model.Kind]map[int]*conversation
	characters    []model.Character
	assistants    map[int]bool
	reply         ReplyFunc
	nextID        int
	calls         map[string]int
	failures      map[string]int
	holds         map[string]chan struct{}
	lastAuth      map[string]string
}

// NewServer starts a fake backend. Call Close when done.
func NewServer() *Server {
	s := &Server{
		secret:   []byte("apitest-secret"),
		ttl:      time.Hour,
		accounts: make(map[string]*account),
		teams:    make(map[int]*model.Team),
		conversations: map[model.Kind]map[int]*conversation{
			model.KindAssessment: {},
			model.KindTraining:   {},
		},
		characters: []model.Character{
			{ID: 1, Name: "Skeptical Buyer", Description: "Pushes back on price"},
			{ID: 2, Name: "Busy Executive", Description: "Wants the short version"},
		},
		assistants: map[int]bool{1: true},
		reply:      EchoReply,
		nextID:     1,
		calls:      make(map[string]int),
		failures:   make(map[string]int),
		holds:      make(map[string]chan struct{}),
		lastAuth:   make(map[string]string),
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)

	r.Post("/api/auth/login", s.public(RouteLogin, s.login))
	r.Post("/api/auth/register", s.public(RouteRegister, s.register))

	r.Get("/api/auth/me", s.authed(RouteMe, s.me))
	r.Get("/api/teams/", s.authed(RouteListTeams, s.listTeams))
	r.Post("/api/teams/", s.authed(RouteCreateTeam, s.createTeam))

	r.Get("/api/conversations/", s.authed(RouteListConversations, s.listConversations(model.KindAssessment)))
	r.Post("/api/conversations/", s.authed(RouteCreateConversation, s.createConversation(model.KindAssessment)))
	r.Delete("/api/conversations/{id}", s.authed(RouteDeleteConversation, s.deleteConversation(model.KindAssessment)))
	r.Put("/api/conversations/{id}", s.authed(RouteRenameConversation, s.renameConversation(model.KindAssessment)))
	r.Get("/api/conversations/{id}/messages", s.authed(RouteListMessages, s.listMessages(model.KindAssessment)))

	r.Get("/api/conversations_training/", s.authed(RouteListTraining, s.listConversations(model.KindTraining)))
	r.Post("/api/conversations_training/", s.authed(RouteCreateTraining, s.createConversation(model.KindTraining)))
	r.Delete("/api/conversations_training/{id}", s.authed(RouteDeleteTraining, s.deleteConversation(model.KindTraining)))
	r.Put("/api/conversations_training/{id}", s.authed(RouteRenameTraining, s.renameConversation(model.KindTraining)))
	r.Get("/api/conversations_training/{id}/messages", s.authed(RouteListTrainingMessage, s.listMessages(model.KindTraining)))

	r.Post("/api/rag/qna", s.authed(RouteQnA, s.qna(model.KindAssessment)))
	r.Post("/api/rag/agent_trainer_qna", s.authed(RouteTrainerQnA, s.qna(model.KindTraining)))
	r.Get("/api/trainer_characters/", s.authed(RouteCharacters, s.listCharacters))
	r.Post("/api/rag/add_uploaded_file_to_chromadb/", s.authed(RouteTrain, s.train))
	return r
}

// =============================================================================
// TEST CONTROLS
// =============================================================================

// AddUser creates an account and returns it. teamNames become teams the
// user belongs to, in order.
func (s *Server) AddUser(name, email, password string, teamNames ...string) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(name, email, password, teamNames...)
}

func (s *Server) addUserLocked(name, email, password string, teamNames ...string) model.User {
	u := model.User{ID: s.id(), Email: email, Name: name}
	for _, tn := range teamNames {
		t := &model.Team{ID: s.id(), Name: tn}
		s.teams[t.ID] = t
		u.Teams = append(u.Teams, *t)
	}
	s.accounts[strings.ToLower(email)] = &account{user: u, password: password}
	return u
}

// Token issues a valid token for the user with the given email.
func (s *Server) Token(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[strings.ToLower(email)]
	if !ok {
		return ""
	}
	tok, _ := s.sign(acc.user.ID)
	return tok
}

// SetReply replaces the assistant's answer generator.
func (s *Server) SetReply(fn ReplyFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reply = fn
}

// Fail makes every request to route answer with status until cleared with
// a status of zero.
func (s *Server) Fail(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failures, route)
		return
	}
	s.failures[route] = status
}

// Hold blocks requests to route until the returned release func is called.
// Release is idempotent.
func (s *Server) Hold(route string) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.holds[route] = ch
	s.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.holds[route] == ch {
				delete(s.holds, route)
			}
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Calls returns how many requests reached route.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// TotalCalls returns the number of requests across all routes.
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

// Authorization returns the Authorization header of the last request to route.
func (s *Server) Authorization(route string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAuth[route]
}

// Conversations returns the stored conversations of kind for a team.
func (s *Server) Conversations(kind model.Kind, teamID int) []model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked(kind, teamID)
}

// PartnerID returns the assistant or character id a conversation was
// created with, or 0.
func (s *Server) PartnerID(kind model.Kind, id int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.conversations[kind][id]; ok {
		return c.partnerID
	}
	return 0
}

// Messages returns the stored transcript of a conversation.
func (s *Server) Messages(kind model.Kind, id int) []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversations[kind][id]
	if !ok {
		return nil
	}
	return model.CloneMessages(c.messages)
}

// =============================================================================
// PLUMBING
// =============================================================================

type authedHandler func(w http.ResponseWriter, r *http.Request, u *model.User)

// public wraps a route with call counting, failure injection and holds.
func (s *Server) public(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[route]++
		s.lastAuth[route] = r.Header.Get("Authorization")
		status := s.failures[route]
		hold := s.holds[route]
		s.mu.Unlock()

		if hold != nil {
			select {
			case <-hold:
			case <-r.Context().Done():
				return
			}
		}
		if status != 0 {
			respondDetail(w, r, status, http.StatusText(status))
			return
		}
		next(w, r)
	}
}

// authed is public plus bearer verification.
func (s *Server) authed(route string, next authedHandler) http.HandlerFunc {
	return s.public(route, func(w http.ResponseWriter, r *http.Request) {
		s.serveAuthed(w, r, next)
	})
}

func (s *Server) serveAuthed(w http.ResponseWriter, r *http.Request, fn authedHandler) {
	u, ok := s.authenticate(r)
	if !ok {
		respondDetail(w, r, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	fn(w, r, u)
}

func (s *Server) authenticate(r *http.Request) (*model.User, bool) {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || raw == "" {
		return nil, false
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, false
	}
	id, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.user.ID == id {
			u := acc.user.Clone()
			return u, true
		}
	}
	return nil, false
}

func (s *Server) sign(userID int) (string, error) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})
	return tok.SignedString(s.secret)
}

// id must be called with mu held.
func (s *Server) id() int {
	id := s.nextID
	s.nextID++
	return id
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

func respondDetail(w http.ResponseWriter, r *http.Request, status int, detail string) {
	respondJSON(w, r, status, map[string]string{"detail": detail})
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		respondJSON(w, r, http.StatusUnprocessableEntity, map[string]interface{}{
			"detail": []map[string]string{{"msg": "invalid request body"}},
		})
		return false
	}
	return true
}

func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil
}

// Wait blocks until route has seen at least n calls or ctx is done.
func (s *Server) Wait(ctx context.Context, route string, n int) error {
	t := time.NewTicker(2 * time.Millisecond)
	defer t.Stop()
	for {
		if s.Calls(route) >= n {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}
