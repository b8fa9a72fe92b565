// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package apitest

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jeranaias/proskill-tui/internal/model"
)

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	acc, ok := s.accounts[strings.ToLower(req.Email)]
	var userID int
	if ok {
		userID = acc.user.ID
		ok = acc.password == req.Password
	}
	s.mu.Unlock()
	if !ok {
		respondDetail(w, r, http.StatusUnauthorized, "Incorrect email or password")
		return
	}
	tok, err := s.sign(userID)
	if err != nil {
		respondDetail(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]string{"access_token": tok, "token_type": "bearer"})
}

// register creates the account with a personal team.
func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            string `json:"name"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Password != req.ConfirmPassword {
		respondJSON(w, r, http.StatusUnprocessableEntity, map[string]interface{}{
			"detail": []map[string]string{{"msg": "passwords do not match"}},
		})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[strings.ToLower(req.Email)]; exists {
		respondDetail(w, r, http.StatusBadRequest, "Email already registered")
		return
	}
	u := s.addUserLocked(req.Name, req.Email, req.Password, req.Name+"'s team")
	respondJSON(w, r, http.StatusOK, u)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request, u *model.User) {
	respondJSON(w, r, http.StatusOK, u)
}

func (s *Server) listTeams(w http.ResponseWriter, r *http.Request, u *model.User) {
	teams := u.Teams
	if teams == nil {
		teams = []model.Team{}
	}
	respondJSON(w, r, http.StatusOK, teams)
}

func (s *Server) createTeam(w http.ResponseWriter, r *http.Request, u *model.User) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondDetail(w, r, http.StatusBadRequest, "Team name is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &model.Team{ID: s.id(), Name: req.Name, Description: req.Description}
	s.teams[t.ID] = t
	if acc, ok := s.accounts[strings.ToLower(u.Email)]; ok {
		acc.user.Teams = append(acc.user.Teams, *t)
	}
	respondJSON(w, r, http.StatusOK, t)
}

// listLocked returns conversations newest first. mu must be held.
func (s *Server) listLocked(kind model.Kind, teamID int) []model.Conversation {
	out := []model.Conversation{}
	for _, c := range s.conversations[kind] {
		if c.TeamID == teamID {
			out = append(out, c.Conversation)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *Server) listConversations(kind model.Kind) authedHandler {
	return func(w http.ResponseWriter, r *http.Request, u *model.User) {
		teamID, err := strconv.Atoi(r.URL.Query().Get("team_id"))
		if err != nil {
			respondDetail(w, r, http.StatusBadRequest, "team_id is required")
			return
		}
		if _, ok := u.Team(teamID); !ok {
			respondDetail(w, r, http.StatusForbidden, "Not a member of this team")
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		respondJSON(w, r, http.StatusOK, s.listLocked(kind, teamID))
	}
}

func (s *Server) createConversation(kind model.Kind) authedHandler {
	return func(w http.ResponseWriter, r *http.Request, u *model.User) {
		body := map[string]interface{}{}
		if !decode(w, r, &body) {
			return
		}
		title, _ := body["title"].(string)
		teamID, okTeam := body["team_id"].(float64)
		partner, okPartner := body[kind.PartnerField()].(float64)
		if !okTeam || !okPartner {
			respondJSON(w, r, http.StatusUnprocessableEntity, map[string]interface{}{
				"detail": []map[string]string{{"msg": "team_id and " + kind.PartnerField() + " must be integers"}},
			})
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		c := &conversation{
			Conversation: model.Conversation{
				ID:        s.id(),
				Title:     title,
				TeamID:    int(teamID),
				CreatedAt: time.Now().UTC().Format(time.RFC3339),
			},
			partnerID: int(partner),
		}
		s.conversations[kind][c.ID] = c
		respondJSON(w, r, http.StatusOK, c.Conversation)
	}
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request, kind model.Kind) (*conversation, bool) {
	id, ok := pathID(r)
	if !ok {
		respondDetail(w, r, http.StatusBadRequest, "invalid conversation id")
		return nil, false
	}
	c, ok := s.conversations[kind][id]
	if !ok {
		respondDetail(w, r, http.StatusNotFound, "Conversation not found")
		return nil, false
	}
	return c, true
}

func (s *Server) deleteConversation(kind model.Kind) authedHandler {
	return func(w http.ResponseWriter, r *http.Request, _ *model.User) {
		s.mu.Lock()
		defer s.mu.Unlock()
		c, ok := s.lookup(w, r, kind)
		if !ok {
			return
		}
		delete(s.conversations[kind], c.ID)
		respondJSON(w, r, http.StatusOK, map[string]string{"detail": "Conversation deleted"})
	}
}

func (s *Server) renameConversation(kind model.Kind) authedHandler {
	return func(w http.ResponseWriter, r *http.Request, _ *model.User) {
		var req struct {
			Title string `json:"title"`
		}
		if !decode(w, r, &req) {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		c, ok := s.lookup(w, r, kind)
		if !ok {
			return
		}
		c.Title = req.Title
		respondJSON(w, r, http.StatusOK, c.Conversation)
	}
}

func (s *Server) listMessages(kind model.Kind) authedHandler {
	return func(w http.ResponseWriter, r *http.Request, _ *model.User) {
		s.mu.Lock()
		defer s.mu.Unlock()
		c, ok := s.lookup(w, r, kind)
		if !ok {
			return
		}
		msgs := c.messages
		if msgs == nil {
			msgs = []model.Message{}
		}
		respondJSON(w, r, http.StatusOK, msgs)
	}
}

func (s *Server) qna(kind model.Kind) authedHandler {
	return func(w http.ResponseWriter, r *http.Request, _ *model.User) {
		var req struct {
			Question       string `json:"question"`
			ConversationID int    `json:"conversation_id"`
		}
		if !decode(w, r, &req) {
			return
		}
		s.mu.Lock()
		c, ok := s.conversations[kind][req.ConversationID]
		reply := s.reply
		s.mu.Unlock()
		if !ok {
			respondDetail(w, r, http.StatusNotFound, "Conversation not found")
			return
		}

		resp := reply(kind, req.ConversationID, req.Question)

		s.mu.Lock()
		now := time.Now().UTC().Format(time.RFC3339)
		human := model.Message{ID: s.id(), Content: req.Question, Role: model.RoleHuman, CreatedAt: now}
		bot := resp.Message()
		bot.ID = s.id()
		bot.LocalID = ""
		bot.CreatedAt = now
		c.messages = append(c.messages, human, bot)
		s.mu.Unlock()

		respondJSON(w, r, http.StatusOK, resp)
	}
}

func (s *Server) listCharacters(w http.ResponseWriter, r *http.Request, _ *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	respondJSON(w, r, http.StatusOK, s.characters)
}

func (s *Server) train(w http.ResponseWriter, r *http.Request, _ *model.User) {
	var req struct {
		ID int `json:"id"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	known := s.assistants[req.ID]
	s.mu.Unlock()
	if !known {
		respondDetail(w, r, http.StatusNotFound, "Assistant not found")
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"description":  "Model trained successfully",
		"numberChunks": 3,
	})
}
