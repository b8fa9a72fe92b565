// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jeranaias/proskill-tui/internal/model"
)

// =============================================================================
// ENDPOINT FAMILIES
// =============================================================================

// Both conversation tracks expose the same operations under separate roots.

func conversationsPath(kind model.Kind) string {
	if kind == model.KindTraining {
		return "/api/conversations_training/"
	}
	return "/api/conversations/"
}

func conversationPath(kind model.Kind, id int) string {
	return conversationsPath(kind) + strconv.Itoa(id)
}

func qnaPath(kind model.Kind) string {
	if kind == model.KindTraining {
		return "/api/rag/agent_trainer_qna"
	}
	return "/api/rag/qna"
}

type renameRequest struct {
	Title string `json:"title"`
}

type questionRequest struct {
	Question       string `json:"question"`
	ConversationID int    `json:"conversation_id"`
}

// =============================================================================
// CONVERSATIONS
// =============================================================================

// ListConversations lists the team's conversations of the given kind.
func (c *Client) ListConversations(ctx context.Context, kind model.Kind, teamID int) ([]model.Conversation, error) {
	token, ok := c.token(ctx, "list conversations")
	if !ok {
		return nil, nil
	}
	var convs []model.Conversation
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   conversationsPath(kind),
		query:  url.Values{"team_id": {strconv.Itoa(teamID)}},
		token:  token,
	}, &convs)
	if err != nil {
		return nil, err
	}
	return convs, nil
}

// CreateConversation creates a conversation bound to partnerID, which is
// the assistant id for assessments and the character id for training.
func (c *Client) CreateConversation(ctx context.Context, kind model.Kind, title string, teamID, partnerID int) (*model.Conversation, error) {
	token, ok := c.token(ctx, "create conversation")
	if !ok {
		return nil, nil
	}
	body := map[string]interface{}{
		"title":             title,
		"team_id":           teamID,
		kind.PartnerField(): partnerID,
	}
	var conv model.Conversation
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   conversationsPath(kind),
		token:  token,
		body:   body,
	}, &conv)
	if err != nil {
		return nil, err
	}
	if conv.Title == "" {
		conv.Title = title
	}
	return &conv, nil
}

// DeleteConversation deletes a conversation.
func (c *Client) DeleteConversation(ctx context.Context, kind model.Kind, id int) error {
	token, ok := c.token(ctx, "delete conversation")
	if !ok {
		return nil
	}
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   conversationPath(kind, id),
		token:  token,
	}, nil)
}

// RenameConversation changes a conversation's title.
func (c *Client) RenameConversation(ctx context.Context, kind model.Kind, id int, title string) error {
	token, ok := c.token(ctx, "rename conversation")
	if !ok {
		return nil
	}
	return c.do(ctx, request{
		method: http.MethodPut,
		path:   conversationPath(kind, id),
		token:  token,
		body:   renameRequest{Title: title},
	}, nil)
}

// ListMessages returns a conversation's transcript in display order.
func (c *Client) ListMessages(ctx context.Context, kind model.Kind, id int) ([]model.Message, error) {
	token, ok := c.token(ctx, "list messages")
	if !ok {
		return nil, nil
	}
	var msgs []model.Message
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   conversationPath(kind, id) + "/messages",
		token:  token,
	}, &msgs)
	if err != nil {
		return nil, err
	}
	model.AssignLocalIDs(msgs)
	return msgs, nil
}

// SendMessage posts a question and returns the assistant's reply.
func (c *Client) SendMessage(ctx context.Context, kind model.Kind, conversationID int, question string) (*model.ChatResponse, error) {
	token, ok := c.token(ctx, "send message")
	if !ok {
		return nil, nil
	}
	var resp model.ChatResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   qnaPath(kind),
		token:  token,
		body:   questionRequest{Question: question, ConversationID: conversationID},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
