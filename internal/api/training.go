// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"

	"github.com/jeranaias/proskill-tui/internal/model"
)

// TrainResponse is returned once uploaded documents are indexed.
type TrainResponse struct {
	Description  string `json:"description"`
	NumberChunks int    `json:"numberChunks"`
}

type trainRequest struct {
	ID int `json:"id"`
}

// ListCharacters returns the trainer characters.
func (c *Client) ListCharacters(ctx context.Context) ([]model.Character, error) {
	token, ok := c.token(ctx, "list characters")
	if !ok {
		return nil, nil
	}
	var chars []model.Character
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/trainer_characters/", token: token}, &chars); err != nil {
		return nil, err
	}
	return chars, nil
}

// TrainModel asks the backend to index the last uploaded document for
// the given assistant.
func (c *Client) TrainModel(ctx context.Context, assistantID int) (*TrainResponse, error) {
	token, ok := c.token(ctx, "train model")
	if !ok {
		return nil, nil
	}
	var resp TrainResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/rag/add_uploaded_file_to_chromadb/",
		token:  token,
		body:   trainRequest{ID: assistantID},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
