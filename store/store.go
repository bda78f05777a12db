// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/plant-care/db"
	"github.com/danielhkuo/plant-care/models"
)

var ErrMissingUserID = errors.New("user id is required")

// Backend loads and writes whole attribute records
type Backend interface {
	Load(ctx context.Context, userID string) (models.Attributes, error)
	Put(ctx context.Context, userID string, attrs models.Attributes) error
}

// SQLStore keeps one JSON document per user in user_attributes.
// Writes are last-write-wins upserts.
type SQLStore struct {
	db     *sql.DB
	dbType string
	now    func() time.Time
}

func NewSQLStore(conn *sql.DB, dbType string) *SQLStore {
	return &SQLStore{db: conn, dbType: dbType, now: time.Now}
}

// Load returns the stored record, or an empty record if none exists
func (s *SQLStore) Load(ctx context.Context, userID string) (models.Attributes, error) {
	if userID == "" {
		return models.Attributes{}, ErrMissingUserID
	}

	var raw string
	err := s.db.QueryRowContext(ctx, db.Rebind(s.dbType, `
		SELECT attributes FROM user_attributes WHERE user_id = ?
	`), userID).Scan(&raw)

	if err == sql.ErrNoRows {
		return models.Attributes{}, nil
	}
	if err != nil {
		return models.Attributes{}, fmt.Errorf("failed to load attributes: %w", err)
	}

	return DecodeAttributes([]byte(raw)), nil
}

// Put replaces the stored record
func (s *SQLStore) Put(ctx context.Context, userID string, attrs models.Attributes) error {
	if userID == "" {
		return ErrMissingUserID
	}

	doc, err := json.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("failed to encode attributes: %w", err)
	}

	_, err = s.db.ExecContext(ctx, db.Rebind(s.dbType, `
		INSERT INTO user_attributes (user_id, attributes, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			attributes = excluded.attributes,
			updated_at = excluded.updated_at
	`), userID, string(doc), s.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save attributes: %w", err)
	}

	return nil
}

// DecodeAttributes parses a stored document. Broken fields decode as empty
// instead of failing the whole record.
func DecodeAttributes(raw []byte) models.Attributes {
	var attrs models.Attributes

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		slog.Warn("malformed attribute document, treating as empty", "error", err)
		return attrs
	}

	if v, ok := doc["date"]; ok {
		var date string
		if err := json.Unmarshal(v, &date); err == nil {
			attrs.LastWateredDate = date
		} else {
			slog.Warn("malformed date attribute, ignoring", "error", err)
		}
	}

	if v, ok := doc["instances"]; ok {
		var items []json.RawMessage
		if err := json.Unmarshal(v, &items); err != nil {
			slog.Warn("instances attribute is not a list, ignoring", "error", err)
			return attrs
		}
		for _, item := range items {
			var id string
			if err := json.Unmarshal(item, &id); err != nil || id == "" {
				continue
			}
			attrs.AddInstance(id)
		}
	}

	return attrs
}
