// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/plant-care/models"
	"github.com/danielhkuo/plant-care/skill"
	"github.com/danielhkuo/plant-care/store"
	"github.com/danielhkuo/plant-care/testutil"
)

// TestConcurrentWatering verifies that simultaneous watering events from
// different users each land in their own record
func TestConcurrentWatering(t *testing.T) {
	db := testutil.SetupTestDB(t)
	backend := store.NewSQLStore(db, "sqlite")
	syncer := newFakeSyncer()
	d := NewDispatcher(skill.Deps{Attributes: backend, Sync: syncer})

	numUsers := 10
	userIDs := make([]string, numUsers)
	for i := range numUsers {
		userIDs[i] = testutil.NewUserID()
	}

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := range numUsers {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			env := testutil.UserEventEnvelope(userIDs[idx], models.ActionWateredWidget, "2024-05-02")
			resp := d.Dispatch(context.Background(), env)

			if resp.Response.OutputSpeech == nil {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numUsers {
		t.Errorf("Expected %d successful events, got %d", numUsers, successCount.Load())
	}

	var rowCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM user_attributes").Scan(&rowCount); err != nil {
		t.Fatalf("Failed to count records: %v", err)
	}
	if rowCount != numUsers {
		t.Errorf("Expected %d records, got %d", numUsers, rowCount)
	}

	for _, userID := range userIDs {
		attrs, err := backend.Load(context.Background(), userID)
		if err != nil {
			t.Fatalf("Failed to load %s: %v", userID, err)
		}
		if attrs.LastWateredDate != "2024-05-02" {
			t.Errorf("User %s: expected date 2024-05-02, got %q", userID, attrs.LastWateredDate)
		}
	}

	if got := len(syncer.Calls()); got != numUsers {
		t.Errorf("Expected %d pushes, got %d", numUsers, got)
	}
}

// TestConcurrentWateringSameUser verifies that racing writes for one user
// leave exactly one well-formed record holding one of the written dates
func TestConcurrentWateringSameUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	backend := store.NewSQLStore(db, "sqlite")
	d := NewDispatcher(skill.Deps{Attributes: backend, Sync: newFakeSyncer()})

	userID := testutil.NewUserID()
	dates := []string{"2024-05-01", "2024-05-02", "2024-05-03", "2024-05-04", "2024-05-05"}

	var wg sync.WaitGroup
	for _, date := range dates {
		wg.Add(1)
		go func(date string) {
			defer wg.Done()
			d.Dispatch(context.Background(), testutil.UserEventEnvelope(userID, models.ActionWateredSkill, date))
		}(date)
	}
	wg.Wait()

	var rowCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM user_attributes WHERE user_id = ?", userID).Scan(&rowCount); err != nil {
		t.Fatalf("Failed to count records: %v", err)
	}
	if rowCount != 1 {
		t.Fatalf("Expected 1 record, got %d", rowCount)
	}

	attrs, err := backend.Load(context.Background(), userID)
	if err != nil {
		t.Fatalf("Failed to load record: %v", err)
	}

	found := false
	for _, date := range dates {
		if attrs.LastWateredDate == date {
			found = true
		}
	}
	if !found {
		t.Errorf("Stored date %q is not one of the written dates", attrs.LastWateredDate)
	}
}

// TestParallelWidgetLifecycles verifies that install and remove flows for
// different users don't interfere
func TestParallelWidgetLifecycles(t *testing.T) {
	t.Parallel()

	db := testutil.SetupTestDB(t)
	backend := store.NewSQLStore(db, "sqlite")
	d := NewDispatcher(skill.Deps{Attributes: backend, Sync: newFakeSyncer()})
	ctx := context.Background()

	numUsers := 5
	userIDs := make([]string, numUsers)
	for i := range numUsers {
		userIDs[i] = testutil.NewUserID()
	}

	var wg sync.WaitGroup
	for _, userID := range userIDs {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()

			d.Dispatch(ctx, testutil.UsageEnvelope(models.RequestTypeUsagesInstalled, userID, "kitchen"))
			d.Dispatch(ctx, testutil.UsageEnvelope(models.RequestTypeUsagesInstalled, userID, "bedroom"))
			d.Dispatch(ctx, testutil.UserEventEnvelope(userID, models.ActionWateredWidget, "2024-05-02"))
			d.Dispatch(ctx, testutil.UsageEnvelope(models.RequestTypeUsagesRemoved, userID, "kitchen"))
		}(userID)
	}
	wg.Wait()

	for _, userID := range userIDs {
		attrs, err := backend.Load(ctx, userID)
		if err != nil {
			t.Fatalf("Failed to load %s: %v", userID, err)
		}
		if attrs.LastWateredDate != "2024-05-02" {
			t.Errorf("User %s: expected date 2024-05-02, got %q", userID, attrs.LastWateredDate)
		}
		if len(attrs.InstalledInstanceIDs) != 1 || attrs.InstalledInstanceIDs[0] != "bedroom" {
			t.Errorf("User %s: expected [bedroom], got %v", userID, attrs.InstalledInstanceIDs)
		}
	}
}
