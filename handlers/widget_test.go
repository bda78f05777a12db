// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/plant-care/auth"
	"github.com/danielhkuo/plant-care/datastore"
	"github.com/danielhkuo/plant-care/models"
	"github.com/danielhkuo/plant-care/skill"
	"github.com/danielhkuo/plant-care/store"
	"github.com/danielhkuo/plant-care/testutil"
)

type syncCall struct {
	UserID string
	Date   string
}

type fakeSyncer struct {
	mu     sync.Mutex
	calls  []syncCall
	result datastore.Result
}

func newFakeSyncer() *fakeSyncer {
	return &fakeSyncer{result: datastore.Result{Delivered: true, StatusCode: 200}}
}

func (f *fakeSyncer) SyncLastWatered(_ context.Context, userID, date string) datastore.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, syncCall{UserID: userID, Date: date})
	return f.result
}

func (f *fakeSyncer) Calls() []syncCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]syncCall(nil), f.calls...)
}

type fixture struct {
	backend    *store.Memory
	syncer     *fakeSyncer
	dispatcher *skill.Dispatcher
}

var fixedNow = time.Date(2024, 5, 4, 12, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{backend: store.NewMemory(), syncer: newFakeSyncer()}
	f.dispatcher = NewDispatcher(skill.Deps{
		Attributes: f.backend,
		Sync:       f.syncer,
		Now:        func() time.Time { return fixedNow },
	})
	return f
}

func (f *fixture) dispatch(env *models.RequestEnvelope) *models.ResponseEnvelope {
	return f.dispatcher.Dispatch(context.Background(), env)
}

func (f *fixture) record(userID string) models.Attributes {
	return f.backend.Snapshot()[userID]
}

func speechOf(resp *models.ResponseEnvelope) string {
	if resp == nil || resp.Response.OutputSpeech == nil {
		return ""
	}
	return resp.Response.OutputSpeech.SSML
}

func TestInstallWidget_FirstInstall(t *testing.T) {
	f := newFixture(t)

	resp := f.dispatch(testutil.UsageEnvelope(models.RequestTypeUsagesInstalled, "U1", "I1"))

	require.NotNil(t, resp)
	assert.Empty(t, speechOf(resp), "install acknowledges without speech")
	assert.Equal(t, models.Attributes{LastWateredDate: "", InstalledInstanceIDs: []string{"I1"}}, f.record("U1"))
	assert.Equal(t, []syncCall{{UserID: "U1", Date: ""}}, f.syncer.Calls())
}

func TestInstallWidget_DuplicateStillResyncs(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.backend.Put(context.Background(), "U1",
		models.Attributes{LastWateredDate: "2024-05-01", InstalledInstanceIDs: []string{"I1"}}))
	putsBefore := f.backend.Puts()

	f.dispatch(testutil.UsageEnvelope(models.RequestTypeUsagesInstalled, "U1", "I1"))

	assert.Equal(t, []string{"I1"}, f.record("U1").InstalledInstanceIDs)
	assert.Equal(t, putsBefore, f.backend.Puts(), "a known instance must not be written again")
	assert.Equal(t, []syncCall{{UserID: "U1", Date: "2024-05-01"}}, f.syncer.Calls())
}

func TestInstallWidget_TwiceKeepsOneOccurrence(t *testing.T) {
	f := newFixture(t)

	f.dispatch(testutil.UsageEnvelope(models.RequestTypeUsagesInstalled, "U1", "I1"))
	f.dispatch(testutil.UsageEnvelope(models.RequestTypeUsagesInstalled, "U1", "I1"))
	f.dispatch(testutil.UsageEnvelope(models.RequestTypeUsagesInstalled, "U1", "I2"))

	assert.Equal(t, []string{"I1", "I2"}, f.record("U1").InstalledInstanceIDs)
	assert.Len(t, f.syncer.Calls(), 3)
}

func TestInstallWidget_SyncFailureDoesNotChangeResponse(t *testing.T) {
	f := newFixture(t)
	f.syncer.result = datastore.Result{Err: datastore.ErrPushRejected, StatusCode: 500}

	resp := f.dispatch(testutil.UsageEnvelope(models.RequestTypeUsagesInstalled, "U1", "I1"))

	assert.Empty(t, speechOf(resp))
	assert.Equal(t, []string{"I1"}, f.record("U1").InstalledInstanceIDs)
}

func TestInstallWidget_TokenFetchFails(t *testing.T) {
	ts := testutil.NewTokenServer(t)
	ts.SetFail(true)
	ds := testutil.NewDataStoreServer(t)

	backend := store.NewMemory()
	syncer := datastore.NewSyncer(
		auth.NewTokenClient("id", "secret", ts.TokenURL(), time.Second, nil),
		datastore.NewClient(ds.URL, nil),
		"plantCareReminder", "plantData",
	)
	d := NewDispatcher(skill.Deps{Attributes: backend, Sync: syncer})

	var resp *models.ResponseEnvelope
	require.NotPanics(t, func() {
		resp = d.Dispatch(context.Background(), testutil.UsageEnvelope(models.RequestTypeUsagesInstalled, "U1", "I1"))
	})

	assert.Empty(t, speechOf(resp), "normal acknowledgment, not the apology")
	assert.Empty(t, ds.Calls(), "push is skipped without a token")
	assert.Equal(t, []string{"I1"}, backend.Snapshot()["U1"].InstalledInstanceIDs)
}

func TestInstallWidget_MissingUsages(t *testing.T) {
	f := newFixture(t)
	env := testutil.NewEnvelope(models.RequestTypeUsagesInstalled, "U1")

	resp := f.dispatch(env)

	assert.Equal(t, "<speak>"+errorSpeech+"</speak>", speechOf(resp))
	assert.Empty(t, f.syncer.Calls())
}

func TestRemoveWidget(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.backend.Put(context.Background(), "U1",
		models.Attributes{LastWateredDate: "2024-05-01", InstalledInstanceIDs: []string{"I1", "I2"}}))

	resp := f.dispatch(testutil.UsageEnvelope(models.RequestTypeUsagesRemoved, "U1", "I1"))

	assert.Empty(t, speechOf(resp))
	assert.Equal(t, models.Attributes{LastWateredDate: "2024-05-01", InstalledInstanceIDs: []string{"I2"}}, f.record("U1"))
	assert.Empty(t, f.syncer.Calls(), "removal does not push")
}

func TestRemoveWidget_UnknownInstanceIsNoop(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.backend.Put(context.Background(), "U1", models.Attributes{InstalledInstanceIDs: []string{"I1"}}))
	putsBefore := f.backend.Puts()

	resp := f.dispatch(testutil.UsageEnvelope(models.RequestTypeUsagesRemoved, "U1", "I9"))

	assert.Empty(t, speechOf(resp))
	assert.Equal(t, []string{"I1"}, f.record("U1").InstalledInstanceIDs)
	assert.Equal(t, putsBefore, f.backend.Puts())
}

func TestRemoveWidget_NoRecord(t *testing.T) {
	f := newFixture(t)

	resp := f.dispatch(testutil.UsageEnvelope(models.RequestTypeUsagesRemoved, "U1", "I1"))

	assert.Empty(t, speechOf(resp))
	assert.Equal(t, 0, f.backend.Puts())
}

func TestUpdateWidget(t *testing.T) {
	f := newFixture(t)
	env := testutil.NewEnvelope(models.RequestTypeUpdateRequest, "U1")
	env.Request.FromVersion = "1.0"
	env.Request.ToVersion = "1.1"

	resp := f.dispatch(env)

	assert.Empty(t, speechOf(resp))
	assert.Equal(t, 0, f.backend.Puts())
	assert.Empty(t, f.syncer.Calls())
}

func TestWidgetInstallationError(t *testing.T) {
	f := newFixture(t)
	env := testutil.NewEnvelope(models.RequestTypeInstallationError, "U1")
	env.Request.Error = &models.RequestError{Type: "INTERNAL_ERROR"}

	resp := f.dispatch(env)

	assert.Equal(t, "<speak>"+installErrorSpeech+"</speak>", speechOf(resp))
	assert.Equal(t, 0, f.backend.Puts())
}
