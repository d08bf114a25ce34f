package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voicegenapp/api-voicegen/internal/device"
	"github.com/voicegenapp/api-voicegen/internal/model"
	"github.com/voicegenapp/api-voicegen/internal/testutil"
)

func newTestSession() (*SessionController, *testutil.FakeRemote, *testutil.FakeKV) {
	kv := testutil.NewFakeKV()
	kv.Data["device_id"] = testDeviceID
	identity := device.New(kv)
	remote := testutil.NewFakeRemote()
	ledger := NewLedgerService(identity, remote, testutil.NewFakeMirror())
	return NewSessionController(ledger, identity), remote, kv
}

func TestSessionStart_ExistingAccount(t *testing.T) {
	ctrl, remote, kv := newTestSession()
	remote.Records[testDeviceID] = model.NewLedgerRecord(testDeviceID, "alice")

	resp := ctrl.Start(context.Background())

	assert.Equal(t, string(StateAuthenticated), resp.State)
	assert.False(t, resp.Offline)
	require.NotNil(t, resp.User)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, "true", kv.Data["device_dev-1_registered"])
}

func TestSessionStart_AnonymousDevice(t *testing.T) {
	ctrl, _, _ := newTestSession()

	resp := ctrl.Start(context.Background())

	assert.Equal(t, string(StateUnauthenticated), resp.State)
	assert.Nil(t, resp.User)
	assert.Empty(t, resp.Notice)
}

func TestSessionStart_OfflineWithMirror(t *testing.T) {
	kv := testutil.NewFakeKV()
	kv.Data["device_id"] = testDeviceID
	identity := device.New(kv)
	remote := testutil.NewFakeRemote()
	mirror := testutil.NewFakeMirror()
	require.NoError(t, mirror.Store(model.NewLedgerRecord(testDeviceID, "alice")))
	remote.Offline = true

	ctrl := NewSessionController(NewLedgerService(identity, remote, mirror), identity)
	resp := ctrl.Start(context.Background())

	assert.Equal(t, string(StateAuthenticated), resp.State)
	assert.True(t, resp.Offline)
}

func TestSessionRegister_Success(t *testing.T) {
	ctrl, remote, _ := newTestSession()

	resp, err := ctrl.Register(context.Background(), model.RegisterRequest{Username: "alice"})
	require.NoError(t, err)

	assert.Equal(t, string(StateAuthenticated), resp.State)
	assert.Equal(t, model.InitialCredits, resp.User.Credits)
	assert.Contains(t, remote.Records, testDeviceID)
	assert.NotEmpty(t, resp.Notice)
}

func TestSessionRegister_Offline(t *testing.T) {
	ctrl, remote, _ := newTestSession()
	remote.Offline = true

	resp, err := ctrl.Register(context.Background(), model.RegisterRequest{Username: "alice"})
	assert.ErrorIs(t, err, ErrRemoteRequired)
	assert.Equal(t, string(StateUnauthenticated), resp.State)
	assert.Contains(t, resp.Notice, "online")
}

func TestSessionLogout_KeepsRemoteRecord(t *testing.T) {
	ctrl, remote, kv := newTestSession()
	_, err := ctrl.Register(context.Background(), model.RegisterRequest{Username: "alice"})
	require.NoError(t, err)

	resp := ctrl.Logout(context.Background())

	assert.Equal(t, string(StateUnauthenticated), resp.State)
	assert.Contains(t, remote.Records, testDeviceID, "logout must not delete the account")
	assert.NotContains(t, kv.Data, "device_dev-1_registered")

	// the account is still there on the next start
	resp = ctrl.Start(context.Background())
	assert.Equal(t, string(StateAuthenticated), resp.State)
}

func TestSessionDeleteAccount(t *testing.T) {
	ctrl, remote, _ := newTestSession()
	_, err := ctrl.Register(context.Background(), model.RegisterRequest{Username: "alice"})
	require.NoError(t, err)

	resp, err := ctrl.DeleteAccount(context.Background())
	require.NoError(t, err)

	assert.Equal(t, string(StateUnauthenticated), resp.State)
	assert.NotContains(t, remote.Records, testDeviceID)
}

func TestSessionDeleteAccount_OfflineKeepsSession(t *testing.T) {
	ctrl, remote, _ := newTestSession()
	_, err := ctrl.Register(context.Background(), model.RegisterRequest{Username: "alice"})
	require.NoError(t, err)
	remote.Offline = true

	resp, err := ctrl.DeleteAccount(context.Background())
	assert.Error(t, err)
	assert.Equal(t, string(StateAuthenticated), resp.State, "a failed delete must not end the session")
}

func TestSessionTransfer(t *testing.T) {
	ctrl, remote, _ := newTestSession()
	_, err := ctrl.Register(context.Background(), model.RegisterRequest{Username: "alice"})
	require.NoError(t, err)

	resp, err := ctrl.Transfer(context.Background(), model.TransferRequest{NewDeviceID: "dev-2", DeleteSource: true})
	require.NoError(t, err)

	assert.Equal(t, string(StateAuthenticated), resp.State)
	assert.Equal(t, "dev-2", resp.User.DeviceID)
	assert.NotContains(t, remote.Records, "dev-1")
}

func TestSessionTransfer_Conflict(t *testing.T) {
	ctrl, remote, _ := newTestSession()
	_, err := ctrl.Register(context.Background(), model.RegisterRequest{Username: "alice"})
	require.NoError(t, err)
	remote.Records["dev-2"] = model.NewLedgerRecord("dev-2", "mallory")

	resp, err := ctrl.Transfer(context.Background(), model.TransferRequest{NewDeviceID: "dev-2"})
	assert.ErrorIs(t, err, ErrIdentityConflict)
	assert.Equal(t, string(StateAuthenticated), resp.State)
	assert.Equal(t, "dev-1", resp.User.DeviceID)
}

func TestSessionSnapshot_Unauthenticated(t *testing.T) {
	ctrl, _, _ := newTestSession()

	resp := ctrl.Snapshot()
	assert.Equal(t, string(StateUnauthenticated), resp.State)
	assert.Nil(t, resp.User)
}
