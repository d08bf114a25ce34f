package service

import (
	"context"
	"errors"
	"log"

	"github.com/voicegenapp/api-voicegen/internal/device"
	"github.com/voicegenapp/api-voicegen/internal/model"
)

// AuthState is the session-level view of the ledger state machine.
type AuthState string

const (
	StateLoadingAuth     AuthState = "loading"
	StateAuthenticated   AuthState = "authenticated"
	StateUnauthenticated AuthState = "unauthenticated"
)

// SessionController orchestrates login, logout, account deletion and
// identity transfer on top of LedgerService and the device identity.
// It is the single owner of session state: consumers read snapshots
// and mutate only through its methods.
type SessionController struct {
	ledger   *LedgerService
	identity *device.Identity
}

func NewSessionController(ledger *LedgerService, identity *device.Identity) *SessionController {
	return &SessionController{ledger: ledger, identity: identity}
}

// Snapshot returns the current session view without touching storage.
func (c *SessionController) Snapshot() model.SessionResponse {
	rec, offline, ok := c.ledger.Current()
	if !ok {
		return model.SessionResponse{State: string(StateUnauthenticated)}
	}
	return model.SessionResponse{
		State:   string(StateAuthenticated),
		Offline: offline,
		User:    rec,
	}
}

// Start loads the session on mount: LoadingAuth, then Authenticated or
// Unauthenticated. An anonymous result is not an error.
func (c *SessionController) Start(ctx context.Context) model.SessionResponse {
	rec, offline, err := c.load(ctx)
	if err != nil {
		if errors.Is(err, ErrNoAccount) {
			return model.SessionResponse{State: string(StateUnauthenticated)}
		}
		log.Printf("⚠️  Failed to load session: %v", err)
		return model.SessionResponse{
			State:  string(StateUnauthenticated),
			Notice: "Failed to load user data.",
		}
	}
	if c.identity != nil && !c.identity.IsRegistered() {
		c.identity.MarkRegistered()
	}
	return model.SessionResponse{
		State:   string(StateAuthenticated),
		Offline: offline,
		User:    rec,
	}
}

// Refresh re-reads the record, keeping the session authenticated if a
// record is still available.
func (c *SessionController) Refresh(ctx context.Context) model.SessionResponse {
	return c.Start(ctx)
}

// Register creates the account and authenticates the session.
func (c *SessionController) Register(ctx context.Context, req model.RegisterRequest) (model.SessionResponse, error) {
	rec, err := c.ledger.Register(ctx, req.Username, req.DeviceID)
	if err != nil {
		return model.SessionResponse{
			State:  string(StateUnauthenticated),
			Notice: registerNotice(err),
		}, err
	}
	return model.SessionResponse{
		State:  string(StateAuthenticated),
		User:   rec,
		Notice: "Your account has been created successfully.",
	}, nil
}

// Logout detaches this device from the account. The remote record is
// untouched; only local session state and the registered flag change.
func (c *SessionController) Logout(ctx context.Context) model.SessionResponse {
	c.identity.MarkUnregistered()
	c.ledger.Reset()
	return model.SessionResponse{
		State:  string(StateUnauthenticated),
		Notice: "You have been logged out successfully.",
	}
}

// DeleteAccount removes the account everywhere and ends the session.
func (c *SessionController) DeleteAccount(ctx context.Context) (model.SessionResponse, error) {
	if err := c.ledger.DeleteAccount(ctx); err != nil {
		snap := c.Snapshot()
		snap.Notice = "Failed to delete account."
		return snap, err
	}
	return model.SessionResponse{
		State:  string(StateUnauthenticated),
		Notice: "Your account has been deleted successfully.",
	}, nil
}

// Transfer moves the account to a new device id.
func (c *SessionController) Transfer(ctx context.Context, req model.TransferRequest) (model.SessionResponse, error) {
	rec, err := c.ledger.TransferIdentity(ctx, req.NewDeviceID, req.DeleteSource)
	if err != nil {
		snap := c.Snapshot()
		snap.Notice = transferNotice(err)
		return snap, err
	}
	return model.SessionResponse{
		State:  string(StateAuthenticated),
		User:   rec,
		Notice: "Your account has been moved to the new device id.",
	}, nil
}

// load wraps Initialize and guarantees a settled (non-loading) state
// on every exit path, including panics in the storage layers.
func (c *SessionController) load(ctx context.Context) (rec *model.LedgerRecord, offline bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("⚠️  Session load panicked: %v", r)
			rec, offline, err = nil, false, ErrNoAccount
		}
	}()

	rec, err = c.ledger.Initialize(ctx)
	if err != nil {
		return nil, false, err
	}
	_, offline, _ = c.ledger.Current()
	return rec, offline, nil
}

func registerNotice(err error) string {
	if errors.Is(err, ErrRemoteRequired) {
		return "Registration needs a connection. Please try again when you are online."
	}
	return "Failed to create user account."
}

func transferNotice(err error) string {
	switch {
	case errors.Is(err, ErrIdentityConflict):
		return "That device id already has an account."
	case errors.Is(err, ErrNoAccount):
		return "No account to transfer."
	default:
		return "Failed to transfer the account."
	}
}
