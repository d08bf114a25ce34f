package model

// ========== Session DTOs ==========

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=2,max=100"`
	DeviceID string `json:"device_id" binding:"omitempty,max=128"`
}

type TransferRequest struct {
	NewDeviceID  string `json:"new_device_id" binding:"required,max=128"`
	DeleteSource bool   `json:"delete_source"`
}

// SessionResponse is the session snapshot exposed to the UI
type SessionResponse struct {
	State   string        `json:"state"` // loading | authenticated | unauthenticated
	Offline bool          `json:"offline,omitempty"` // record served from the local cache
	User    *LedgerRecord `json:"user,omitempty"`
	Notice  string        `json:"notice,omitempty"`
}

// ========== Ledger DTOs ==========

type UpdateUsernameRequest struct {
	Username string `json:"username" binding:"required,min=2,max=100"`
}

type SpendRequest struct {
	Amount int `json:"amount" binding:"required,gt=0"`
}

type WatchAdRequest struct {
	Kind      AdKind `json:"kind" binding:"required"`
	Completed bool   `json:"completed"` // result of the client-side playAd call
}

type WatchAdResponse struct {
	Granted    bool `json:"granted"`
	NewBalance int  `json:"new_balance"`
	Remaining  int  `json:"remaining"`
}

// LedgerResponse is the record plus the remaining daily ad allowance
// computed for the current date
type LedgerResponse struct {
	User                  *LedgerRecord `json:"user"`
	RemainingRewarded     int           `json:"remaining_rewarded"`
	RemainingInterstitial int           `json:"remaining_interstitial"`
}

// ========== Speech DTOs ==========

type GenerateRequest struct {
	Text  string `json:"text" binding:"required,min=1,max=2000"`
	Voice string `json:"voice" binding:"required"`
}

type GenerateResponse struct {
	Entry    GenerationEntry `json:"entry"`
	Credits  int             `json:"credits"`
	Charged  int             `json:"charged"`
	AudioB64 string          `json:"audio_b64"`
	AudioURL string          `json:"audio_url,omitempty"`
}

// ========== Common ==========

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
