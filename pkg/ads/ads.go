package ads

import "context"

// Kind identifies the ad format.
type Kind string

const (
	KindRewarded     Kind = "rewarded"
	KindInterstitial Kind = "interstitial"
)

// Player is the ad-display collaborator: it plays an ad and reports
// whether the user completed it. Completion alone never grants
// credits; the ledger still requires a confirmed remote write.
type Player interface {
	Play(ctx context.Context, kind Kind) (bool, error)
}

// Reported wraps an outcome already observed by the client-side ad
// SDK; the server only consumes the boolean.
type Reported struct {
	Completed bool
}

func (r Reported) Play(ctx context.Context, kind Kind) (bool, error) {
	return r.Completed, nil
}
