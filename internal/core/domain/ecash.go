package domain

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// cashuPrefix is the serialization prefix of a V3 Cashu token.
const cashuPrefix = "cashuA"

// CashuProof is one bearer ecash proof issued by a mint. Possession of
// the secret/C pair is ownership; a proof is either held or spent with
// no partial state.
type CashuProof struct {
	KeysetID string `json:"id"`
	Amount   int64  `json:"amount"`
	Secret   string `json:"secret"`
	C        string `json:"C"`
}

// TokenEntry groups proofs under the mint that issued them.
type TokenEntry struct {
	Mint   string       `json:"mint"`
	Proofs []CashuProof `json:"proofs"`
}

// EcashToken is the serialized form handed between wallets.
type EcashToken struct {
	Token []TokenEntry `json:"token"`
	Memo  string       `json:"memo,omitempty"`
}

// TotalAmount sums every embedded proof amount.
func (t EcashToken) TotalAmount() int64 {
	var total int64
	for _, entry := range t.Token {
		for _, p := range entry.Proofs {
			total += p.Amount
		}
	}
	return total
}

// Secrets returns every embedded proof secret, in token order.
func (t EcashToken) Secrets() []string {
	var secrets []string
	for _, entry := range t.Token {
		for _, p := range entry.Proofs {
			secrets = append(secrets, p.Secret)
		}
	}
	return secrets
}

// EncodeToken serializes a token to its cashuA transport form.
func EncodeToken(t EcashToken) (string, error) {
	raw, err := json.Marshal(t)
	if err != nil {
		return "", err
	}
	return cashuPrefix + base64.RawURLEncoding.EncodeToString(raw), nil
}

// DecodeToken parses a cashuA token string. It validates structure
// only; spendability is the mint's call.
func DecodeToken(s string) (EcashToken, error) {
	var t EcashToken
	if !strings.HasPrefix(s, cashuPrefix) {
		return t, errors.New("missing cashuA prefix")
	}
	payload := strings.TrimRight(strings.TrimPrefix(s, cashuPrefix), "=")
	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		// Some wallets emit standard base64.
		raw, err = base64.RawStdEncoding.DecodeString(payload)
		if err != nil {
			return t, errors.New("invalid base64 payload")
		}
	}
	if err := json.Unmarshal(raw, &t); err != nil {
		return t, errors.New("invalid token JSON")
	}
	if len(t.Token) == 0 {
		return t, errors.New("token carries no entries")
	}
	for _, entry := range t.Token {
		if entry.Mint == "" {
			return t, errors.New("token entry missing mint URL")
		}
		if len(entry.Proofs) == 0 {
			return t, errors.New("token entry carries no proofs")
		}
		for _, p := range entry.Proofs {
			if p.Amount <= 0 || p.Secret == "" {
				return t, errors.New("malformed proof in token")
			}
		}
	}
	return t, nil
}

// TokenDigest is the dedup key for a received token: same bytes in,
// same digest out, so a re-submitted token is recognized before the
// mint is involved.
func TokenDigest(serialized string) string {
	sum := sha256.Sum256([]byte(serialized))
	return hex.EncodeToString(sum[:])
}

// PendingTokenStatus is the lifecycle of a sent-but-unconfirmed token.
// claimed and reclaimed are mutually exclusive terminal states; the
// first writer wins.
type PendingTokenStatus string

const (
	PendingTokenStatusPending   PendingTokenStatus = "pending"
	PendingTokenStatusClaimed   PendingTokenStatus = "claimed"
	PendingTokenStatusReclaimed PendingTokenStatus = "reclaimed"
)

// PendingToken is the crash-recovery anchor for sent bearer value. The
// row is written durably before the token is handed to the recipient
// channel; losing it means permanently losing the value it represents.
type PendingToken struct {
	ID        uuid.UUID          `json:"id"`
	Token     string             `json:"token"` // serialized bearer proof set
	Amount    int64              `json:"amount"`
	MintURL   string             `json:"mint_url"`
	Status    PendingTokenStatus `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// EligibleForReclaim reports whether the token is old enough to
// self-reclaim without racing a recipient mid-claim.
func (p *PendingToken) EligibleForReclaim(now time.Time, graceWindow time.Duration) bool {
	return p.Status == PendingTokenStatusPending && now.Sub(p.CreatedAt) > graceWindow
}
