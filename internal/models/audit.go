package models

type AuditEventType string

const (
	EventRoundStart  AuditEventType = "round_start"
	EventGuess       AuditEventType = "guess"
	EventHint        AuditEventType = "hint"
	EventPriceChange AuditEventType = "price_change"
	EventWinner      AuditEventType = "winner"
	EventRootAnchor  AuditEventType = "root_anchor"
)

// AuditEntry is one link of a round's hash chain. Hash is recomputable from
// the other fields; PrevHash of entry i equals Hash of entry i-1, with
// ZeroHash as the genesis sentinel.
type AuditEntry struct {
	Index     uint64         `json:"index"`
	Type      AuditEventType `json:"type"`
	RoundID   string         `json:"round_id"`
	Payload   string         `json:"payload"`
	Timestamp int64          `json:"timestamp"`
	PrevHash  Hash32         `json:"prev_hash"`
	Hash      Hash32         `json:"hash"`
}

// Closed set of audit payload shapes. Each is serialized to JSON text before
// hashing; the text itself is what the chain commits to, so field order and
// naming here are part of the external verification contract.

type RoundStartPayload struct {
	Commitment Hash32 `json:"commitment"`
	BaseBuyIn  string `json:"base_buy_in"`
}

type GuessPayload struct {
	Player    Address `json:"player"`
	Guess     string  `json:"guess"`
	BuyInPaid string  `json:"buy_in_paid"`
}

type HintPayload struct {
	Player          Address `json:"player"`
	DigitsInPlace   int     `json:"digits_in_place"`
	DigitsCorrect   int     `json:"digits_correct"`
	NumericDistance uint64  `json:"numeric_distance"`
	PriceTier       Tier    `json:"price_tier"`
}

type PriceChangePayload struct {
	OldTier  Tier   `json:"old_tier"`
	NewTier  Tier   `json:"new_tier"`
	NewBuyIn string `json:"new_buy_in"`
	Distance uint64 `json:"distance"`
	GuessIdx int    `json:"guess_index"`
}

type WinnerPayload struct {
	Winner Address `json:"winner"`
	Pool   string  `json:"pool"`
}

type RootAnchorPayload struct {
	MerkleRoot Hash32 `json:"merkle_root"`
	EntryCount uint64 `json:"entry_count"`
	Nonce      uint64 `json:"nonce"`
}
