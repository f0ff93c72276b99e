package models

type StartRoundRequest struct {
	BaseBuyIn string `json:"base_buy_in" binding:"required"`
}

type GuessRequest struct {
	Player    string `json:"player" binding:"required"`
	Guess     string `json:"guess" binding:"required"`
	BuyInPaid string `json:"buy_in_paid" binding:"required"`
}

type OperatorTokenRequest struct {
	Key string `json:"key" binding:"required"`
}

type AuditTrailResponse struct {
	RoundID    string       `json:"round_id"`
	Entries    []AuditEntry `json:"entries"`
	MerkleRoot Hash32       `json:"merkle_root"`
}

type ChainVerification struct {
	RoundID    string `json:"round_id"`
	Valid      bool   `json:"valid"`
	EntryCount uint64 `json:"entry_count"`
	MerkleRoot Hash32 `json:"merkle_root"`
}
