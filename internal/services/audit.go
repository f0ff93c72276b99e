package services

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/owizdom/eigen-hotcold-lotto/internal/models"
)

// AuditLedger keeps one append-only hash chain per round plus a lazily
// recomputed merkle root over the entry hashes. Appends for a round only
// happen inside that round's critical section; the ledger's own lock exists
// so status and verification reads can run concurrently with other rounds.
type AuditLedger struct {
	mu     sync.RWMutex
	trails map[string]*auditTrail
}

type auditTrail struct {
	entries   []models.AuditEntry
	root      models.Hash32
	rootStale bool
}

func NewAuditLedger() *AuditLedger {
	return &AuditLedger{
		trails: make(map[string]*auditTrail),
	}
}

// Append serializes the payload to canonical JSON text, links the entry to
// the previous hash, and marks the cached merkle root stale.
func (l *AuditLedger) Append(roundID string, typ models.AuditEventType, payload any) (models.AuditEntry, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return models.AuditEntry{}, fmt.Errorf("failed to serialize audit payload: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	trail, ok := l.trails[roundID]
	if !ok {
		trail = &auditTrail{}
		l.trails[roundID] = trail
	}

	prev := models.ZeroHash
	if n := len(trail.entries); n > 0 {
		prev = trail.entries[n-1].Hash
	}

	entry := models.AuditEntry{
		Index:     uint64(len(trail.entries)),
		Type:      typ,
		RoundID:   roundID,
		Payload:   string(raw),
		Timestamp: time.Now().UnixMilli(),
		PrevHash:  prev,
	}
	entry.Hash = entryHash(entry)

	trail.entries = append(trail.entries, entry)
	trail.rootStale = true
	return entry, nil
}

// entryHash commits to every field of the entry except Hash itself:
//
//	sha256(index u64be || len(type) u16be || type || len(roundId) u16be ||
//	       roundId || len(payload) u32be || payload || timestamp u64be ||
//	       prevHash)
//
// Length prefixes keep the text fields unambiguous for external auditors.
func entryHash(e models.AuditEntry) models.Hash32 {
	h := sha256.New()
	writeUint64(h, e.Index)
	writeText16(h, string(e.Type))
	writeText16(h, e.RoundID)

	var plen [4]byte
	binary.BigEndian.PutUint32(plen[:], uint32(len(e.Payload)))
	h.Write(plen[:])
	h.Write([]byte(e.Payload))

	writeUint64(h, uint64(e.Timestamp))
	h.Write(e.PrevHash[:])

	var out models.Hash32
	copy(out[:], h.Sum(nil))
	return out
}

// Entries returns a copy of the round's trail in append order.
func (l *AuditLedger) Entries(roundID string) []models.AuditEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	trail, ok := l.trails[roundID]
	if !ok {
		return nil
	}
	out := make([]models.AuditEntry, len(trail.entries))
	copy(out, trail.entries)
	return out
}

func (l *AuditLedger) EntryCount(roundID string) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	trail, ok := l.trails[roundID]
	if !ok {
		return 0
	}
	return uint64(len(trail.entries))
}

// MerkleRoot reduces the ordered entry hashes pairwise with sha256, padding
// with the zero sentinel up to the next power of two. The result is cached
// until the next append. An empty trail has the zero root.
func (l *AuditLedger) MerkleRoot(roundID string) models.Hash32 {
	l.mu.Lock()
	defer l.mu.Unlock()

	trail, ok := l.trails[roundID]
	if !ok || len(trail.entries) == 0 {
		return models.ZeroHash
	}
	if !trail.rootStale {
		return trail.root
	}

	leaves := make([]models.Hash32, len(trail.entries))
	for i, e := range trail.entries {
		leaves[i] = e.Hash
	}

	trail.root = merkleReduce(leaves)
	trail.rootStale = false
	return trail.root
}

func merkleReduce(leaves []models.Hash32) models.Hash32 {
	width := 1
	for width < len(leaves) {
		width *= 2
	}
	level := make([]models.Hash32, width)
	copy(level, leaves) // tail stays ZeroHash padding

	for len(level) > 1 {
		next := make([]models.Hash32, len(level)/2)
		for i := range next {
			h := sha256.New()
			h.Write(level[2*i][:])
			h.Write(level[2*i+1][:])
			copy(next[i][:], h.Sum(nil))
		}
		level = next
	}
	return level[0]
}

// VerifyChain recomputes every entry hash and checks the prev-hash linkage.
// Read-only: a broken chain is reported, never repaired. An empty or unknown
// trail is vacuously consistent.
func (l *AuditLedger) VerifyChain(roundID string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	trail, ok := l.trails[roundID]
	if !ok {
		return true
	}

	prev := models.ZeroHash
	for i, e := range trail.entries {
		if e.Index != uint64(i) {
			return false
		}
		if e.PrevHash != prev {
			return false
		}
		if entryHash(e) != e.Hash {
			return false
		}
		prev = e.Hash
	}
	return true
}
