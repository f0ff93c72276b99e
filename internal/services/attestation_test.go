package services_test

import (
	"crypto/ed25519"
	"encoding/hex"
	"math/big"
	"sort"
	"sync"
	"testing"

	"github.com/owizdom/eigen-hotcold-lotto/internal/models"
	"github.com/owizdom/eigen-hotcold-lotto/internal/services"
)

const testSeed = "4d6f7468657220736869702069732061206c6f6e6720776179206177617921aa"

func newAttestor(t *testing.T) *services.AttestationService {
	t.Helper()
	signer, err := services.NewEnclaveSigner(testSeed)
	if err != nil {
		t.Fatalf("failed to build signer: %v", err)
	}
	attestor, err := services.NewAttestationService(signer, services.NewNonceCounter())
	if err != nil {
		t.Fatalf("failed to build attestation service: %v", err)
	}
	return attestor
}

func TestAttestationRequiresSigner(t *testing.T) {
	_, err := services.NewAttestationService(nil, services.NewNonceCounter())
	if err != models.ErrSignerUnavailable {
		t.Errorf("err = %v, want ErrSignerUnavailable", err)
	}
}

func TestSignerIdentityIsStable(t *testing.T) {
	a1 := newAttestor(t)
	a2 := newAttestor(t)

	if a1.Identity().Address != a2.Identity().Address {
		t.Error("same seed must derive the same address")
	}
	if a1.Identity().Mode != services.SignerModeConfigured {
		t.Errorf("mode = %s, want configured", a1.Identity().Mode)
	}
	if a1.Identity().SessionID == a2.Identity().SessionID {
		t.Error("each service instance must get its own session id")
	}

	ephemeral, err := services.NewEnclaveSigner("")
	if err != nil {
		t.Fatal(err)
	}
	if ephemeral.Mode() != services.SignerModeEphemeral {
		t.Errorf("mode = %s, want ephemeral", ephemeral.Mode())
	}
}

func TestSignedMessagesVerify(t *testing.T) {
	attestor := newAttestor(t)

	pub, err := hex.DecodeString(attestor.Identity().PublicKey)
	if err != nil {
		t.Fatalf("identity public key is not hex: %v", err)
	}

	var commitment models.Hash32
	commitment[0] = 0xab
	var player models.Address
	player[19] = 0x01

	base := big.NewInt(1_000_000)

	start, err := attestor.AttestRoundStart("round-1", commitment, base)
	if err != nil {
		t.Fatal(err)
	}
	msg := services.EncodeRoundStart(start.RoundID, start.Commitment, start.BaseBuyIn, start.Nonce)
	if !ed25519.Verify(pub, msg, start.Signature) {
		t.Error("round start signature does not verify over the recomputed encoding")
	}

	hint := models.Hint{DigitsInPlace: 3, DigitsCorrect: 2, NumericDistance: 456789012}
	signedHint, err := attestor.AttestHint("round-1", player, hint)
	if err != nil {
		t.Fatal(err)
	}
	msg = services.EncodeHint(signedHint.RoundID, signedHint.Player,
		signedHint.DigitsCorrect, signedHint.DigitsInPlace, signedHint.NumericDistance, signedHint.Nonce)
	if !ed25519.Verify(pub, msg, signedHint.Signature) {
		t.Error("hint signature does not verify over the recomputed encoding")
	}

	price, err := attestor.AttestPriceUpdate("round-1", big.NewInt(5_000_000))
	if err != nil {
		t.Fatal(err)
	}
	msg = services.EncodePriceUpdate(price.RoundID, price.NewBuyIn, price.Nonce)
	if !ed25519.Verify(pub, msg, price.Signature) {
		t.Error("price update signature does not verify")
	}

	winner, err := attestor.AttestWinner("round-1", player)
	if err != nil {
		t.Fatal(err)
	}
	msg = services.EncodeWinner(winner.RoundID, winner.Winner, winner.Nonce)
	if !ed25519.Verify(pub, msg, winner.Signature) {
		t.Error("winner signature does not verify")
	}

	anchor, err := attestor.AttestRootAnchor("round-1", commitment, 9)
	if err != nil {
		t.Fatal(err)
	}
	msg = services.EncodeRootAnchor(anchor.RoundID, anchor.MerkleRoot, anchor.EntryCount, anchor.Nonce)
	if !ed25519.Verify(pub, msg, anchor.Signature) {
		t.Error("root anchor signature does not verify")
	}
}

func TestNoncesStrictlyIncrease(t *testing.T) {
	attestor := newAttestor(t)

	var last uint64
	for i := 0; i < 10; i++ {
		signed, err := attestor.AttestPriceUpdate("r", big.NewInt(1))
		if err != nil {
			t.Fatal(err)
		}
		if signed.Nonce <= last {
			t.Fatalf("nonce %d after %d is not strictly increasing", signed.Nonce, last)
		}
		last = signed.Nonce
	}
}

func TestNoncesAreGapFreeUnderConcurrency(t *testing.T) {
	attestor := newAttestor(t)

	const workers = 8
	const perWorker = 50

	var mu sync.Mutex
	var nonces []uint64
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				signed, err := attestor.AttestWinner("r", models.Address{})
				if err != nil {
					t.Error(err)
					return
				}
				mu.Lock()
				nonces = append(nonces, signed.Nonce)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	sort.Slice(nonces, func(i, j int) bool { return nonces[i] < nonces[j] })
	for i, n := range nonces {
		if n != uint64(i+1) {
			t.Fatalf("nonce sequence has a gap or repeat at position %d: got %d", i, n)
		}
	}
}

func TestEncodingsDifferAcrossKinds(t *testing.T) {
	// A signature over one kind must never be valid for another, so the
	// encodings of kinds with identical field values must differ.
	var root models.Hash32
	a := services.EncodeRoundStart("r", root, big.NewInt(5), 1)
	b := services.EncodeRootAnchor("r", root, 5, 1)
	if string(a) == string(b) {
		t.Error("round start and root anchor encodings collide")
	}
}
