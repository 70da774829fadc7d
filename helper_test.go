package epoch

import (
	"bytes"
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/btcsuite/btcd/btcutil/base58"

	"github.com/0xBreath/epoch-app/api"
	"github.com/0xBreath/epoch-app/crypto"
)

const testApiKey = "test-api-key-123"

// mockGateway is an in-memory Epoch service: challenge/authenticate with
// real ed25519 verification, a single user record, and canned query data.
// calls counts requests per path.
type mockGateway struct {
	mu        sync.Mutex
	challenge string
	user      *crypto.PublicKey
	balance   api.VaultBalance
	calls     map[string]int
	failPath  string
}

func newMockGateway() *mockGateway {
	return &mockGateway{
		challenge: "abc123",
		balance:   api.VaultBalance{Amount: 10000, UiAmount: 100.0, Decimals: 2},
		calls:     make(map[string]int),
	}
}

func (g *mockGateway) callCount(path string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[path]
}

func (g *mockGateway) setUser(profile crypto.PublicKey) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.user = &profile
}

func (g *mockGateway) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		defer g.mu.Unlock()
		g.calls[r.URL.Path]++
		if g.failPath == r.URL.Path {
			http.Error(w, "injected failure", http.StatusInternalServerError)
			return
		}

		writeJSON := func(v any) {
			w.Header().Set("Content-Type", api.ContentType)
			_ = json.NewEncoder(w).Encode(v)
		}

		switch r.URL.Path {
		case "/challenge":
			writeJSON(g.challenge)
		case "/authenticate":
			var body api.AuthenticateSignature
			_ = json.NewDecoder(r.Body).Decode(&body)
			key, err := crypto.ParsePublicKey(body.Key)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			sig := base58.Decode(body.Signature)
			if !ed25519.Verify(key[:], []byte(g.challenge), sig) {
				writeJSON(nil)
				return
			}
			writeJSON(testApiKey)
		case "/airdrop":
			g.balance.Amount += 10000
			g.balance.UiAmount += 100.0
			writeJSON("airdropped")
		default:
			if r.Header.Get(api.ApiKeyHeader) != testApiKey {
				http.Error(w, "missing or invalid api key", http.StatusUnauthorized)
				return
			}
			g.handleAuthenticated(w, r, writeJSON)
		}
	}
}

func (g *mockGateway) handleAuthenticated(w http.ResponseWriter, r *http.Request, writeJSON func(any)) {
	switch r.URL.Path {
	case "/read-user":
		if g.user == nil {
			writeJSON(nil)
			return
		}
		writeJSON(g.user.String())
	case "/create-user", "/update-user":
		var body api.EpochProfile
		_ = json.NewDecoder(r.Body).Decode(&body)
		profile, err := crypto.ParsePublicKey(body.Profile)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		g.user = &profile
		writeJSON(profile.String())
	case "/delete-user":
		g.user = nil
		writeJSON("user deleted")
	case "/user-balance":
		writeJSON(g.balance)
	case "/account-id":
		writeJSON(api.EpochAccount{Id: 1, Key: crypto.PublicKey{}.String()})
	case "/accounts":
		writeJSON([]api.EpochAccount{{Id: 1}, {Id: 2}})
	case "/decoded-accounts":
		writeJSON([]api.JsonEpochAccount{{Decoded: map[string]any{"points": float64(7)}}})
	case "/registered-types":
		if r.Method == http.MethodPost {
			writeJSON([]api.RegisteredType{{ProgramName: "player_profile"}})
			return
		}
		writeJSON([]api.RegisteredType{{ProgramName: "player_profile"}, {ProgramName: "profile_vault"}})
	default:
		http.NotFound(w, r)
	}
}

// fakeLedger is an in-memory Connection.  Submitted transactions are decoded
// and create-profile instructions materialize real profile accounts, so the
// reconciliation flow can run end to end without a node.
type fakeLedger struct {
	mu          sync.Mutex
	accounts    map[crypto.PublicKey]*AccountData
	sends       int
	lastMessage []byte
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{accounts: make(map[crypto.PublicKey]*AccountData)}
}

func (l *fakeLedger) AccountInfo(key crypto.PublicKey) (*AccountData, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if account, ok := l.accounts[key]; ok {
		copied := *account
		return &copied, nil
	}
	return nil, nil
}

func (l *fakeLedger) ProgramAccounts(program crypto.PublicKey) ([]ProgramAccount, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []ProgramAccount
	for key, account := range l.accounts {
		if account.Owner == program {
			out = append(out, ProgramAccount{Key: key, Account: *account})
		}
	}
	return out, nil
}

func (l *fakeLedger) SendTransaction(txn *SignedTransaction) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sends++
	l.lastMessage = txn.Message
	decoded, err := decodeTransactionMessage(txn.Message)
	if err != nil {
		return "", err
	}
	for _, ix := range decoded.Instructions {
		if ix.ProgramID != PlayerProfileProgramID {
			continue
		}
		if !bytes.HasPrefix(ix.Data, InstructionDiscriminator("create_profile")) {
			continue
		}
		keyThreshold, keys, err := decodeCreateProfileData(ix.Data[8:])
		if err != nil {
			return "", err
		}
		profileId := ix.Accounts[0].Key
		l.accounts[profileId] = &AccountData{
			Lamports: 1,
			Owner:    PlayerProfileProgramID,
			Data:     encodeProfileAccountData(keyThreshold, keys),
		}
	}
	return fmt.Sprintf("sig-%d", l.sends), nil
}

func decodeCreateProfileData(data []byte) (uint8, []KeyEntry, error) {
	reader := bytes.NewReader(data)
	keyThreshold, err := reader.ReadByte()
	if err != nil {
		return 0, nil, err
	}
	count, err := readU16(reader)
	if err != nil {
		return 0, nil, err
	}
	var keys []KeyEntry
	for i := uint16(0); i < count; i++ {
		entry, err := readKeyEntry(reader)
		if err != nil {
			return 0, nil, err
		}
		keys = append(keys, entry)
	}
	return keyThreshold, keys, nil
}

func lastSentMessage(t *testing.T, l *fakeLedger) []byte {
	t.Helper()
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.lastMessage == nil {
		t.Fatal("no transaction sent")
	}
	return l.lastMessage
}

// seedProfile plants a ready-made profile for the wallet on the fake ledger.
func (l *fakeLedger) seedProfile(t *testing.T, auth crypto.PublicKey) crypto.PublicKey {
	t.Helper()
	profileId, err := crypto.NewAccount()
	if err != nil {
		t.Fatal(err)
	}
	keys := []KeyEntry{
		{Key: auth, Scope: PlayerProfileProgramID, Permissions: AllProfilePermissions()},
		{Key: auth, Scope: ProfileVaultProgramID, Permissions: AllVaultPermissions()},
		{Key: EpochProtocol, Scope: ProfileVaultProgramID, Permissions: DrainVaultPermissions()},
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts[profileId.Address] = &AccountData{
		Lamports: 1,
		Owner:    PlayerProfileProgramID,
		Data:     encodeProfileAccountData(1, keys),
	}
	return profileId.Address
}

func newTestClient(t *testing.T, options ...any) (*Client, *mockGateway, *fakeLedger) {
	t.Helper()
	gateway := newMockGateway()
	server := httptest.NewServer(gateway.handler())
	t.Cleanup(server.Close)

	ledger := newFakeLedger()
	opts := append([]any{Connection(ledger)}, options...)
	client, err := NewClient(NetworkConfig{Name: "test", EpochUrl: server.URL, RpcUrl: "http://invalid"}, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return client, gateway, ledger
}
