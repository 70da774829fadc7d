package epoch

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/0xBreath/epoch-app/api"
	"github.com/0xBreath/epoch-app/crypto"
	"github.com/btcsuite/btcd/btcutil/base58"
)

// AccountData is raw ledger account state.
type AccountData struct {
	Lamports   uint64
	Owner      crypto.PublicKey
	Data       []byte
	Executable bool
}

// ProgramAccount pairs an account address with its state, as returned by a
// program-accounts scan.
type ProgramAccount struct {
	Key     crypto.PublicKey
	Account AccountData
}

// Connection is the ledger query/submission collaborator the client and the
// instruction builders depend on.  [NodeClient] is the JSON-RPC
// implementation; tests substitute an in-memory fake.
//
// A submission that is abandoned client-side may still land on the ledger:
// cancellation means "stopped waiting", not "undone".
type Connection interface {
	// AccountInfo fetches account state, nil when no account exists at key.
	AccountInfo(key crypto.PublicKey) (*AccountData, error)

	// ProgramAccounts lists every account owned by the given program.
	ProgramAccounts(program crypto.PublicKey) ([]ProgramAccount, error)

	// SendTransaction submits a signed transaction, returning its signature.
	SendTransaction(txn *SignedTransaction) (string, error)
}

// NodeClient talks JSON-RPC 2.0 to a ledger node.
type NodeClient struct {
	url    string
	client *http.Client
}

// NewNodeClient creates a ledger client for the given RPC endpoint.
func NewNodeClient(url string) *NodeClient {
	return NewNodeClientWithHttpClient(url, &http.Client{Timeout: 60 * time.Second})
}

// NewNodeClientWithHttpClient creates a ledger client with a caller-supplied
// http.Client.
func NewNodeClientWithHttpClient(url string, httpClient *http.Client) *NodeClient {
	return &NodeClient{url: url, client: httpClient}
}

type rpcRequest struct {
	Jsonrpc string `json:"jsonrpc"`
	Id      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// rpcAccount is the node's wire form of account state; data is a
// [base64, "base64"] tuple.
type rpcAccount struct {
	Lamports   uint64    `json:"lamports"`
	Owner      string    `json:"owner"`
	Data       [2]string `json:"data"`
	Executable bool      `json:"executable"`
}

func (c *NodeClient) call(method string, params []any, result any) error {
	payload, err := json.Marshal(rpcRequest{Jsonrpc: "2.0", Id: 1, Method: method, Params: params})
	if err != nil {
		return &api.TransportError{Method: method, URL: c.url, Err: err}
	}
	res, err := c.client.Post(c.url, api.ContentType, bytes.NewReader(payload))
	if err != nil {
		return &api.TransportError{Method: method, URL: c.url, Err: err}
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return &api.TransportError{StatusCode: res.StatusCode, Method: method, URL: c.url, Err: err}
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &api.TransportError{StatusCode: res.StatusCode, Method: method, URL: c.url, Err: fmt.Errorf("%s", body)}
	}
	var decoded rpcResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return &api.TransportError{StatusCode: res.StatusCode, Method: method, URL: c.url, Err: err}
	}
	if decoded.Error != nil {
		return &api.TransportError{StatusCode: res.StatusCode, Method: method, URL: c.url, Err: fmt.Errorf("rpc error %d: %s", decoded.Error.Code, decoded.Error.Message)}
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(decoded.Result, result); err != nil {
		return &api.TransportError{StatusCode: res.StatusCode, Method: method, URL: c.url, Err: err}
	}
	return nil
}

func (a rpcAccount) toAccountData(method string, url string) (AccountData, error) {
	owner, err := crypto.ParsePublicKey(a.Owner)
	if err != nil {
		return AccountData{}, &api.TransportError{Method: method, URL: url, Err: err}
	}
	data, err := base64.StdEncoding.DecodeString(a.Data[0])
	if err != nil {
		return AccountData{}, &api.TransportError{Method: method, URL: url, Err: err}
	}
	return AccountData{
		Lamports:   a.Lamports,
		Owner:      owner,
		Data:       data,
		Executable: a.Executable,
	}, nil
}

// AccountInfo implements [Connection].
func (c *NodeClient) AccountInfo(key crypto.PublicKey) (*AccountData, error) {
	var result struct {
		Value *rpcAccount `json:"value"`
	}
	params := []any{key.String(), map[string]string{"encoding": "base64"}}
	if err := c.call("getAccountInfo", params, &result); err != nil {
		return nil, err
	}
	if result.Value == nil {
		return nil, nil
	}
	account, err := result.Value.toAccountData("getAccountInfo", c.url)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// ProgramAccounts implements [Connection].
func (c *NodeClient) ProgramAccounts(program crypto.PublicKey) ([]ProgramAccount, error) {
	var result []struct {
		Pubkey  string     `json:"pubkey"`
		Account rpcAccount `json:"account"`
	}
	params := []any{program.String(), map[string]string{"encoding": "base64"}}
	if err := c.call("getProgramAccounts", params, &result); err != nil {
		return nil, err
	}
	accounts := make([]ProgramAccount, 0, len(result))
	for _, entry := range result {
		key, err := crypto.ParsePublicKey(entry.Pubkey)
		if err != nil {
			return nil, &api.TransportError{Method: "getProgramAccounts", URL: c.url, Err: err}
		}
		account, err := entry.Account.toAccountData("getProgramAccounts", c.url)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, ProgramAccount{Key: key, Account: account})
	}
	return accounts, nil
}

// SendTransaction implements [Connection].
func (c *NodeClient) SendTransaction(txn *SignedTransaction) (string, error) {
	var signature string
	params := []any{base58.Encode(txn.Serialize()), map[string]string{"encoding": "base58"}}
	if err := c.call("sendTransaction", params, &signature); err != nil {
		return "", err
	}
	return signature, nil
}
