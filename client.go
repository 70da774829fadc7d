package epoch

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/0xBreath/epoch-app/api"
	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"

	"github.com/0xBreath/epoch-app/crypto"
)

// NetworkConfig is a configuration for the Client and which network to use.
// Use one of the preconfigured [DevnetConfig] or [MainnetConfig] unless you
// run your own infrastructure.
type NetworkConfig struct {
	Name     string
	EpochUrl string
	RpcUrl   string
}

// DevnetConfig is for use with the development environment.
var DevnetConfig = NetworkConfig{
	Name:     "devnet",
	EpochUrl: DevEpochEndpoint,
	RpcUrl:   DevRpcEndpoint,
}

// MainnetConfig is for use with mainnet.  These are real user assets.
var MainnetConfig = NetworkConfig{
	Name:     "mainnet",
	EpochUrl: ProdEpochEndpoint,
	RpcUrl:   ProdRpcEndpoint,
}

// NamedNetworks Map from network name to NetworkConfig
var NamedNetworks map[string]NetworkConfig

func init() {
	NamedNetworks = make(map[string]NetworkConfig, 2)
	setNN := func(nc NetworkConfig) {
		NamedNetworks[nc.Name] = nc
	}
	setNN(DevnetConfig)
	setNN(MainnetConfig)
}

// EpochUser is the client's view of a connected user: the on-chain profile,
// the bearer token for the session, the derived vault address, and the last
// fetched vault balance.
type EpochUser struct {
	Profile crypto.PublicKey
	ApiKey  string
	Vault   crypto.PublicKey
	Balance *api.VaultBalance
}

// State is a snapshot handed to the observer after every session mutation.
type State struct {
	ApiKey      string
	CurrentUser *EpochUser
}

// ObserverFunc receives a [State] snapshot after every apiKey or CurrentUser
// change.  It runs on the calling goroutine.
type ObserverFunc func(state State)

// Client is the session controller over the Epoch REST service and the
// ledger.  Create one with [NewClient]:
//
//	client, err := epoch.NewClient(epoch.DevnetConfig)
//
// A Client carries mutable session state (apiKey, CurrentUser) and performs
// no internal locking.  Callers using one Client from several goroutines
// must serialize access themselves.
type Client struct {
	api      *api.Client
	conn     Connection
	log      zerolog.Logger
	observer ObserverFunc

	apiKey string

	// CurrentUser is the connected user, nil before [Client.Connect] or
	// after [Client.DeleteUser].  When non-nil its ApiKey matches the
	// session's bearer token.
	CurrentUser *EpochUser
}

// NewClient Creates a new client with a specific network config that can be
// extended with options: a *http.Client for both the REST and RPC
// transports, a [Connection] to replace the ledger client, a
// zerolog.Logger, or an [ObserverFunc].
func NewClient(config NetworkConfig, options ...any) (client *Client, err error) {
	var httpClient *http.Client = nil
	var conn Connection = nil
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("component", "epoch").Logger()
	var observer ObserverFunc = nil
	for i, arg := range options {
		switch value := arg.(type) {
		case *http.Client:
			if httpClient != nil {
				err = fmt.Errorf("NewClient only accepts one http.Client")
				return
			}
			httpClient = value
		case Connection:
			if conn != nil {
				err = fmt.Errorf("NewClient only accepts one Connection")
				return
			}
			conn = value
		case zerolog.Logger:
			logger = value
		case ObserverFunc:
			observer = value
		default:
			err = fmt.Errorf("NewClient arg %d bad type %T", i+1, arg)
			return
		}
	}

	var apiClient *api.Client
	if httpClient == nil {
		apiClient = api.NewClient(config.EpochUrl)
	} else {
		apiClient = api.NewClientWithHttpClient(config.EpochUrl, httpClient)
	}
	if conn == nil {
		if httpClient == nil {
			conn = NewNodeClient(config.RpcUrl)
		} else {
			conn = NewNodeClientWithHttpClient(config.RpcUrl, httpClient)
		}
	}

	client = &Client{
		api:      apiClient,
		conn:     conn,
		log:      logger,
		observer: observer,
	}
	return
}

type envConfig struct {
	Env    string `env:"ENV,required"`
	RpcUrl string `env:"RPC_URL"`
}

// NewClientFromEnv Creates a client from the process environment.  ENV must
// be "dev" or "prod" and selects the matching network; RPC_URL overrides the
// default ledger endpoint when set.
func NewClientFromEnv(options ...any) (*Client, error) {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	var network NetworkConfig
	switch cfg.Env {
	case "dev":
		network = DevnetConfig
	case "prod":
		network = MainnetConfig
	default:
		return nil, fmt.Errorf("ENV must be dev or prod, got %q", cfg.Env)
	}
	if cfg.RpcUrl != "" {
		network.RpcUrl = cfg.RpcUrl
	}
	return NewClient(network, options...)
}

// SetTimeout adjusts the HTTP client timeout
//
//	client.SetTimeout(5 * time.Millisecond)
func (client *Client) SetTimeout(timeout time.Duration) {
	client.api.SetTimeout(timeout)
}

// SetHeader sets the header for all future requests
//
//	client.SetHeader("Authorization", "Bearer abcde")
func (client *Client) SetHeader(key string, value string) {
	client.api.SetHeader(key, value)
}

// RemoveHeader removes the header from being automatically set all future requests.
//
//	client.RemoveHeader("Authorization")
func (client *Client) RemoveHeader(key string) {
	client.api.RemoveHeader(key)
}

// ApiKey returns the session's bearer token, empty before authentication.
func (client *Client) ApiKey() string {
	return client.apiKey
}

// Connection returns the ledger collaborator, useful for direct account
// reads alongside the session flow.
func (client *Client) Connection() Connection {
	return client.conn
}

func (client *Client) setApiKey(apiKey string) {
	client.apiKey = apiKey
	client.notify()
}

func (client *Client) setUser(user *EpochUser) {
	client.CurrentUser = user
	client.notify()
}

func (client *Client) notify() {
	if client.observer != nil {
		client.observer(State{ApiKey: client.apiKey, CurrentUser: client.CurrentUser})
	}
}
