package roble

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/viant/scy"
	"github.com/viant/scy/cred"

	"github.com/augustosalazar/roble-go/client"
	"github.com/augustosalazar/roble-go/client/auth"
	"github.com/augustosalazar/roble-go/client/auth/store"
	"github.com/augustosalazar/roble-go/client/auth/transport"
)

// Options configures a Roble session; fields map one-to-one to CLI flags and
// environment variables.
type Options struct {
	AuthURL        string `yaml:"authURL" json:"authURL" short:"a" long:"auth-url" env:"ROBLE_AUTH_URL" description:"authentication base URL"`
	DataHost       string `yaml:"dataHost" json:"dataHost" short:"d" long:"data-host" env:"ROBLE_BASE_HOST" description:"database service host"`
	Contract       string `yaml:"contract" json:"contract" short:"c" long:"contract" env:"ROBLE_CONTRACT" description:"contract/tenant identifier"`
	Table          string `yaml:"table,omitempty" json:"table,omitempty" short:"t" long:"table" env:"ROBLE_TABLE" description:"table name"`
	TokenStoreURL  string `yaml:"tokenStoreURL,omitempty" json:"tokenStoreURL,omitempty" long:"token-store" env:"ROBLE_TOKEN_STORE" description:"afs URL persisting the session token pair"`
	SecretsURL     string `yaml:"secretsURL,omitempty" json:"secretsURL,omitempty" long:"secrets" env:"ROBLE_SECRETS_URL" description:"scy secret URL with login credentials"`
	SecretsKey     string `yaml:"secretsKey,omitempty" json:"secretsKey,omitempty" long:"secrets-key" env:"ROBLE_SECRETS_KEY" description:"scy secret key, e.g. blowfish://default"`
	TimeoutSeconds int    `yaml:"timeoutSeconds,omitempty" json:"timeoutSeconds,omitempty" long:"timeout" description:"HTTP timeout in seconds" default:"30"`
	Debug          bool   `yaml:"debug,omitempty" json:"debug,omitempty" short:"v" long:"debug" description:"enable debug logging"`
}

func (o *Options) Init() {
	if o.Table == "" {
		o.Table = client.DefaultTable
	}
	if o.TimeoutSeconds <= 0 {
		o.TimeoutSeconds = 30
	}
}

func (o *Options) Validate() error {
	if o.AuthURL == "" {
		return fmt.Errorf("authURL was empty")
	}
	if o.DataHost == "" {
		return fmt.Errorf("dataHost was empty")
	}
	if o.Contract == "" {
		return fmt.Errorf("contract was empty")
	}
	return nil
}

// DataBaseURL returns the database service base URL; a bare host gets the
// https scheme.
func (o *Options) DataBaseURL() string {
	if strings.Contains(o.DataHost, "://") {
		return strings.TrimSuffix(o.DataHost, "/")
	}
	return "https://" + strings.TrimSuffix(o.DataHost, "/")
}

// Credentials loads login credentials from the configured scy secret;
// returns nil when no secret URL is set.
func (o *Options) Credentials(ctx context.Context) (*cred.Basic, error) {
	if o.SecretsURL == "" {
		return nil, nil
	}
	resource := scy.NewResource(reflect.TypeOf(cred.Basic{}), o.SecretsURL, o.SecretsKey)
	secret, err := scy.New().Load(ctx, resource)
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials from %v: %w", o.SecretsURL, err)
	}
	basic, ok := secret.Target.(*cred.Basic)
	if !ok {
		return nil, fmt.Errorf("unexpected secret type %T", secret.Target)
	}
	return basic, nil
}

// Session binds the credential store, the authentication service and the
// data client behind one resilient HTTP client. One Session per caller; no
// process-wide singleton.
type Session struct {
	Auth  *auth.Service
	Data  *client.Service
	store store.Store
}

// Store exposes the credential store backing this session.
func (s *Session) Store() store.Store {
	return s.store
}

// New wires a Session from options.
func New(options *Options) (*Session, error) {
	options.Init()
	if err := options.Validate(); err != nil {
		return nil, err
	}
	credentials := store.NewMemoryStore()
	if options.TokenStoreURL != "" {
		credentials = store.NewFileStore(options.TokenStoreURL)
	}
	timeout := time.Duration(options.TimeoutSeconds) * time.Second

	// auth traffic bypasses the resilient transport to avoid recursion
	authService := auth.New(options.AuthURL, credentials,
		auth.WithHTTPClient(&http.Client{Timeout: timeout}))

	roundTripper, err := transport.New(
		transport.WithStore(credentials),
		transport.WithRefresher(authService))
	if err != nil {
		return nil, err
	}
	dataService := client.New(options.DataBaseURL(), options.Contract,
		client.WithTable(options.Table),
		client.WithHTTPClient(&http.Client{Transport: roundTripper, Timeout: timeout}))

	return &Session{Auth: authService, Data: dataService, store: credentials}, nil
}
