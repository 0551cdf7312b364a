// Package opcua implements the session.Session and session.Connector
// contracts over the OPC UA binary protocol using github.com/gopcua/opcua.
package opcua

import (
	"context"
	"fmt"
	"strings"

	gopcua "github.com/gopcua/opcua"
	"go.uber.org/zap"

	"github.com/ChrizziDerKek/opcua-client/pkg/retry"
	"github.com/ChrizziDerKek/opcua-client/pkg/session"
)

const securityPolicyURIPrefix = "http://opcfoundation.org/UA/SecurityPolicy#"

// Config holds transport configuration.
type Config struct {
	// SecurityPolicy is the policy name or URI (default "None").
	SecurityPolicy string
	// SecurityMode is "None", "Sign", or "SignAndEncrypt" (default "None").
	SecurityMode string

	// CertFile and KeyFile hold the client certificate for signed or
	// encrypted channels.
	CertFile string
	KeyFile  string

	// Username and Password enable user-name token authentication.
	Username string
	Password string

	// Retry bounds the dial retries during Connect. The established
	// session never retries individual requests.
	Retry retry.Config

	// Logger receives transport diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Connector dials OPC UA endpoints.
type Connector struct {
	cfg Config
	log *zap.Logger
}

// NewConnector creates a connector with the given configuration.
func NewConnector(cfg Config) *Connector {
	if cfg.SecurityPolicy == "" {
		cfg.SecurityPolicy = "None"
	}
	if cfg.SecurityMode == "" {
		cfg.SecurityMode = "None"
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = retry.DefaultConfig()
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Connector{cfg: cfg, log: log}
}

// Connect establishes a secure channel and session with the endpoint.
func (c *Connector) Connect(ctx context.Context, endpoint string) (session.Session, error) {
	cli, err := gopcua.NewClient(endpoint, c.options()...)
	if err != nil {
		return nil, fmt.Errorf("new client for %s: %w", endpoint, err)
	}

	err = retry.Do(ctx, c.cfg.Retry, func() error {
		if err := cli.Connect(ctx); err != nil {
			c.log.Warn("dial failed", zap.String("endpoint", endpoint), zap.Error(err))
			return retry.Retryable(err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}

	c.log.Info("session established", zap.String("endpoint", endpoint))
	return &Session{cli: cli, log: c.log}, nil
}

func (c *Connector) options() []gopcua.Option {
	policy := c.cfg.SecurityPolicy
	if !strings.HasPrefix(policy, "http") {
		policy = securityPolicyURIPrefix + policy
	}

	opts := []gopcua.Option{
		gopcua.SecurityPolicy(policy),
		gopcua.SecurityModeString(c.cfg.SecurityMode),
	}
	if c.cfg.CertFile != "" {
		opts = append(opts, gopcua.CertificateFile(c.cfg.CertFile))
	}
	if c.cfg.KeyFile != "" {
		opts = append(opts, gopcua.PrivateKeyFile(c.cfg.KeyFile))
	}
	if c.cfg.Username != "" {
		opts = append(opts, gopcua.AuthUsername(c.cfg.Username, c.cfg.Password))
	}
	return opts
}
