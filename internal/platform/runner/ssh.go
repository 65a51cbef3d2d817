package runner

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/mkoesel/provflow/internal/util/retry"
)

const (
	defaultSSHPort     = 22
	defaultDialTimeout = 10 * time.Second
	defaultMaxAttempts = 12
	defaultRetryDelay  = 5 * time.Second
	defaultMaxDelay    = 10 * time.Second
)

// SSHConfig holds SSH runner configuration.
type SSHConfig struct {
	Host       string
	Port       int
	User       string
	PrivateKey []byte

	// DialTimeout is the timeout for establishing the TCP connection.
	// If zero, a default is used.
	DialTimeout time.Duration

	// MaxAttempts is the maximum number of connection attempts.
	// If zero, a default is used.
	MaxAttempts int

	// RetryDelay is the initial delay between connection attempts.
	// If zero, a default is used.
	RetryDelay time.Duration

	// HostKeyCallback handles host key verification.
	// If nil, ssh.InsecureIgnoreHostKey() is used, which suits freshly
	// provisioned hosts whose keys are not yet known. Provide a proper
	// callback for persistent targets.
	HostKeyCallback ssh.HostKeyCallback
}

// SSH executes commands on a remote deployment target.
// It parses the private key once during construction and creates
// connections on demand per Run call.
type SSH struct {
	config *SSHConfig
	signer ssh.Signer
}

// NewSSH creates an SSH runner and validates the private key.
func NewSSH(cfg *SSHConfig) (*SSH, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("config host cannot be empty")
	}
	if cfg.User == "" {
		return nil, fmt.Errorf("config user cannot be empty")
	}
	if len(cfg.PrivateKey) == 0 {
		return nil, fmt.Errorf("config private key cannot be empty")
	}

	// Copy config to avoid mutating caller's struct
	configCopy := *cfg

	if configCopy.Port == 0 {
		configCopy.Port = defaultSSHPort
	}
	if configCopy.DialTimeout == 0 {
		configCopy.DialTimeout = defaultDialTimeout
	}
	if configCopy.MaxAttempts == 0 {
		configCopy.MaxAttempts = defaultMaxAttempts
	}
	if configCopy.RetryDelay == 0 {
		configCopy.RetryDelay = defaultRetryDelay
	}
	if configCopy.HostKeyCallback == nil {
		configCopy.HostKeyCallback = ssh.InsecureIgnoreHostKey() //nolint:gosec // Default for freshly provisioned hosts
	}

	signer, err := ssh.ParsePrivateKey(configCopy.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return &SSH{
		config: &configCopy,
		signer: signer,
	}, nil
}

// Run implements Runner. It establishes a connection with retry, runs the
// command in a fresh session, and returns combined stdout+stderr.
func (s *SSH) Run(ctx context.Context, command string) (string, error) {
	client, err := s.connect(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = client.Close() }()

	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to create SSH session on %s: %w", s.config.Host, err)
	}
	defer func() { _ = session.Close() }()

	output, err := session.CombinedOutput(command)
	if err != nil {
		return string(output), fmt.Errorf("command failed on %s: %w\nCommand: %s\nOutput: %s",
			s.config.Host, err, command, string(output))
	}

	return string(output), nil
}

// Host implements Runner.
func (s *SSH) Host() string {
	return s.config.Host
}

// connect establishes the SSH connection with retry. Freshly created hosts
// can take a while before sshd accepts connections.
func (s *SSH) connect(ctx context.Context) (*ssh.Client, error) {
	config := &ssh.ClientConfig{
		User: s.config.User,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeys(s.signer),
		},
		HostKeyCallback: s.config.HostKeyCallback,
		Timeout:         s.config.DialTimeout,
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	var client *ssh.Client

	err := retry.Do(ctx, func() error {
		var dialErr error
		client, dialErr = ssh.Dial("tcp", addr, config)
		return dialErr
	},
		retry.WithMaxAttempts(s.config.MaxAttempts),
		retry.WithInitialDelay(s.config.RetryDelay),
		retry.WithMaxDelay(defaultMaxDelay),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to establish SSH connection to %s after %d attempts: %w",
			addr, s.config.MaxAttempts, err)
	}

	return client, nil
}
