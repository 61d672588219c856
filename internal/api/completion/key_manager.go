package completion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/FACorreiaa/go-tourist-spots/app/observability/metrics"
	"github.com/FACorreiaa/go-tourist-spots/config"
	"github.com/FACorreiaa/go-tourist-spots/internal/types"
)

// ErrNoAPIKeys is returned when no credentials are configured. There is no
// degraded mode with an empty pool.
var ErrNoAPIKeys = errors.New("completion: no API keys configured")

// rateLimitMarkers classify an upstream error as a quota/rate-limit failure
// by substring match.
var rateLimitMarkers = []string{"rate limit", "quota exceeded", "too many requests", "429"}

// Operation is one call against a credential-bound client.
type Operation func(ctx context.Context, client Client) (string, error)

// KeyManager rotates an ordered pool of credentials, one client per
// credential, recovering from rate limits locally. The cursor is the only
// state shared across requests and is mutex-guarded.
type KeyManager struct {
	mu      sync.Mutex
	current int

	clients []Client
	cfg     config.CompletionConfig
	logger  *slog.Logger

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

// LoadKeysFromEnv collects GEMINI_API_KEY plus the numbered
// GEMINI_API_KEY_1..N variants, in order.
func LoadKeysFromEnv() []string {
	var keys []string
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		keys = append(keys, key)
	}
	for i := 1; ; i++ {
		key := os.Getenv(fmt.Sprintf("GEMINI_API_KEY_%d", i))
		if key == "" {
			break
		}
		keys = append(keys, key)
	}
	return keys
}

// NewKeyManager builds one client per credential. Construction fails with an
// empty pool.
func NewKeyManager(ctx context.Context, apiKeys []string, cfg config.CompletionConfig, logger *slog.Logger) (*KeyManager, error) {
	if len(apiKeys) == 0 {
		return nil, ErrNoAPIKeys
	}

	clients := make([]Client, 0, len(apiKeys))
	for _, key := range apiKeys {
		client, err := newGeminiClient(ctx, key, cfg)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}

	logger.Info("Completion key pool initialized", slog.Int("keys", len(apiKeys)))
	return newKeyManagerWithClients(clients, cfg, logger)
}

// newKeyManagerWithClients is the injectable constructor used by tests.
func newKeyManagerWithClients(clients []Client, cfg config.CompletionConfig, logger *slog.Logger) (*KeyManager, error) {
	if len(clients) == 0 {
		return nil, ErrNoAPIKeys
	}
	return &KeyManager{
		clients: clients,
		cfg:     cfg,
		logger:  logger,
		sleep:   time.Sleep,
	}, nil
}

func (m *KeyManager) currentClient() (Client, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clients[m.current], m.current
}

// rotate advances the cursor to the next credential, wrapping around.
func (m *KeyManager) rotate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	old := m.current
	m.current = (m.current + 1) % len(m.clients)
	m.logger.Info("Rotated completion key",
		slog.Int("from", old),
		slog.Int("to", m.current))
}

// ExecuteWithFallback runs the operation against the current credential,
// rotating on rate-limit failures and backing off exponentially each full
// lap over the pool. Non-rate-limit errors propagate immediately. The total
// attempt budget is maxRetriesPerKey x pool size.
func (m *KeyManager) ExecuteWithFallback(ctx context.Context, op Operation) (string, error) {
	ctx, span := otel.Tracer("Completion").Start(ctx, "ExecuteWithFallback")
	defer span.End()

	appMetrics := metrics.Get()
	poolSize := len(m.clients)
	maxAttempts := m.cfg.MaxRetriesPerKey * poolSize
	delay := m.cfg.BaseBackoff

	attempts := 0
	for attempts < maxAttempts {
		client, index := m.currentClient()

		result, err := op(ctx, client)
		appMetrics.CompletionRequestsTotal.Add(ctx, 1)
		if err == nil {
			span.SetAttributes(attribute.Int("attempts", attempts+1))
			return result, nil
		}

		attempts++
		if !isRateLimited(err) {
			return "", err
		}

		m.logger.WarnContext(ctx, "Rate limit hit on completion key",
			slog.Int("key_index", index),
			slog.Int("attempt", attempts),
			slog.Any("error", err))

		// Once every credential has been tried, wait before the next lap.
		if attempts%poolSize == 0 {
			wait := 2 * delay
			if wait > m.cfg.MaxBackoff {
				wait = m.cfg.MaxBackoff
			}
			m.logger.InfoContext(ctx, "All completion keys exhausted, backing off",
				slog.Duration("wait", wait))
			m.sleep(wait)
			delay *= 2
		}

		appMetrics.CompletionRotationsTotal.Add(ctx, 1)
		m.rotate()
	}

	return "", fmt.Errorf("completion failed after %d attempts across %d keys", attempts, poolSize)
}

// Complete sends a role-tagged message list using the configured model
// parameters.
func (m *KeyManager) Complete(ctx context.Context, messages []types.CompletionMessage) (string, error) {
	return m.ExecuteWithFallback(ctx, func(ctx context.Context, client Client) (string, error) {
		return client.Generate(ctx, messages, m.cfg.Temperature, m.cfg.MaxTokens)
	})
}

func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
