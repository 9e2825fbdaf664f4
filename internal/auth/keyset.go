package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/clouddocs/server/internal/logger"
)

// KeyLookup resolves a verification key by its identifier.
type KeyLookup interface {
	Lookup(kid string) (*rsa.PublicKey, bool)
}

// jwk is one entry of the provider's published key set (RFC 7517).
type jwk struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwksDocument struct {
	Keys []jwk `json:"keys"`
}

// KeySet is an immutable set of named RSA public keys. A refreshed set
// replaces the whole value, individual keys are never mutated.
type KeySet struct {
	keys map[string]*rsa.PublicKey
}

// Lookup returns the key with the given identifier.
func (s *KeySet) Lookup(kid string) (*rsa.PublicKey, bool) {
	key, ok := s.keys[kid]
	return key, ok
}

// Len returns the number of keys in the set.
func (s *KeySet) Len() int {
	return len(s.keys)
}

// FetchKeySet retrieves the identity provider's key set from its
// well-known endpoint. An unreachable endpoint, an undecodable body or an
// empty set is an error: verification must fail closed, never fall back
// to accepting arbitrary tokens.
func FetchKeySet(ctx context.Context, client *http.Client, url string) (*KeySet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build jwks request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch jwks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jwks endpoint returned status %d", resp.StatusCode)
	}

	var doc jwksDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode jwks: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for _, k := range doc.Keys {
		if k.Kty != "RSA" || k.Kid == "" {
			continue
		}
		pub, err := k.rsaPublicKey()
		if err != nil {
			return nil, fmt.Errorf("failed to build key %q: %w", k.Kid, err)
		}
		keys[k.Kid] = pub
	}

	if len(keys) == 0 {
		return nil, fmt.Errorf("jwks contains no usable keys")
	}

	return &KeySet{keys: keys}, nil
}

func (k jwk) rsaPublicKey() (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("invalid modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("invalid exponent: %w", err)
	}

	e := new(big.Int).SetBytes(eBytes)
	if !e.IsInt64() || e.Int64() <= 0 {
		return nil, fmt.Errorf("exponent out of range")
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: int(e.Int64()),
	}, nil
}

// Resolver holds the current key set and optionally refreshes it on an
// interval so rotated keys are picked up without a restart. Lookups are
// read-only, a refresh swaps the set as a whole.
type Resolver struct {
	url      string
	client   *http.Client
	interval time.Duration
	logger   *logger.Logger

	mu  sync.RWMutex
	set *KeySet
}

// NewResolver performs the initial fetch and fails when the endpoint is
// unreachable or the set is empty.
func NewResolver(ctx context.Context, url string, interval time.Duration, l *logger.Logger) (*Resolver, error) {
	client := &http.Client{Timeout: 10 * time.Second}

	set, err := FetchKeySet(ctx, client, url)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve signing keys: %w", err)
	}

	return &Resolver{
		url:      url,
		client:   client,
		interval: interval,
		logger:   l,
		set:      set,
	}, nil
}

// Lookup returns the key with the given identifier from the current set.
func (r *Resolver) Lookup(kid string) (*rsa.PublicKey, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.set.Lookup(kid)
}

// Run refreshes the key set periodically until the context is cancelled.
// A failed refresh keeps the previous set. No-op when the interval is
// zero.
func (r *Resolver) Run(ctx context.Context) {
	if r.interval <= 0 {
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			set, err := FetchKeySet(ctx, r.client, r.url)
			if err != nil {
				r.logger.Error("failed to refresh signing keys, keeping previous set", "error", err)
				continue
			}
			r.mu.Lock()
			r.set = set
			r.mu.Unlock()
			r.logger.Info("signing keys refreshed", "keys", set.Len())
		}
	}
}
