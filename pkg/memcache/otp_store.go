package mem

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"
)

// OtpStore keeps one-time codes, resend cooldowns and short-lived
// "verified" marks, all keyed by the email or phone they were sent to.
type OtpStore interface {
	SaveOtp(ctx context.Context, key, code string, ttl time.Duration) error
	// ConsumeOtp removes the code when it matches. Expired or unknown codes never match.
	ConsumeOtp(ctx context.Context, key, code string) (bool, error)
	// AcquireCooldown returns false while a previous cooldown for key is running.
	AcquireCooldown(ctx context.Context, key string, cooldown time.Duration) (bool, error)
	MarkVerified(ctx context.Context, key string, ttl time.Duration) error
	ConsumeVerified(ctx context.Context, key string) (bool, error)
}

type entry struct {
	value     string
	expiresAt time.Time
}

type MemoryOtpStore struct {
	mu        sync.Mutex
	codes     map[string]entry
	cooldowns map[string]entry
	verified  map[string]entry
	now       func() time.Time
}

func NewMemoryOtpStore() *MemoryOtpStore {
	return &MemoryOtpStore{
		codes:     make(map[string]entry),
		cooldowns: make(map[string]entry),
		verified:  make(map[string]entry),
		now:       time.Now,
	}
}

func (s *MemoryOtpStore) SaveOtp(_ context.Context, key, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[key] = entry{value: code, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryOtpStore) ConsumeOtp(_ context.Context, key, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(s.codes, key)
	if !ok {
		return false, nil
	}
	if subtle.ConstantTimeCompare([]byte(e.value), []byte(code)) != 1 {
		return false, nil
	}
	delete(s.codes, key) // single-use
	return true, nil
}

func (s *MemoryOtpStore) AcquireCooldown(_ context.Context, key string, cooldown time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.live(s.cooldowns, key); ok {
		return false, nil
	}
	s.cooldowns[key] = entry{expiresAt: s.now().Add(cooldown)}
	return true, nil
}

func (s *MemoryOtpStore) MarkVerified(_ context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verified[key] = entry{value: "1", expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryOtpStore) ConsumeVerified(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.live(s.verified, key); !ok {
		return false, nil
	}
	delete(s.verified, key)
	return true, nil
}

// live must be called with mu held; expired entries are dropped on read.
func (s *MemoryOtpStore) live(m map[string]entry, key string) (entry, bool) {
	e, ok := m[key]
	if !ok {
		return entry{}, false
	}
	if s.now().After(e.expiresAt) {
		delete(m, key)
		return entry{}, false
	}
	return e, true
}
