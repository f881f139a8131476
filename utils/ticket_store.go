package utils

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// One-time tickets back both the OAuth state parameter and the confirm step
// of destructive operations (disconnect, report delete). Redis is preferred;
// the in-memory map is a single-instance fallback.

type ticketEntry struct {
	expiresAt time.Time
}

var (
	ticketStore   = map[string]ticketEntry{}
	ticketStoreMu sync.Mutex
)

func ticketKey(scope, ticket string) string {
	return "ticket:" + scope + ":" + ticket
}

// IssueTicket creates a single-use ticket bound to scope with the given TTL.
func IssueTicket(scope string, ttl time.Duration) string {
	ticket := uuid.NewString()
	SaveTicket(scope, ticket, ttl)
	return ticket
}

// SaveTicket stores an externally generated ticket under scope.
func SaveTicket(scope, ticket string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rc.Set(ctx, ticketKey(scope, ticket), "1", ttl).Err(); err == nil {
			return
		}
	}
	ticketStoreMu.Lock()
	ticketStore[ticketKey(scope, ticket)] = ticketEntry{expiresAt: time.Now().Add(ttl)}
	ticketStoreMu.Unlock()
}

// ConsumeTicket validates and removes a ticket, returning whether it was live.
func ConsumeTicket(scope, ticket string) bool {
	if ticket == "" {
		return false
	}
	key := ticketKey(scope, ticket)
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		// GETDEL keeps check-and-consume atomic (Redis >= 6.2)
		if v, err := rc.GetDel(ctx, key).Result(); err == nil {
			return v != ""
		}
		script := `local v=redis.call('GET', KEYS[1]); if v then redis.call('DEL', KEYS[1]); end; return v`
		if res, err := rc.Eval(ctx, script, []string{key}).Result(); err == nil {
			return res != nil
		}
		// On Redis error fall through to the memory fallback
	}
	ticketStoreMu.Lock()
	entry, ok := ticketStore[key]
	if ok {
		delete(ticketStore, key)
	}
	ticketStoreMu.Unlock()
	if !ok {
		return false
	}
	return time.Now().Before(entry.expiresAt)
}

// SaveState stores an OAuth state token with TTL to mitigate CSRF.
func SaveState(state string, ttl time.Duration) {
	SaveTicket("oauth:state", state, ttl)
}

// ConsumeState validates and removes a state token.
func ConsumeState(state string) bool {
	return ConsumeTicket("oauth:state", state)
}
