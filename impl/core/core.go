// Package core owns the activation state: the set of activated user
// identifiers and the registry of outstanding one-time codes. All mutations
// go through Core methods and are persisted synchronously; a failed save is
// logged and the in-memory state stays authoritative for the process
// lifetime. The transport layer (bot) formats replies and enforces admin
// authorization before calling the admin operations.
package core

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"groupgate/entity"
	"groupgate/impl/registry"
	"groupgate/lib/clock"
	"groupgate/lib/sl"
)

var (
	ErrInvalidCode      = errors.New("invalid activation code")
	ErrAlreadyActivated = errors.New("user already activated")
	ErrNotActivated     = errors.New("user not activated")
	ErrEmptyBroadcast   = errors.New("broadcast message is empty")
	ErrNoIssuer         = errors.New("invite issuer not connected")
)

const defaultInviteTimeout = 10 * time.Second

// Database is the storage the core persists to after every mutation.
// Implemented by internal/database (file and mongo backends).
type Database interface {
	LoadUsers() ([]int64, error)
	SaveUsers(users []int64) error
	LoadCodes() ([]entity.ActivationCode, error)
	SaveCodes(codes []entity.ActivationCode) error
}

// InviteIssuer requests a fresh single-use, short-lived invite link to the
// target group. Implemented by the bot via the platform API.
type InviteIssuer interface {
	CreateInvite(ctx context.Context) (string, error)
}

type Core struct {
	log      *slog.Logger
	db       Database
	registry *registry.Registry
	issuer   InviteIssuer

	mu        sync.Mutex
	activated map[int64]struct{}
	startedAt time.Time
}

// New loads the persisted activation set and outstanding codes. Load faults
// are tolerated: the process starts with empty state rather than failing.
func New(db Database, reg *registry.Registry, log *slog.Logger) *Core {
	c := &Core{
		log:       log.With(sl.Module("core")),
		db:        db,
		registry:  reg,
		activated: make(map[int64]struct{}),
		startedAt: time.Now().UTC(),
	}

	users, err := db.LoadUsers()
	if err != nil {
		c.log.Warn("loading activation set, starting empty", sl.Err(err))
		users = nil
	}
	for _, id := range users {
		c.activated[id] = struct{}{}
	}

	codes, err := db.LoadCodes()
	if err != nil {
		c.log.Warn("loading codes, starting empty", sl.Err(err))
		codes = nil
	}
	reg.Restore(codes)

	c.log.Info("state loaded",
		slog.Int("activated", len(c.activated)),
		slog.Int("codes", len(codes)),
	)
	return c
}

func (c *Core) SetInviteIssuer(issuer InviteIssuer) {
	c.issuer = issuer
}

func (c *Core) IsActivated(userId int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.activated[userId]
	return ok
}

// Redeem checks the trimmed text against the outstanding codes and, on match,
// activates the user. Codes are case-sensitive and matched exactly. Already
// activated callers are never re-validated; they get ErrAlreadyActivated so
// the caller can fall through to the invite path.
func (c *Core) Redeem(userId int64, text string) error {
	code := strings.TrimSpace(text)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.activated[userId]; ok {
		return ErrAlreadyActivated
	}
	if !c.registry.Redeem(code) {
		return ErrInvalidCode
	}

	c.activated[userId] = struct{}{}
	c.saveUsersLocked()
	c.saveCodesLocked()

	c.log.Info("user activated", slog.Int64("user_id", userId))
	return nil
}

// Invite requests a fresh invite link with a bounded timeout. A failure is
// returned to the caller as is: no retry, and no rollback of an activation
// recorded before the request.
func (c *Core) Invite(ctx context.Context) (string, error) {
	if c.issuer == nil {
		return "", ErrNoIssuer
	}
	ctx, cancel := context.WithTimeout(ctx, defaultInviteTimeout)
	defer cancel()
	return c.issuer.CreateInvite(ctx)
}

// GenerateCode issues a new one-time code and persists the registry.
func (c *Core) GenerateCode(createdBy int64) (string, error) {
	code, err := c.registry.Issue(createdBy)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.saveCodesLocked()
	c.mu.Unlock()

	c.log.Info("code issued", slog.Int64("created_by", createdBy))
	return code, nil
}

// Users returns the activation set sorted ascending.
func (c *Core) Users() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	users := make([]int64, 0, len(c.activated))
	for id := range c.activated {
		users = append(users, id)
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })
	return users
}

// Revoke removes a user from the activation set, returning them to the
// pre-activation state.
func (c *Core) Revoke(userId int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.activated[userId]; !ok {
		return ErrNotActivated
	}
	delete(c.activated, userId)
	c.saveUsersLocked()

	c.log.Info("user revoked", slog.Int64("user_id", userId))
	return nil
}

// Broadcast delivers text to every activated user via deliver. A failed
// recipient is recorded and skipped, never aborting the rest of the batch.
func (c *Core) Broadcast(text string, deliver func(userId int64) error) (entity.BroadcastReport, error) {
	if strings.TrimSpace(text) == "" {
		return entity.BroadcastReport{}, ErrEmptyBroadcast
	}

	var report entity.BroadcastReport
	for _, id := range c.Users() {
		if err := deliver(id); err != nil {
			c.log.Warn("broadcast delivery failed", slog.Int64("user_id", id), sl.Err(err))
			report.Failed = append(report.Failed, id)
			continue
		}
		report.Sent++
	}
	return report, nil
}

func (c *Core) Stats() entity.Stats {
	c.mu.Lock()
	activated := len(c.activated)
	c.mu.Unlock()
	return entity.Stats{
		ActivatedUsers:   activated,
		OutstandingCodes: c.registry.Outstanding(),
		StartedAt:        clock.Format(c.startedAt),
	}
}

func (c *Core) saveUsersLocked() {
	users := make([]int64, 0, len(c.activated))
	for id := range c.activated {
		users = append(users, id)
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })
	if err := c.db.SaveUsers(users); err != nil {
		c.log.Error("saving activation set", sl.Err(err))
	}
}

func (c *Core) saveCodesLocked() {
	if err := c.db.SaveCodes(c.registry.Snapshot()); err != nil {
		c.log.Error("saving codes", sl.Err(err))
	}
}
