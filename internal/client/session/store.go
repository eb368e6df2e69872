package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/realestate/internal/client/models"
	"github.com/dmitrijs2005/realestate/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/realestate/internal/dbx"
)

const (
	keyAccount = "session.account"
	keyToken   = "session.token"
	keySavedAt = "session.saved_at"
)

var sessionKeys = []string{keyAccount, keyToken, keySavedAt}

// Store persists a signed-in session in the client metadata table. The
// account, the token and the save time are written together in one
// transaction; a partial or stale record is never restored.
type Store struct {
	db       *sql.DB
	validity time.Duration
	now      func() time.Time
}

func NewStore(db *sql.DB, validity time.Duration) *Store {
	return &Store{db: db, validity: validity, now: time.Now}
}

// Save persists s when it is signed in and removes any stored session
// otherwise. Re-saving the same token keeps the original save time, so a
// profile update does not extend the session.
func (st *Store) Save(ctx context.Context, s State) error {
	if !s.IsSignedIn() {
		return st.Clear(ctx)
	}
	if !s.Account.Complete() || s.Token == "" {
		return ErrIncomplete
	}

	account, err := json.Marshal(s.Account)
	if err != nil {
		return fmt.Errorf("encode account: %w", err)
	}

	return dbx.WithTx(ctx, st.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)

		savedAt := st.now().UTC()
		if prev, err := repo.Get(ctx, keyToken); err == nil && string(prev) == s.Token {
			if raw, err := repo.Get(ctx, keySavedAt); err == nil {
				if t, err := time.Parse(time.RFC3339Nano, string(raw)); err == nil {
					savedAt = t
				}
			}
		}

		if err := repo.Delete(ctx, sessionKeys...); err != nil {
			return err
		}
		if err := repo.Set(ctx, keyAccount, account); err != nil {
			return err
		}
		if err := repo.Set(ctx, keyToken, []byte(s.Token)); err != nil {
			return err
		}
		return repo.Set(ctx, keySavedAt, []byte(savedAt.Format(time.RFC3339Nano)))
	})
}

// Load returns the persisted session, or a signed-out state when nothing
// complete and fresh is stored. Incomplete or expired records are removed.
func (st *Store) Load(ctx context.Context) (State, error) {
	s, err := dbx.InTx(ctx, st.db, nil, func(ctx context.Context, tx dbx.DBTX) (State, error) {
		repo := metadata.NewSQLiteRepository(tx)
		values, err := repo.List(ctx)
		if err != nil {
			return State{}, err
		}

		if s, ok := st.decode(values); ok {
			return s, nil
		}

		if hasAny(values, sessionKeys) {
			if err := repo.Delete(ctx, sessionKeys...); err != nil {
				return State{}, err
			}
		}
		return State{Status: SignedOut}, nil
	})
	if err != nil {
		return State{Status: SignedOut}, err
	}
	return s, nil
}

func (st *Store) Clear(ctx context.Context) error {
	return metadata.NewSQLiteRepository(st.db).Delete(ctx, sessionKeys...)
}

func (st *Store) decode(values map[string][]byte) (State, bool) {
	rawAcc, okA := values[keyAccount]
	token, okT := values[keyToken]
	rawSaved, okS := values[keySavedAt]
	if !okA || !okT || !okS || len(token) == 0 {
		return State{}, false
	}

	savedAt, err := time.Parse(time.RFC3339Nano, string(rawSaved))
	if err != nil || st.now().After(savedAt.Add(st.validity)) {
		return State{}, false
	}

	var acc models.Account
	if err := json.Unmarshal(rawAcc, &acc); err != nil || !acc.Complete() {
		return State{}, false
	}

	return State{Status: SignedIn, Account: &acc, Token: string(token)}, true
}

func hasAny(values map[string][]byte, keys []string) bool {
	for _, k := range keys {
		if _, ok := values[k]; ok {
			return true
		}
	}
	return false
}

// SavedAt reports when the current session was first stored. Without a
// stored session the error is common.ErrorNotFound.
func (st *Store) SavedAt(ctx context.Context) (time.Time, error) {
	raw, err := metadata.NewSQLiteRepository(st.db).Get(ctx, keySavedAt)
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, string(raw))
}
