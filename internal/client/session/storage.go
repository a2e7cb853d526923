package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/stockyard/internal/client/models"
	"github.com/dmitrijs2005/stockyard/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/stockyard/internal/common"
	"github.com/dmitrijs2005/stockyard/internal/dbx"
)

// ErrCorruptRecord is returned by Storage.Load when stored values cannot be
// decoded.
var ErrCorruptRecord = errors.New("corrupt session record")

// Record is the persisted part of a session.
type Record struct {
	Credential string
	Identity   *models.Identity
	// ExpiresAt is zero when the backend did not report a lifetime.
	ExpiresAt time.Time
}

// Storage persists the session between runs.
type Storage interface {
	Load(ctx context.Context) (Record, error)
	Save(ctx context.Context, r Record) error
	Clear(ctx context.Context) error
}

// MetadataStorage keeps the record in the local metadata table under the
// token, user and token_expiry keys.
type MetadataStorage struct {
	db *sql.DB
}

func NewMetadataStorage(db *sql.DB) *MetadataStorage {
	return &MetadataStorage{db: db}
}

func (s *MetadataStorage) Load(ctx context.Context) (Record, error) {
	repo := metadata.NewSQLiteRepository(s.db)

	tok, err := repo.Get(ctx, common.StorageKeyToken)
	if err != nil {
		return Record{}, err
	}
	user, err := repo.Get(ctx, common.StorageKeyUser)
	if err != nil {
		return Record{}, err
	}
	exp, err := repo.Get(ctx, common.StorageKeyTokenExpiry)
	if err != nil {
		return Record{}, err
	}

	rec := Record{Credential: string(tok)}
	if len(user) > 0 {
		var id models.Identity
		if err := json.Unmarshal(user, &id); err != nil {
			return Record{}, fmt.Errorf("%w: user: %w", ErrCorruptRecord, err)
		}
		rec.Identity = &id
	}
	if len(exp) > 0 {
		ms, err := strconv.ParseInt(string(exp), 10, 64)
		if err != nil {
			return Record{}, fmt.Errorf("%w: token_expiry: %w", ErrCorruptRecord, err)
		}
		rec.ExpiresAt = time.UnixMilli(ms)
	}
	return rec, nil
}

// Save writes all keys in one transaction. A zero ExpiresAt removes
// token_expiry.
func (s *MetadataStorage) Save(ctx context.Context, r Record) error {
	var user []byte
	if r.Identity != nil {
		b, err := json.Marshal(r.Identity)
		if err != nil {
			return fmt.Errorf("encode user: %w", err)
		}
		user = b
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)

		if r.Credential == "" {
			if err := repo.Delete(ctx, common.StorageKeyToken); err != nil {
				return err
			}
		} else if err := repo.Set(ctx, common.StorageKeyToken, []byte(r.Credential)); err != nil {
			return err
		}

		if user == nil {
			if err := repo.Delete(ctx, common.StorageKeyUser); err != nil {
				return err
			}
		} else if err := repo.Set(ctx, common.StorageKeyUser, user); err != nil {
			return err
		}

		if r.ExpiresAt.IsZero() {
			return repo.Delete(ctx, common.StorageKeyTokenExpiry)
		}
		ms := strconv.FormatInt(r.ExpiresAt.UnixMilli(), 10)
		return repo.Set(ctx, common.StorageKeyTokenExpiry, []byte(ms))
	})
}

func (s *MetadataStorage) Clear(ctx context.Context) error {
	return metadata.NewSQLiteRepository(s.db).Delete(ctx,
		common.StorageKeyToken, common.StorageKeyUser, common.StorageKeyTokenExpiry)
}
