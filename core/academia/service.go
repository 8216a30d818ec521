package academia

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/secundaria/core"
)

type Options struct {
	MaxLimit int              // caps QueryOptions.Limit; 0 disables the cap
	Now      func() time.Time // defaults to time.Now
}

// Service is the entry point of the engine. Every mutation runs inside one Store transaction.
type Service struct {
	store    Store
	validate *validator.Validate
	log      core.Logger
	maxLimit int
	now      func() time.Time
}

func NewService(store Store, validate *validator.Validate, logger core.Logger, opts Options) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:    store,
		validate: validate,
		log:      logger,
		maxLimit: opts.MaxLimit,
		now:      now,
	}
}

func (svc *Service) timestamp() time.Time { return svc.now().UTC() }

// inTx runs fn in one transaction; errors that are not engine errors come back as StorageFailure.
func (svc *Service) inTx(ctx context.Context, msg string, fn func(repo Repository) error) error {
	return trapStorage(svc.store.InTx(ctx, fn), msg)
}

// read runs fn on the store outside of a transaction.
func (svc *Service) read(msg string, fn func(repo Repository) error) error {
	return trapStorage(fn(svc.store), msg)
}

// getErr maps a missing row to NotFound.
func getErr(err error, entity EntityKind, id int64) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNoRows) {
		return notFound(entity, id)
	}
	return errors.Wrap(err, fmt.Sprintf("getting %s %d", entity, id))
}

// uniqueAs maps a unique violation to an InvalidField error on field.
func uniqueAs(err error, entity EntityKind, field, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUniqueViolation) {
		return invalidField(entity, field, core.NewFieldValidationError(field, msg))
	}
	return err
}
