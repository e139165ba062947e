package sluice

import (
	"github.com/iov-one/weave"
	"github.com/iov-one/weave/coin"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/migration"
	"github.com/iov-one/weave/orm"
	"github.com/iov-one/weave/x"
	"github.com/iov-one/weave/x/cash"
)

const (
	// pay config allocation cost up-front
	createCost   int64 = 300
	transferCost int64 = 100
	updateCost   int64 = 50
)

// RegisterQuery will register the configuration bucket as "/sluices". Reads
// need no authorization.
func RegisterQuery(qr weave.QueryRouter) {
	NewConfigBucket().Register("sluices", qr)
}

// RegisterRoutes will instantiate and register all handlers in this package.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, ctrl cash.Controller) {
	r = migration.SchemaMigratingRegistry("sluice", r)

	bucket := NewConfigBucket()

	r.Handle(&CreateMsg{}, &createHandler{
		auth:   auth,
		bucket: bucket,
	})
	r.Handle(&TransferMsg{}, &transferHandler{
		auth:   auth,
		bucket: bucket,
		ctrl:   ctrl,
	})
	r.Handle(&UpdateThresholdMsg{}, &updateThresholdHandler{
		auth:   auth,
		bucket: bucket,
	})
	r.Handle(&UpdatePartiesMsg{}, &updatePartiesHandler{
		auth:   auth,
		bucket: bucket,
	})
}

type createHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
}

func (h *createHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: createCost}, nil
}

func (h *createHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	config := Config{
		Metadata:    &weave.Metadata{Schema: 1},
		Authority:   x.MainSigner(ctx, h.auth).Address(),
		Source:      msg.Source,
		Destination: msg.Destination,
		Threshold:   msg.Threshold,
	}
	key := ConfigAddress()
	if _, err := h.bucket.Put(db, key, &config); err != nil {
		return nil, errors.Wrap(err, "store config")
	}
	return &weave.DeliverResult{Data: key}, nil
}

func (h *createHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*CreateMsg, error) {
	var msg CreateMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if x.MainSigner(ctx, h.auth) == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "authority signature missing")
	}
	switch err := h.bucket.Has(db, ConfigAddress()); {
	case err == nil:
		return nil, errors.Wrap(ErrAlreadyInitialized, "configuration exists")
	case errors.ErrNotFound.Is(err):
		// Free to create.
	default:
		return nil, errors.Wrap(err, "bucket")
	}
	return &msg, nil
}

type transferHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	ctrl   cash.Controller
}

func (h *transferHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: transferCost}, nil
}

func (h *transferHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, config, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	// The cash controller debits and credits within a single call, or
	// fails with no change.
	if err := cash.MoveCoins(db, h.ctrl, config.Source, config.Destination, []*coin.Coin{&msg.Amount}); err != nil {
		return nil, errors.Wrap(err, "move coins")
	}
	return &weave.DeliverResult{}, nil
}

// validate runs the transfer checks in a fixed order. The first failing
// check aborts the whole operation.
func (h *transferHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*TransferMsg, *Config, error) {
	var msg TransferMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	var config Config
	if err := h.bucket.One(db, ConfigAddress(), &config); err != nil {
		return nil, nil, errors.Wrap(err, "load configuration")
	}
	if !msg.Source.Equals(config.Source) || !h.auth.HasAddress(ctx, msg.Source) {
		return nil, nil, errors.Wrap(ErrSignerMismatch, "not the configured source")
	}
	if !msg.Destination.Equals(config.Destination) {
		return nil, nil, errors.Wrap(ErrDestinationMismatch, "not the configured destination")
	}
	if !msg.Amount.SameType(config.Threshold) {
		return nil, nil, errors.Wrapf(errors.ErrCurrency, "threshold is denominated in %q", config.Threshold.Ticker)
	}
	// The threshold is an inclusive lower bound. Equality passes.
	if !msg.Amount.IsGTE(config.Threshold) {
		return nil, nil, errors.Wrapf(ErrBelowThreshold, "amount %s, threshold %s", msg.Amount, config.Threshold)
	}
	if err := hasFunds(db, h.ctrl, config.Source, msg.Amount); err != nil {
		return nil, nil, err
	}
	return &msg, &config, nil
}

// hasFunds returns no error if given wallet contains at least given amount of
// funds.
func hasFunds(db weave.KVStore, ctrl cash.Controller, wallet weave.Address, funds coin.Coin) error {
	coins, err := ctrl.Balance(db, wallet)
	switch {
	case err == nil:
		// Continue below.
	case errors.ErrNotFound.Is(err) || errors.ErrEmpty.Is(err):
		return errors.Wrap(ErrInsufficientFunds, "source account holds no funds")
	default:
		return errors.Wrap(err, "source balance")
	}
	for _, c := range coins {
		if c.Ticker != funds.Ticker {
			continue
		}
		if c.Compare(funds) >= 0 {
			return nil
		}
	}
	return errors.Wrap(ErrInsufficientFunds, "not enough funds on source account")
}

type updateThresholdHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
}

func (h *updateThresholdHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: updateCost}, nil
}

func (h *updateThresholdHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, config, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	// The new value replaces the old one unconditionally, zero included.
	config.Threshold = msg.Threshold
	if _, err := h.bucket.Put(db, ConfigAddress(), config); err != nil {
		return nil, errors.Wrap(err, "store config")
	}
	return &weave.DeliverResult{}, nil
}

func (h *updateThresholdHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*UpdateThresholdMsg, *Config, error) {
	var msg UpdateThresholdMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	var config Config
	if err := h.bucket.One(db, ConfigAddress(), &config); err != nil {
		return nil, nil, errors.Wrap(err, "load configuration")
	}
	if !h.auth.HasAddress(ctx, config.Authority) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "authority signature missing")
	}
	return &msg, &config, nil
}

type updatePartiesHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
}

func (h *updatePartiesHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: updateCost}, nil
}

func (h *updatePartiesHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, config, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	// Both parties are replaced within a single write. The pair is never
	// half-updated.
	config.Source = msg.Source
	config.Destination = msg.Destination
	if _, err := h.bucket.Put(db, ConfigAddress(), config); err != nil {
		return nil, errors.Wrap(err, "store config")
	}
	return &weave.DeliverResult{}, nil
}

func (h *updatePartiesHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*UpdatePartiesMsg, *Config, error) {
	var msg UpdatePartiesMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	var config Config
	if err := h.bucket.One(db, ConfigAddress(), &config); err != nil {
		return nil, nil, errors.Wrap(err, "load configuration")
	}
	if !h.auth.HasAddress(ctx, config.Authority) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "authority signature missing")
	}
	return &msg, &config, nil
}
