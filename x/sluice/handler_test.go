package sluice

import (
	"context"
	"testing"

	weave "github.com/iov-one/weave"
	"github.com/iov-one/weave/app"
	coin "github.com/iov-one/weave/coin"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/migration"
	"github.com/iov-one/weave/store"
	"github.com/iov-one/weave/weavetest"
	"github.com/iov-one/weave/x/cash"
)

func TestUseCases(t *testing.T) {
	type Request struct {
		Conditions  []weave.Condition
		Tx          weave.Tx
		BlockHeight int64
		WantErr     *errors.Error
	}

	type AccountBalance struct {
		Wallet weave.Address
		Amount coin.Coin
	}

	var (
		authorityCond = weavetest.NewCondition()
		sourceCond    = weavetest.NewCondition()
		destCond      = weavetest.NewCondition()
		strangerCond  = weavetest.NewCondition()
	)

	// Most cases start by letting the authority allocate the configuration.
	createTx := &weavetest.Tx{
		Msg: &CreateMsg{
			Metadata:    &weave.Metadata{Schema: 1},
			Source:      sourceCond.Address(),
			Destination: destCond.Address(),
			Threshold:   coin.NewCoin(2, 0, "SLC"),
		},
	}

	cases := map[string]struct {
		Requests  []Request
		Funds     []AccountBalance
		AfterTest func(t *testing.T, db weave.KVStore)
	}{
		"configuration is created once and the signer becomes the authority": {
			Requests: []Request{
				{
					Conditions:  []weave.Condition{authorityCond},
					Tx:          createTx,
					BlockHeight: 100,
					WantErr:     nil,
				},
				{
					Conditions:  []weave.Condition{strangerCond},
					Tx:          createTx,
					BlockHeight: 101,
					WantErr:     ErrAlreadyInitialized,
				},
			},
			AfterTest: func(t *testing.T, db weave.KVStore) {
				var c Config
				if err := NewConfigBucket().One(db, ConfigAddress(), &c); err != nil {
					t.Fatalf("cannot load configuration: %s", err)
				}
				if !c.Authority.Equals(authorityCond.Address()) {
					t.Fatalf("unexpected authority: %q", c.Authority)
				}
				if !c.Source.Equals(sourceCond.Address()) {
					t.Fatalf("unexpected source: %q", c.Source)
				}
				if !c.Destination.Equals(destCond.Address()) {
					t.Fatalf("unexpected destination: %q", c.Destination)
				}
				if !c.Threshold.Equals(coin.NewCoin(2, 0, "SLC")) {
					t.Fatalf("unexpected threshold: %q", c.Threshold)
				}
			},
		},
		"creation requires a signature": {
			Requests: []Request{
				{
					Conditions:  nil,
					Tx:          createTx,
					BlockHeight: 100,
					WantErr:     errors.ErrUnauthorized,
				},
			},
		},
		"creation rejects a malformed party address": {
			Requests: []Request{
				{
					Conditions: []weave.Condition{authorityCond},
					Tx: &weavetest.Tx{
						Msg: &CreateMsg{
							Metadata:    &weave.Metadata{Schema: 1},
							Source:      []byte("too-short"),
							Destination: destCond.Address(),
							Threshold:   coin.NewCoin(2, 0, "SLC"),
						},
					},
					BlockHeight: 100,
					WantErr:     errors.ErrInput,
				},
			},
		},
		"transfer above the threshold moves funds": {
			Funds: []AccountBalance{
				{Wallet: sourceCond.Address(), Amount: coin.NewCoin(10, 0, "SLC")},
			},
			Requests: []Request{
				{
					Conditions:  []weave.Condition{authorityCond},
					Tx:          createTx,
					BlockHeight: 100,
					WantErr:     nil,
				},
				{
					Conditions: []weave.Condition{sourceCond},
					Tx: &weavetest.Tx{
						Msg: &TransferMsg{
							Metadata:    &weave.Metadata{Schema: 1},
							Source:      sourceCond.Address(),
							Destination: destCond.Address(),
							Amount:      coin.NewCoin(3, 0, "SLC"),
						},
					},
					BlockHeight: 101,
					WantErr:     nil,
				},
			},
			AfterTest: func(t *testing.T, db weave.KVStore) {
				assertFunds(t, db, sourceCond.Address(), coin.NewCoin(7, 0, "SLC"))
				assertFunds(t, db, destCond.Address(), coin.NewCoin(3, 0, "SLC"))
			},
		},
		"transfer of exactly the threshold amount is allowed": {
			Funds: []AccountBalance{
				{Wallet: sourceCond.Address(), Amount: coin.NewCoin(10, 0, "SLC")},
			},
			Requests: []Request{
				{
					Conditions:  []weave.Condition{authorityCond},
					Tx:          createTx,
					BlockHeight: 100,
					WantErr:     nil,
				},
				{
					Conditions: []weave.Condition{sourceCond},
					Tx: &weavetest.Tx{
						Msg: &TransferMsg{
							Metadata:    &weave.Metadata{Schema: 1},
							Source:      sourceCond.Address(),
							Destination: destCond.Address(),
							Amount:      coin.NewCoin(2, 0, "SLC"),
						},
					},
					BlockHeight: 101,
					WantErr:     nil,
				},
			},
			AfterTest: func(t *testing.T, db weave.KVStore) {
				assertFunds(t, db, sourceCond.Address(), coin.NewCoin(8, 0, "SLC"))
				assertFunds(t, db, destCond.Address(), coin.NewCoin(2, 0, "SLC"))
			},
		},
		"transfer below the threshold is rejected": {
			Funds: []AccountBalance{
				{Wallet: sourceCond.Address(), Amount: coin.NewCoin(10, 0, "SLC")},
			},
			Requests: []Request{
				{
					Conditions:  []weave.Condition{authorityCond},
					Tx:          createTx,
					BlockHeight: 100,
					WantErr:     nil,
				},
				{
					Conditions: []weave.Condition{sourceCond},
					Tx: &weavetest.Tx{
						Msg: &TransferMsg{
							Metadata:    &weave.Metadata{Schema: 1},
							Source:      sourceCond.Address(),
							Destination: destCond.Address(),
							Amount:      coin.NewCoin(1, 999999999, "SLC"),
						},
					},
					BlockHeight: 101,
					WantErr:     ErrBelowThreshold,
				},
			},
			AfterTest: func(t *testing.T, db weave.KVStore) {
				assertFunds(t, db, sourceCond.Address(), coin.NewCoin(10, 0, "SLC"))
			},
		},
		"transfer must be signed by the configured source": {
			Funds: []AccountBalance{
				{Wallet: sourceCond.Address(), Amount: coin.NewCoin(10, 0, "SLC")},
			},
			Requests: []Request{
				{
					Conditions:  []weave.Condition{authorityCond},
					Tx:          createTx,
					BlockHeight: 100,
					WantErr:     nil,
				},
				{
					// The right source is declared but a stranger signs.
					Conditions: []weave.Condition{strangerCond},
					Tx: &weavetest.Tx{
						Msg: &TransferMsg{
							Metadata:    &weave.Metadata{Schema: 1},
							Source:      sourceCond.Address(),
							Destination: destCond.Address(),
							Amount:      coin.NewCoin(3, 0, "SLC"),
						},
					},
					BlockHeight: 101,
					WantErr:     ErrSignerMismatch,
				},
				{
					// The source signs but declares another account.
					Conditions: []weave.Condition{sourceCond},
					Tx: &weavetest.Tx{
						Msg: &TransferMsg{
							Metadata:    &weave.Metadata{Schema: 1},
							Source:      strangerCond.Address(),
							Destination: destCond.Address(),
							Amount:      coin.NewCoin(3, 0, "SLC"),
						},
					},
					BlockHeight: 102,
					WantErr:     ErrSignerMismatch,
				},
			},
			AfterTest: func(t *testing.T, db weave.KVStore) {
				assertFunds(t, db, sourceCond.Address(), coin.NewCoin(10, 0, "SLC"))
			},
		},
		"transfer destination must match the configuration": {
			Funds: []AccountBalance{
				{Wallet: sourceCond.Address(), Amount: coin.NewCoin(10, 0, "SLC")},
			},
			Requests: []Request{
				{
					Conditions:  []weave.Condition{authorityCond},
					Tx:          createTx,
					BlockHeight: 100,
					WantErr:     nil,
				},
				{
					Conditions: []weave.Condition{sourceCond},
					Tx: &weavetest.Tx{
						Msg: &TransferMsg{
							Metadata:    &weave.Metadata{Schema: 1},
							Source:      sourceCond.Address(),
							Destination: strangerCond.Address(),
							Amount:      coin.NewCoin(3, 0, "SLC"),
						},
					},
					BlockHeight: 101,
					WantErr:     ErrDestinationMismatch,
				},
			},
			AfterTest: func(t *testing.T, db weave.KVStore) {
				assertFunds(t, db, sourceCond.Address(), coin.NewCoin(10, 0, "SLC"))
			},
		},
		"transfer in a currency other than the threshold is rejected": {
			Funds: []AccountBalance{
				{Wallet: sourceCond.Address(), Amount: coin.NewCoin(10, 0, "DOGE")},
			},
			Requests: []Request{
				{
					Conditions:  []weave.Condition{authorityCond},
					Tx:          createTx,
					BlockHeight: 100,
					WantErr:     nil,
				},
				{
					Conditions: []weave.Condition{sourceCond},
					Tx: &weavetest.Tx{
						Msg: &TransferMsg{
							Metadata:    &weave.Metadata{Schema: 1},
							Source:      sourceCond.Address(),
							Destination: destCond.Address(),
							Amount:      coin.NewCoin(3, 0, "DOGE"),
						},
					},
					BlockHeight: 101,
					WantErr:     errors.ErrCurrency,
				},
			},
		},
		"transfer fails when the source holds not enough funds": {
			Funds: []AccountBalance{
				{Wallet: sourceCond.Address(), Amount: coin.NewCoin(1, 0, "SLC")},
			},
			Requests: []Request{
				{
					Conditions:  []weave.Condition{authorityCond},
					Tx:          createTx,
					BlockHeight: 100,
					WantErr:     nil,
				},
				{
					Conditions: []weave.Condition{sourceCond},
					Tx: &weavetest.Tx{
						Msg: &TransferMsg{
							Metadata:    &weave.Metadata{Schema: 1},
							Source:      sourceCond.Address(),
							Destination: destCond.Address(),
							Amount:      coin.NewCoin(3, 0, "SLC"),
						},
					},
					BlockHeight: 101,
					WantErr:     ErrInsufficientFunds,
				},
			},
			AfterTest: func(t *testing.T, db weave.KVStore) {
				// A failed transfer must not move a single token.
				assertFunds(t, db, sourceCond.Address(), coin.NewCoin(1, 0, "SLC"))
			},
		},
		"transfer fails when the source wallet does not exist": {
			Requests: []Request{
				{
					Conditions:  []weave.Condition{authorityCond},
					Tx:          createTx,
					BlockHeight: 100,
					WantErr:     nil,
				},
				{
					Conditions: []weave.Condition{sourceCond},
					Tx: &weavetest.Tx{
						Msg: &TransferMsg{
							Metadata:    &weave.Metadata{Schema: 1},
							Source:      sourceCond.Address(),
							Destination: destCond.Address(),
							Amount:      coin.NewCoin(3, 0, "SLC"),
						},
					},
					BlockHeight: 101,
					WantErr:     ErrInsufficientFunds,
				},
			},
		},
		"transfer checks the signer before anything else": {
			Funds: []AccountBalance{
				{Wallet: sourceCond.Address(), Amount: coin.NewCoin(1, 0, "SLC")},
			},
			Requests: []Request{
				{
					Conditions:  []weave.Condition{authorityCond},
					Tx:          createTx,
					BlockHeight: 100,
					WantErr:     nil,
				},
				{
					// Wrong signer, wrong destination and too small amount
					// at once. The signer check fires first.
					Conditions: []weave.Condition{strangerCond},
					Tx: &weavetest.Tx{
						Msg: &TransferMsg{
							Metadata:    &weave.Metadata{Schema: 1},
							Source:      sourceCond.Address(),
							Destination: strangerCond.Address(),
							Amount:      coin.NewCoin(1, 0, "SLC"),
						},
					},
					BlockHeight: 101,
					WantErr:     ErrSignerMismatch,
				},
			},
		},
		"threshold update is restricted to the authority": {
			Requests: []Request{
				{
					Conditions:  []weave.Condition{authorityCond},
					Tx:          createTx,
					BlockHeight: 100,
					WantErr:     nil,
				},
				{
					Conditions: []weave.Condition{sourceCond},
					Tx: &weavetest.Tx{
						Msg: &UpdateThresholdMsg{
							Metadata:  &weave.Metadata{Schema: 1},
							Threshold: coin.NewCoin(1, 0, "SLC"),
						},
					},
					BlockHeight: 101,
					WantErr:     errors.ErrUnauthorized,
				},
			},
			AfterTest: func(t *testing.T, db weave.KVStore) {
				var c Config
				if err := NewConfigBucket().One(db, ConfigAddress(), &c); err != nil {
					t.Fatalf("cannot load configuration: %s", err)
				}
				if !c.Threshold.Equals(coin.NewCoin(2, 0, "SLC")) {
					t.Fatalf("threshold modified by a non authority: %q", c.Threshold)
				}
			},
		},
		"raising the threshold applies to any further transfer": {
			Funds: []AccountBalance{
				{Wallet: sourceCond.Address(), Amount: coin.NewCoin(10, 0, "SLC")},
			},
			Requests: []Request{
				{
					Conditions:  []weave.Condition{authorityCond},
					Tx:          createTx,
					BlockHeight: 100,
					WantErr:     nil,
				},
				{
					Conditions: []weave.Condition{sourceCond},
					Tx: &weavetest.Tx{
						Msg: &TransferMsg{
							Metadata:    &weave.Metadata{Schema: 1},
							Source:      sourceCond.Address(),
							Destination: destCond.Address(),
							Amount:      coin.NewCoin(2, 0, "SLC"),
						},
					},
					BlockHeight: 101,
					WantErr:     nil,
				},
				{
					Conditions: []weave.Condition{authorityCond},
					Tx: &weavetest.Tx{
						Msg: &UpdateThresholdMsg{
							Metadata:  &weave.Metadata{Schema: 1},
							Threshold: coin.NewCoin(5, 0, "SLC"),
						},
					},
					BlockHeight: 102,
					WantErr:     nil,
				},
				{
					// The same amount as before, now below the bar.
					Conditions: []weave.Condition{sourceCond},
					Tx: &weavetest.Tx{
						Msg: &TransferMsg{
							Metadata:    &weave.Metadata{Schema: 1},
							Source:      sourceCond.Address(),
							Destination: destCond.Address(),
							Amount:      coin.NewCoin(2, 0, "SLC"),
						},
					},
					BlockHeight: 103,
					WantErr:     ErrBelowThreshold,
				},
			},
			AfterTest: func(t *testing.T, db weave.KVStore) {
				assertFunds(t, db, sourceCond.Address(), coin.NewCoin(8, 0, "SLC"))
				assertFunds(t, db, destCond.Address(), coin.NewCoin(2, 0, "SLC"))
			},
		},
		"zero threshold lets any positive amount through": {
			Funds: []AccountBalance{
				{Wallet: sourceCond.Address(), Amount: coin.NewCoin(10, 0, "SLC")},
			},
			Requests: []Request{
				{
					Conditions:  []weave.Condition{authorityCond},
					Tx:          createTx,
					BlockHeight: 100,
					WantErr:     nil,
				},
				{
					Conditions: []weave.Condition{authorityCond},
					Tx: &weavetest.Tx{
						Msg: &UpdateThresholdMsg{
							Metadata:  &weave.Metadata{Schema: 1},
							Threshold: coin.NewCoin(0, 0, "SLC"),
						},
					},
					BlockHeight: 101,
					WantErr:     nil,
				},
				{
					Conditions: []weave.Condition{sourceCond},
					Tx: &weavetest.Tx{
						Msg: &TransferMsg{
							Metadata:    &weave.Metadata{Schema: 1},
							Source:      sourceCond.Address(),
							Destination: destCond.Address(),
							Amount:      coin.NewCoin(0, 1, "SLC"),
						},
					},
					BlockHeight: 102,
					WantErr:     nil,
				},
			},
			AfterTest: func(t *testing.T, db weave.KVStore) {
				assertFunds(t, db, destCond.Address(), coin.NewCoin(0, 1, "SLC"))
			},
		},
		"parties update rebinds source and destination together": {
			Funds: []AccountBalance{
				{Wallet: strangerCond.Address(), Amount: coin.NewCoin(10, 0, "SLC")},
			},
			Requests: []Request{
				{
					Conditions:  []weave.Condition{authorityCond},
					Tx:          createTx,
					BlockHeight: 100,
					WantErr:     nil,
				},
				{
					Conditions: []weave.Condition{authorityCond},
					Tx: &weavetest.Tx{
						Msg: &UpdatePartiesMsg{
							Metadata:    &weave.Metadata{Schema: 1},
							Source:      strangerCond.Address(),
							Destination: authorityCond.Address(),
						},
					},
					BlockHeight: 101,
					WantErr:     nil,
				},
				{
					// The former source is not bound anymore.
					Conditions: []weave.Condition{sourceCond},
					Tx: &weavetest.Tx{
						Msg: &TransferMsg{
							Metadata:    &weave.Metadata{Schema: 1},
							Source:      sourceCond.Address(),
							Destination: destCond.Address(),
							Amount:      coin.NewCoin(3, 0, "SLC"),
						},
					},
					BlockHeight: 102,
					WantErr:     ErrSignerMismatch,
				},
				{
					Conditions: []weave.Condition{strangerCond},
					Tx: &weavetest.Tx{
						Msg: &TransferMsg{
							Metadata:    &weave.Metadata{Schema: 1},
							Source:      strangerCond.Address(),
							Destination: authorityCond.Address(),
							Amount:      coin.NewCoin(3, 0, "SLC"),
						},
					},
					BlockHeight: 103,
					WantErr:     nil,
				},
			},
			AfterTest: func(t *testing.T, db weave.KVStore) {
				var c Config
				if err := NewConfigBucket().One(db, ConfigAddress(), &c); err != nil {
					t.Fatalf("cannot load configuration: %s", err)
				}
				if !c.Source.Equals(strangerCond.Address()) {
					t.Fatalf("unexpected source: %q", c.Source)
				}
				if !c.Destination.Equals(authorityCond.Address()) {
					t.Fatalf("unexpected destination: %q", c.Destination)
				}
				assertFunds(t, db, strangerCond.Address(), coin.NewCoin(7, 0, "SLC"))
				assertFunds(t, db, authorityCond.Address(), coin.NewCoin(3, 0, "SLC"))
			},
		},
		"parties update is restricted to the authority": {
			Requests: []Request{
				{
					Conditions:  []weave.Condition{authorityCond},
					Tx:          createTx,
					BlockHeight: 100,
					WantErr:     nil,
				},
				{
					Conditions: []weave.Condition{sourceCond},
					Tx: &weavetest.Tx{
						Msg: &UpdatePartiesMsg{
							Metadata:    &weave.Metadata{Schema: 1},
							Source:      sourceCond.Address(),
							Destination: sourceCond.Address(),
						},
					},
					BlockHeight: 101,
					WantErr:     errors.ErrUnauthorized,
				},
			},
			AfterTest: func(t *testing.T, db weave.KVStore) {
				var c Config
				if err := NewConfigBucket().One(db, ConfigAddress(), &c); err != nil {
					t.Fatalf("cannot load configuration: %s", err)
				}
				if !c.Source.Equals(sourceCond.Address()) {
					t.Fatalf("unexpected source: %q", c.Source)
				}
				if !c.Destination.Equals(destCond.Address()) {
					t.Fatalf("unexpected destination: %q", c.Destination)
				}
			},
		},
		"operations on a missing configuration fail cleanly": {
			Requests: []Request{
				{
					Conditions: []weave.Condition{sourceCond},
					Tx: &weavetest.Tx{
						Msg: &TransferMsg{
							Metadata:    &weave.Metadata{Schema: 1},
							Source:      sourceCond.Address(),
							Destination: destCond.Address(),
							Amount:      coin.NewCoin(3, 0, "SLC"),
						},
					},
					BlockHeight: 100,
					WantErr:     errors.ErrNotFound,
				},
				{
					Conditions: []weave.Condition{authorityCond},
					Tx: &weavetest.Tx{
						Msg: &UpdateThresholdMsg{
							Metadata:  &weave.Metadata{Schema: 1},
							Threshold: coin.NewCoin(1, 0, "SLC"),
						},
					},
					BlockHeight: 101,
					WantErr:     errors.ErrNotFound,
				},
				{
					Conditions: []weave.Condition{authorityCond},
					Tx: &weavetest.Tx{
						Msg: &UpdatePartiesMsg{
							Metadata:    &weave.Metadata{Schema: 1},
							Source:      sourceCond.Address(),
							Destination: destCond.Address(),
						},
					},
					BlockHeight: 102,
					WantErr:     errors.ErrNotFound,
				},
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			migration.MustInitPkg(db, "sluice", "cash")

			rt := app.NewRouter()
			auth := &weavetest.CtxAuth{Key: "auth"}
			ctrl := cash.NewController(cash.NewBucket())
			RegisterRoutes(rt, auth, ctrl)

			for _, b := range tc.Funds {
				if err := ctrl.CoinMint(db, b.Wallet, b.Amount); err != nil {
					t.Fatalf("cannot mint coins for %q: %s", b.Wallet, err)
				}
			}

			for i, req := range tc.Requests {
				ctx := weave.WithHeight(context.Background(), req.BlockHeight)
				ctx = weave.WithChainID(ctx, "testchain-123")
				ctx = auth.SetConditions(ctx, req.Conditions...)

				cache := db.CacheWrap()
				if _, err := rt.Check(ctx, cache, req.Tx); !req.WantErr.Is(err) {
					t.Fatalf("unexpected %d check error: want %q, got %+v", i, req.WantErr, err)
				}
				cache.Discard()
				if _, err := rt.Deliver(ctx, db, req.Tx); !req.WantErr.Is(err) {
					t.Fatalf("unexpected %d deliver error: want %q, got %+v", i, req.WantErr, err)
				}
			}

			if tc.AfterTest != nil {
				tc.AfterTest(t, db)
			}
		})
	}
}

func assertFunds(t testing.TB, db weave.KVStore, wallet weave.Address, funds coin.Coin) {
	t.Helper()

	ctrl := cash.NewController(cash.NewBucket())
	coins, err := ctrl.Balance(db, wallet)
	if err != nil {
		t.Fatalf("balance: %s", err)
	}
	if len(coins) != 1 {
		t.Fatalf("want %q funds, found %d coins: %q", funds, len(coins), coins)
	}
	if !coins[0].Equals(funds) {
		t.Fatalf("unexpected funds found: %q", coins[0])
	}
}
