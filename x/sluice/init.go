package sluice

import (
	"github.com/iov-one/weave"
	"github.com/iov-one/weave/coin"
	"github.com/iov-one/weave/errors"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file
type Initializer struct{}

var _ weave.Initializer = (*Initializer)(nil)

// FromGenesis will parse initial gate configuration from genesis and save it
// to the database. The option is not required. A chain without it starts
// without a configuration and the record is created by the first successful
// CreateMsg.
func (*Initializer) FromGenesis(opts weave.Options, params weave.GenesisParams, db weave.KVStore) error {
	var conf struct {
		Authority   weave.Address `json:"authority"`
		Source      weave.Address `json:"source"`
		Destination weave.Address `json:"destination"`
		Threshold   coin.Coin     `json:"threshold"`
	}
	if err := opts.ReadOptions("sluice", &conf); err != nil {
		return errors.Wrap(err, "read sluice options")
	}
	if len(conf.Authority) == 0 && len(conf.Source) == 0 && len(conf.Destination) == 0 {
		return nil
	}

	config := Config{
		Metadata:    &weave.Metadata{Schema: 1},
		Authority:   conf.Authority,
		Source:      conf.Source,
		Destination: conf.Destination,
		Threshold:   conf.Threshold,
	}
	if err := config.Validate(); err != nil {
		return errors.Wrap(err, "invalid sluice genesis")
	}
	bucket := NewConfigBucket()
	if _, err := bucket.Put(db, ConfigAddress(), &config); err != nil {
		return errors.Wrap(err, "store config")
	}
	return nil
}
