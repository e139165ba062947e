package sluice

import (
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/iov-one/weave"
	"github.com/iov-one/weave/coin"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/migration"
	"github.com/iov-one/weave/store"
)

func TestGenesisKey(t *testing.T) {
	const genesis = `
		{
			"sluice": {
				"authority": "E94323317C46BDA2268FA3698BAF4F95B893E8C7",
				"source": "FE5526DE08337DFEF5CF45EF3ED8C577B854DE34",
				"destination": "C3F0172E8BCEF42D262AE73F287D9E197A4B8E4F",
				"threshold": {"whole": 2, "ticker": "SLC"}
			}
		}
	`
	authority, _ := hex.DecodeString("E94323317C46BDA2268FA3698BAF4F95B893E8C7")
	source, _ := hex.DecodeString("FE5526DE08337DFEF5CF45EF3ED8C577B854DE34")
	destination, _ := hex.DecodeString("C3F0172E8BCEF42D262AE73F287D9E197A4B8E4F")

	var opts weave.Options
	if err := json.Unmarshal([]byte(genesis), &opts); err != nil {
		t.Fatalf("cannot unmarshal genesis: %s", err)
	}

	db := store.MemStore()
	migration.MustInitPkg(db, "sluice")
	var ini Initializer
	if err := ini.FromGenesis(opts, weave.GenesisParams{}, db); err != nil {
		t.Fatalf("cannot load genesis: %s", err)
	}

	var c Config
	if err := NewConfigBucket().One(db, ConfigAddress(), &c); err != nil {
		t.Fatalf("cannot fetch configuration: %s", err)
	}

	if !c.Authority.Equals(authority) {
		t.Fatalf("unexpected authority address: %q", c.Authority)
	}
	if !c.Source.Equals(source) {
		t.Fatalf("unexpected source address: %q", c.Source)
	}
	if !c.Destination.Equals(destination) {
		t.Fatalf("unexpected destination address: %q", c.Destination)
	}
	if !c.Threshold.Equals(coin.NewCoin(2, 0, "SLC")) {
		t.Fatalf("unexpected threshold: %q", c.Threshold)
	}
}

func TestGenesisWithoutConfiguration(t *testing.T) {
	var opts weave.Options
	if err := json.Unmarshal([]byte(`{}`), &opts); err != nil {
		t.Fatalf("cannot unmarshal genesis: %s", err)
	}

	db := store.MemStore()
	migration.MustInitPkg(db, "sluice")
	var ini Initializer
	if err := ini.FromGenesis(opts, weave.GenesisParams{}, db); err != nil {
		t.Fatalf("cannot load genesis: %s", err)
	}

	err := NewConfigBucket().Has(db, ConfigAddress())
	if !errors.ErrNotFound.Is(err) {
		t.Fatalf("configuration must not exist: %+v", err)
	}
}
