package sluiced

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/iov-one/sluice/x/sluice"
	"github.com/iov-one/weave"
	"github.com/iov-one/weave/coin"
	"github.com/iov-one/weave/commands"
	"github.com/iov-one/weave/crypto"
	"github.com/iov-one/weave/x/cash"
	"github.com/iov-one/weave/x/sigs"
)

// we fix the private keys here for deterministic output with the same encoding
// these are not secure at all, but the only point is to check the format,
// which is easier when everything is reproduceable.
var (
	source    = makePrivKey("1234567890")
	authority = makePrivKey("CAB005E5")
	dst       = makePrivKey("F00BA411").PublicKey().Address()
)

// makePrivKey repeats the string as long as needed to get 64 digits, then
// parses it as hex. It uses this repeated string as a "random" seed
// for the private key.
//
// nothing random about it, but at least it gives us variety
func makePrivKey(seed string) *crypto.PrivateKey {
	rep := 64/len(seed) + 1
	in := strings.Repeat(seed, rep)[:64]
	bin, err := hex.DecodeString(in)
	if err != nil {
		panic(err)
	}
	return crypto.PrivKeyEd25519FromSeed(bin)
}

// Examples generates some example structs to dump out with testgen
func Examples() []commands.Example {
	wallet := &cash.Set{
		Metadata: &weave.Metadata{Schema: 1},
		Coins: []*coin.Coin{
			{Whole: 50000, Ticker: "SLC"},
			{Whole: 150, Fractional: 567000, Ticker: "BTC"},
		},
	}

	slc := &coin.Coin{Whole: 50000, Fractional: 12345, Ticker: "SLC"}

	pub := source.PublicKey()
	addr := pub.Address()
	user := &sigs.UserData{
		Metadata: &weave.Metadata{Schema: 1},
		Pubkey:   pub,
		Sequence: 17,
	}

	config := &sluice.Config{
		Metadata:    &weave.Metadata{Schema: 1},
		Authority:   authority.PublicKey().Address(),
		Source:      addr,
		Destination: dst,
		Threshold:   coin.NewCoin(0, 100000000, "SLC"),
	}

	createMsg := &sluice.CreateMsg{
		Metadata:    &weave.Metadata{Schema: 1},
		Source:      addr,
		Destination: dst,
		Threshold:   coin.NewCoin(0, 100000000, "SLC"),
	}

	transferMsg := &sluice.TransferMsg{
		Metadata:    &weave.Metadata{Schema: 1},
		Source:      addr,
		Destination: dst,
		Amount:      coin.NewCoin(250, 0, "SLC"),
	}

	unsigned := Tx{
		Sum: &Tx_SluiceTransferMsg{transferMsg},
	}
	tx := unsigned
	sig, err := sigs.SignTx(source, &tx, "test-123", 17)
	if err != nil {
		panic(err)
	}
	tx.Signatures = []*sigs.StdSignature{sig}

	fmt.Printf("Address: %s\n", addr)
	return []commands.Example{
		{Filename: "wallet", Obj: wallet},
		{Filename: "coin", Obj: slc},
		{Filename: "priv_key", Obj: source},
		{Filename: "pub_key", Obj: pub},
		{Filename: "user", Obj: user},
		{Filename: "config", Obj: config},
		{Filename: "create_msg", Obj: createMsg},
		{Filename: "transfer_msg", Obj: transferMsg},
		{Filename: "unsigned_tx", Obj: &unsigned},
		{Filename: "signed_tx", Obj: &tx},
	}
}
