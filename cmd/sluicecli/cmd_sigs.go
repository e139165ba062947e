package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/iov-one/sluice/cmd/sluiced/client"
	"github.com/iov-one/weave/crypto"
	"github.com/iov-one/weave/x/sigs"
)

func cmdSignTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Sign given transaction. This is decoding a transaction data from standard
input, adds a signature and writes back to standard output signed transaction
content.

`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", env("SLUICECLI_TM_ADDR", "http://localhost:26657"),
			"Tendermint node address. You can use SLUICECLI_TM_ADDR environment variable to set it.")
		keyPathFl = fl.String("key", env("SLUICECLI_PRIV_KEY", os.Getenv("HOME")+"/.sluiced.priv.key"),
			"Path to the private key file that transaction should be signed with. You can use SLUICECLI_PRIV_KEY environment variable to set it.")
	)
	fl.Parse(args)

	if *keyPathFl == "" {
		return errors.New("private key is required")
	}
	key, err := decodePrivateKey(*keyPathFl)
	if err != nil {
		return fmt.Errorf("cannot load private key: %s", err)
	}

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction: %s", err)
	}

	sluiceClient := client.NewClient(client.NewHTTPConnection(*tmAddrFl))
	chainID, err := sluiceClient.ChainID()
	if err != nil {
		return fmt.Errorf("cannot fetch the chain ID: %s", err)
	}

	aNonce := client.NewNonce(sluiceClient, key.PublicKey().Address())
	seq, err := aNonce.Next()
	if err != nil {
		return fmt.Errorf("cannot get the next sequence number: %s", err)
	}

	sig, err := sigs.SignTx(key, tx, chainID, seq)
	if err != nil {
		return fmt.Errorf("cannot sign transaction: %s", err)
	}
	tx.Signatures = append(tx.Signatures, sig)

	_, err = writeTx(output, tx)
	return err
}

func decodePrivateKey(filepath string) (*crypto.PrivateKey, error) {
	data, err := ioutil.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("cannot read %q file: %s", filepath, err)
	}
	if len(data) != 64 {
		return nil, errors.New("invalid key length")
	}
	key := &crypto.PrivateKey{
		Priv: &crypto.PrivateKey_Ed25519{Ed25519: data},
	}
	return key, nil
}
