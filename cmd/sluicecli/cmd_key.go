package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/iov-one/weave/crypto"
	"github.com/stellar/go/exp/crypto/derivation"
	"golang.org/x/crypto/ed25519"
)

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Generate a new private key.

When a derivation path is provided, a hex encoded seed is read from standard
input and the key is derived from it. Otherwise a random key is generated.

When successful a new file with binary content containing private key is
created. This command fails if the private key file already exists.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", env("SLUICECLI_PRIV_KEY", os.Getenv("HOME")+"/.sluiced.priv.key"),
			"Path to the private key file that transaction should be signed with. You can use SLUICECLI_PRIV_KEY environment variable to set it.")
		derivationFl = fl.String("path", "",
			"An optional derivation path, for example \"m/44'/234'/0'\". When provided, a hex encoded seed must be given on input.")
	)
	fl.Parse(args)

	if _, err := os.Stat(*keyPathFl); !os.IsNotExist(err) {
		// Do not allow to overwrite already existing private key. User
		// must manually delete it first to ensure we do not delete
		// such crucial data by an accident (bad command usage).
		return fmt.Errorf("private key file %q already exists, delete this file and try again", *keyPathFl)
	}

	var priv []byte
	if *derivationFl == "" {
		var err error
		if _, priv, err = ed25519.GenerateKey(nil); err != nil {
			return fmt.Errorf("cannot generate ed25519 key: %s", err)
		}
	} else {
		var err error
		if priv, err = deriveKey(input, *derivationFl); err != nil {
			return fmt.Errorf("cannot derive ed25519 key: %s", err)
		}
	}

	fd, err := os.OpenFile(*keyPathFl, os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("cannot create private key file: %s", err)
	}
	defer fd.Close()

	if _, err := fd.Write(priv); err != nil {
		return fmt.Errorf("cannot write private key: %s", err)
	}
	if err := fd.Close(); err != nil {
		return fmt.Errorf("cannot close private key file: %s", err)
	}
	return nil
}

// deriveKey reads a hex encoded seed from given reader and derives an ed25519
// private key following given derivation path. Only hardened paths are
// supported.
func deriveKey(input io.Reader, path string) ([]byte, error) {
	raw, err := ioutil.ReadAll(input)
	if err != nil {
		return nil, fmt.Errorf("cannot read the seed: %s", err)
	}
	seed, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("cannot hex decode the seed: %s", err)
	}
	key, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, fmt.Errorf("cannot derive %q path: %s", path, err)
	}
	pub, err := key.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("cannot derive public key: %s", err)
	}
	return append(key.Key, pub...), nil
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out a hex-address associated with your private key.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", env("SLUICECLI_PRIV_KEY", os.Getenv("HOME")+"/.sluiced.priv.key"),
			"Path to the private key file that transaction should be signed with. You can use SLUICECLI_PRIV_KEY environment variable to set it.")
	)
	fl.Parse(args)

	raw, err := ioutil.ReadFile(*keyPathFl)
	if err != nil {
		return fmt.Errorf("cannot read private key file: %s", err)
	}

	if len(raw) != ed25519.PrivateKeySize {
		return fmt.Errorf("invalid private key length: %d", len(raw))
	}

	key := &crypto.PrivateKey{
		Priv: &crypto.PrivateKey_Ed25519{
			Ed25519: raw,
		},
	}
	_, err = fmt.Fprintln(output, key.PublicKey().Address())
	return err
}
