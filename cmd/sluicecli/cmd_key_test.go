package main

import (
	"bytes"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/weave/weavetest/assert"
)

// privKeyHex is a hex encoded, 64 byte long ed25519 private key.
const privKeyHex = "d34c1970ae90acf3405f2d99dcaca16d0c7db379f4beafcfdf667b9d69ce350d27f5fb440509dfa79ec883a0510bc9a9614c3d44188881f0c5e402898b4bf3c9"

// privKeyAddr is the hex address of the account that corresponds to privKeyHex.
const privKeyAddr = "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0"

func TestKeygenRandom(t *testing.T) {
	dir, err := ioutil.TempDir("", "sluicecli")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	keyPath := filepath.Join(dir, "random.priv.key")
	if err := cmdKeygen(nil, nil, []string{"-key", keyPath}); err != nil {
		t.Fatalf("cannot generate a key: %s", err)
	}

	raw, err := ioutil.ReadFile(keyPath)
	if err != nil {
		t.Fatalf("cannot read the generated key: %s", err)
	}
	if len(raw) != 64 {
		t.Fatalf("invalid private key length: %d", len(raw))
	}

	// An existing key file must never be overwritten.
	if err := cmdKeygen(nil, nil, []string{"-key", keyPath}); err == nil {
		t.Fatal("generating a key over an existing file must fail")
	}
}

func TestKeygenDerivation(t *testing.T) {
	dir, err := ioutil.TempDir("", "sluicecli")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	derive := func(name, path string) []byte {
		t.Helper()

		keyPath := filepath.Join(dir, name)
		args := []string{"-key", keyPath, "-path", path}
		if err := cmdKeygen(strings.NewReader(privKeyHex), nil, args); err != nil {
			t.Fatalf("cannot derive a key: %s", err)
		}
		raw, err := ioutil.ReadFile(keyPath)
		if err != nil {
			t.Fatalf("cannot read the derived key: %s", err)
		}
		if len(raw) != 64 {
			t.Fatalf("invalid private key length: %d", len(raw))
		}
		return raw
	}

	first := derive("first.priv.key", "m/44'/234'/0'")
	again := derive("again.priv.key", "m/44'/234'/0'")
	other := derive("other.priv.key", "m/44'/234'/1'")

	// The same seed and path must always produce the same key.
	assert.Equal(t, first, again)
	if bytes.Equal(first, other) {
		t.Fatal("different derivation paths must produce different keys")
	}
}

func TestKeyaddrKnownKey(t *testing.T) {
	keyPath := mustCreateFile(t, bytes.NewReader(fromHex(t, privKeyHex)))

	var output bytes.Buffer
	if err := cmdKeyaddr(nil, &output, []string{"-key", keyPath}); err != nil {
		t.Fatalf("cannot print the key address: %s", err)
	}
	assert.Equal(t, privKeyAddr+"\n", output.String())
}

func mustCreateFile(t testing.TB, r io.Reader) string {
	t.Helper()

	fd, err := ioutil.TempFile("", t.Name())
	if err != nil {
		t.Fatal(err)
	}
	defer fd.Close()
	if _, err := io.Copy(fd, r); err != nil {
		t.Fatal(err)
	}
	if err := fd.Close(); err != nil {
		t.Fatal(err)
	}
	return fd.Name()
}
