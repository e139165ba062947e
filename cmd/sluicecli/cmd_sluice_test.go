package main

import (
	"bytes"
	"testing"

	"github.com/iov-one/sluice/x/sluice"
	"github.com/iov-one/weave/coin"
	"github.com/iov-one/weave/weavetest/assert"
)

func TestCmdCreateGateHappyPath(t *testing.T) {
	var output bytes.Buffer
	args := []string{
		"-source", "b1ca7e78f74423ae01da3b51e676934d9105f282",
		"-destination", "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0",
		"-threshold", "2 SLC",
	}
	if err := cmdCreateGate(nil, &output, args); err != nil {
		t.Fatalf("cannot create a new gate creation transaction: %s", err)
	}

	tx, _, err := readTx(&output)
	if err != nil {
		t.Fatalf("cannot unmarshal created transaction: %s", err)
	}

	txmsg, err := tx.GetMsg()
	if err != nil {
		t.Fatalf("cannot get transaction message: %s", err)
	}
	msg := txmsg.(*sluice.CreateMsg)

	assert.Equal(t, fromHex(t, "b1ca7e78f74423ae01da3b51e676934d9105f282"), []byte(msg.Source))
	assert.Equal(t, fromHex(t, "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0"), []byte(msg.Destination))
	assert.Equal(t, coin.NewCoin(2, 0, "SLC"), msg.Threshold)
}

func TestCmdCreateGateDefaultThreshold(t *testing.T) {
	var output bytes.Buffer
	args := []string{
		"-source", "b1ca7e78f74423ae01da3b51e676934d9105f282",
		"-destination", "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0",
	}
	if err := cmdCreateGate(nil, &output, args); err != nil {
		t.Fatalf("cannot create a new gate creation transaction: %s", err)
	}

	tx, _, err := readTx(&output)
	if err != nil {
		t.Fatalf("cannot unmarshal created transaction: %s", err)
	}

	txmsg, err := tx.GetMsg()
	if err != nil {
		t.Fatalf("cannot get transaction message: %s", err)
	}
	msg := txmsg.(*sluice.CreateMsg)

	// A tenth of a token is the default threshold.
	assert.Equal(t, coin.NewCoin(0, 100000000, "SLC"), msg.Threshold)
}

func TestCmdTransferHappyPath(t *testing.T) {
	var output bytes.Buffer
	args := []string{
		"-source", "b1ca7e78f74423ae01da3b51e676934d9105f282",
		"-destination", "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0",
		"-amount", "3 SLC",
	}
	if err := cmdTransfer(nil, &output, args); err != nil {
		t.Fatalf("cannot create a new transfer transaction: %s", err)
	}

	tx, _, err := readTx(&output)
	if err != nil {
		t.Fatalf("cannot unmarshal created transaction: %s", err)
	}

	txmsg, err := tx.GetMsg()
	if err != nil {
		t.Fatalf("cannot get transaction message: %s", err)
	}
	msg := txmsg.(*sluice.TransferMsg)

	assert.Equal(t, fromHex(t, "b1ca7e78f74423ae01da3b51e676934d9105f282"), []byte(msg.Source))
	assert.Equal(t, fromHex(t, "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0"), []byte(msg.Destination))
	assert.Equal(t, coin.NewCoin(3, 0, "SLC"), msg.Amount)
}

func TestCmdUpdateThresholdHappyPath(t *testing.T) {
	cases := map[string]struct {
		raw  string
		want coin.Coin
	}{
		"fractional threshold": {
			raw:  "0.5 SLC",
			want: coin.NewCoin(0, 500000000, "SLC"),
		},
		"zero threshold opens the gate": {
			raw:  "0 SLC",
			want: coin.NewCoin(0, 0, "SLC"),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var output bytes.Buffer
			if err := cmdUpdateThreshold(nil, &output, []string{"-threshold", tc.raw}); err != nil {
				t.Fatalf("cannot create a new threshold update transaction: %s", err)
			}

			tx, _, err := readTx(&output)
			if err != nil {
				t.Fatalf("cannot unmarshal created transaction: %s", err)
			}

			txmsg, err := tx.GetMsg()
			if err != nil {
				t.Fatalf("cannot get transaction message: %s", err)
			}
			msg := txmsg.(*sluice.UpdateThresholdMsg)
			assert.Equal(t, tc.want, msg.Threshold)
		})
	}
}

func TestCmdUpdatePartiesHappyPath(t *testing.T) {
	var output bytes.Buffer
	args := []string{
		"-source", "68b2b8a0a4b151d3e4e06ec4a441ebf4c8b7f1e4",
		"-destination", "d34c1970ae90acf3405f2d99dcaca16d0c7db379",
	}
	if err := cmdUpdateParties(nil, &output, args); err != nil {
		t.Fatalf("cannot create a new parties update transaction: %s", err)
	}

	tx, _, err := readTx(&output)
	if err != nil {
		t.Fatalf("cannot unmarshal created transaction: %s", err)
	}

	txmsg, err := tx.GetMsg()
	if err != nil {
		t.Fatalf("cannot get transaction message: %s", err)
	}
	msg := txmsg.(*sluice.UpdatePartiesMsg)

	assert.Equal(t, fromHex(t, "68b2b8a0a4b151d3e4e06ec4a441ebf4c8b7f1e4"), []byte(msg.Source))
	assert.Equal(t, fromHex(t, "d34c1970ae90acf3405f2d99dcaca16d0c7db379"), []byte(msg.Destination))
}
