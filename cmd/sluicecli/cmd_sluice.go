package main

import (
	"flag"
	"fmt"
	"io"

	sluiced "github.com/iov-one/sluice/cmd/sluiced/app"
	"github.com/iov-one/sluice/x/sluice"
	"github.com/iov-one/weave"
)

func cmdCreateGate(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Create a transaction for initializing the gate. The main signer of this
transaction becomes the gate authority.
		`)
		fl.PrintDefaults()
	}
	var (
		sourceFl      = flAddress(fl, "source", "", "Address of the account that gated transfers are released from.")
		destinationFl = flAddress(fl, "destination", "", "Address of the account that gated transfers are released to.")
		thresholdFl   = flCoin(fl, "threshold", "0.1 SLC", "Minimal amount that a single transfer must carry to pass the gate.")
	)
	fl.Parse(args)

	tx := &sluiced.Tx{
		Sum: &sluiced.Tx_SluiceCreateMsg{
			SluiceCreateMsg: &sluice.CreateMsg{
				Metadata:    &weave.Metadata{Schema: 1},
				Source:      *sourceFl,
				Destination: *destinationFl,
				Threshold:   *thresholdFl,
			},
		},
	}
	_, err := writeTx(output, tx)
	return err
}

func cmdTransfer(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Create a transaction for releasing funds through the gate. Source and
destination must be the same accounts that the gate was configured with and the
transaction must be signed by the source account.
		`)
		fl.PrintDefaults()
	}
	var (
		sourceFl      = flAddress(fl, "source", "", "Address of the account that the funds are released from.")
		destinationFl = flAddress(fl, "destination", "", "Address of the account that the funds are released to.")
		amountFl      = flCoin(fl, "amount", "", "An amount that is to be released. Must not be below the gate threshold.")
	)
	fl.Parse(args)

	tx := &sluiced.Tx{
		Sum: &sluiced.Tx_SluiceTransferMsg{
			SluiceTransferMsg: &sluice.TransferMsg{
				Metadata:    &weave.Metadata{Schema: 1},
				Source:      *sourceFl,
				Destination: *destinationFl,
				Amount:      *amountFl,
			},
		},
	}
	_, err := writeTx(output, tx)
	return err
}

func cmdUpdateThreshold(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Create a transaction for setting a new gate threshold. Only the gate authority
is allowed to submit this transaction.
		`)
		fl.PrintDefaults()
	}
	var (
		thresholdFl = flCoin(fl, "threshold", "", "New threshold value. Use a zero value (for example \"0 SLC\") to let any positive amount pass the gate.")
	)
	fl.Parse(args)

	tx := &sluiced.Tx{
		Sum: &sluiced.Tx_SluiceUpdateThresholdMsg{
			SluiceUpdateThresholdMsg: &sluice.UpdateThresholdMsg{
				Metadata:  &weave.Metadata{Schema: 1},
				Threshold: *thresholdFl,
			},
		},
	}
	_, err := writeTx(output, tx)
	return err
}

func cmdUpdateParties(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Create a transaction for binding the gate to a new source and destination
account pair. Only the gate authority is allowed to submit this transaction.
		`)
		fl.PrintDefaults()
	}
	var (
		sourceFl      = flAddress(fl, "source", "", "Address of the new source account.")
		destinationFl = flAddress(fl, "destination", "", "Address of the new destination account.")
	)
	fl.Parse(args)

	tx := &sluiced.Tx{
		Sum: &sluiced.Tx_SluiceUpdatePartiesMsg{
			SluiceUpdatePartiesMsg: &sluice.UpdatePartiesMsg{
				Metadata:    &weave.Metadata{Schema: 1},
				Source:      *sourceFl,
				Destination: *destinationFl,
			},
		},
	}
	_, err := writeTx(output, tx)
	return err
}
