package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/sluice/cmd/sluiced/client"
	"github.com/iov-one/sluice/x/sluice"
	"github.com/iov-one/weave"
)

func cmdSubmitTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read binary serialized transaction from standard input and submit it.

For certain transactions response is written out, for example creating a gate
prints out the address that the gate configuration is stored under.

Make sure to collect enough signatures before submitting the transaction.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", env("SLUICECLI_TM_ADDR", "http://localhost:26657"),
			"Tendermint node address. You can use SLUICECLI_TM_ADDR environment variable to set it.")
	)
	fl.Parse(args)

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction from input: %s", err)
	}

	sluiceClient := client.NewClient(client.NewHTTPConnection(*tmAddrFl))

	resp := sluiceClient.BroadcastTx(tx)
	if err := resp.IsError(); err != nil {
		return fmt.Errorf("cannot broadcast transaction: %s", err)
	}

	response, err := extractResponse(tx, resp.Response.DeliverTx.Data, formatters)
	if err != nil {
		return fmt.Errorf("cannot extract response: %s", err)
	}
	if response != "" {
		fmt.Fprintln(output, response)
	}
	return nil
}

// extractResponse parse given raw response data bytes according to what is
// expected considering the submitted transaction. It returns a human readable
// representation of given response. It can return no data (and no error) if
// response does not contain anything worth showing to the user or response is
// not supported.
func extractResponse(tx weave.Tx, respData []byte, fmts map[string]func([]byte) (string, error)) (string, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return "", fmt.Errorf("cannot extract message from transaction: %s", err)
	}
	format, ok := fmts[msg.Path()]
	if !ok {
		// If no formatter is registered, we do not print the result.
		return "", nil
	}
	pretty, err := format(respData)
	if err != nil {
		return "", fmt.Errorf("cannot format result data %x: %s", respData, err)
	}
	return pretty, nil
}

// formatters contains a mapping of a message path to response parser. Response
// parse function accepts a raw bytes of serialized response and must return a
// human representation of that data.
//
// Do not register a message if you want response returned after its submission
// to be ignored (not printed to the user).
var formatters = map[string]func([]byte) (string, error){
	sluice.CreateMsg{}.Path(): fmtAddress,
}

func fmtAddress(raw []byte) (string, error) {
	addr := weave.Address(raw)
	if err := addr.Validate(); err != nil {
		return "", fmt.Errorf("cannot parse address: %s", err)
	}
	return addr.String(), nil
}
