package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/iov-one/sluice/cmd/sluiced/client"
	"github.com/iov-one/sluice/x/sluice"
	"github.com/iov-one/weave"
	"github.com/iov-one/weave/x/cash"
	"github.com/iov-one/weave/x/sigs"
)

func cmdQuery(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Execute a ABCI query and print JSON encoded result.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", env("SLUICECLI_TM_ADDR", "http://localhost:26657"),
			"Tendermint node address. You can use SLUICECLI_TM_ADDR environment variable to set it.")
		pathFl        = fl.String("path", "", "Path to be queried. Must be one of the supported.")
		dataFl        = fl.String("data", "", "individual query data. Hex encoded address of the queried entity.")
		prefixQueryFl = fl.Bool("prefix", false, "If true, use prefix queries instead of the exact match with provided data.")
	)
	fl.Parse(args)

	conf, ok := queries[*pathFl]
	if !ok {
		var paths []string
		for p := range queries {
			paths = append(paths, p)
		}
		return fmt.Errorf("available query paths:\n\t- %s", strings.Join(paths, "\n\t- "))
	}

	var data []byte
	if len(*dataFl) != 0 {
		var err error
		if data, err = conf.encID(*dataFl); err != nil {
			return fmt.Errorf("can not encode data: %s", err)
		}
	}
	queryPath := *pathFl
	if *prefixQueryFl || *dataFl == "" {
		queryPath += "?" + weave.PrefixQueryMod
	}

	sluiceClient := client.NewClient(client.NewHTTPConnection(*tmAddrFl))
	resp, err := sluiceClient.AbciQuery(queryPath, data)
	if err != nil {
		return fmt.Errorf("failed to run query: %s", err)
	}

	result := make([]keyval, 0, len(resp.Models))
	for i, m := range resp.Models {
		obj := conf.newObj()
		if err := obj.Unmarshal(m.Value); err != nil {
			return fmt.Errorf("failed to unmarshal model %d: %s", i, err)
		}
		key, err := conf.decKey(m.Key)
		if err != nil {
			return fmt.Errorf("cannot decode %x key: %s", m.Key, err)
		}
		result = append(result, keyval{Key: key, Value: obj})
	}
	pretty, err := json.MarshalIndent(result, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot JSON serialize: %s", err)
	}
	_, err = output.Write(pretty)
	return err
}

type keyval struct {
	Key   string
	Value model
}

// queries contains a mapping of query path to that query specifics. Each query
// returns a custom model type. All entities served by this application are
// stored under an address key.
var queries = map[string]struct {
	// newObj returns a new instance of the model that the result of the
	// ABCI query should be extracted into.
	newObj func() model
	// decKey is used to decode key value returned by the ABCI query and
	// transform it into human readable form.
	decKey func([]byte) (string, error)
	// encID is used to parse input format of the ID and encode it into
	// form that will be passed to the ABCI query.
	encID func(string) ([]byte, error)
}{
	"/auth": {
		newObj: func() model { return &sigs.UserData{} },
		decKey: rawKey,
		encID:  addressID,
	},
	"/sluices": {
		newObj: func() model { return &sluice.Config{} },
		decKey: rawKey,
		encID:  addressID,
	},
	"/wallets": {
		newObj: func() model { return &cash.Set{} },
		decKey: rawKey,
		encID:  addressID,
	},
}

// model is an entity used by weave to store data. This interface is
// implemented by any protobuf message.
type model interface {
	Unmarshal([]byte) error
}

func addressID(s string) ([]byte, error) {
	return weave.ParseAddress(s)
}

func rawKey(raw []byte) (string, error) {
	return hex.EncodeToString(raw), nil
}
