package client

import (
	sluiced "github.com/iov-one/sluice/cmd/sluiced/app"
	"github.com/iov-one/sluice/x/sluice"
	"github.com/iov-one/weave"
	"github.com/iov-one/weave/coin"
	"github.com/iov-one/weave/x/cash"
	"github.com/iov-one/weave/x/sigs"
)

// DefaultThreshold is the gate threshold applied when creating a gate
// configuration without an explicit one. It is a tenth of a token.
var DefaultThreshold = coin.NewCoin(0, 100000000, "SLC")

// GateConfigResponse is a response on a query for the gate configuration
type GateConfigResponse struct {
	Config sluice.Config
	Height int64
}

// GetGateConfig returns the gate configuration of the chain.
// If the gate was never created, it will return (nil, nil)
func (c *SluiceClient) GetGateConfig() (*GateConfigResponse, error) {
	resp, err := c.AbciQuery("/sluices", sluice.ConfigAddress())
	if err != nil {
		return nil, err
	}
	if len(resp.Models) == 0 { // empty list or nil
		return nil, nil
	}
	// assume only one result
	model := resp.Models[0]

	out := GateConfigResponse{
		Height: resp.Height,
	}
	err = out.Config.Unmarshal(model.Value)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Tx is all the interfaces we need rolled into one
type Tx interface {
	weave.Tx
	sigs.SignedTx
	AppendSignature(sig *sigs.StdSignature)
}

type gateTx struct {
	*sluiced.Tx
}

var _ Tx = gateTx{}

func (g gateTx) AppendSignature(sig *sigs.StdSignature) {
	g.Tx.Signatures = append(g.Tx.Signatures, sig)
}

// BuildCreateGateTx returns an unsigned tx to create the gate
// configuration. The signer of the transaction becomes the gate
// authority. A nil threshold is replaced with DefaultThreshold.
func BuildCreateGateTx(source, destination weave.Address, threshold *coin.Coin) gateTx {
	if threshold == nil {
		t := DefaultThreshold
		threshold = &t
	}
	return gateTx{&sluiced.Tx{
		Sum: &sluiced.Tx_SluiceCreateMsg{SluiceCreateMsg: &sluice.CreateMsg{
			Metadata:    &weave.Metadata{Schema: 1},
			Source:      source,
			Destination: destination,
			Threshold:   *threshold,
		}},
	}}
}

// BuildTransferTx returns an unsigned tx to move amount through the
// gate. It must be signed by the configured source.
func BuildTransferTx(source, destination weave.Address, amount coin.Coin) gateTx {
	return gateTx{&sluiced.Tx{
		Sum: &sluiced.Tx_SluiceTransferMsg{SluiceTransferMsg: &sluice.TransferMsg{
			Metadata:    &weave.Metadata{Schema: 1},
			Source:      source,
			Destination: destination,
			Amount:      amount,
		}},
	}}
}

// BuildUpdateThresholdTx returns an unsigned tx to replace the gate
// threshold. It must be signed by the gate authority.
func BuildUpdateThresholdTx(threshold coin.Coin) gateTx {
	return gateTx{&sluiced.Tx{
		Sum: &sluiced.Tx_SluiceUpdateThresholdMsg{SluiceUpdateThresholdMsg: &sluice.UpdateThresholdMsg{
			Metadata:  &weave.Metadata{Schema: 1},
			Threshold: threshold,
		}},
	}}
}

// BuildUpdatePartiesTx returns an unsigned tx to rebind the gate source
// and destination. It must be signed by the gate authority.
func BuildUpdatePartiesTx(source, destination weave.Address) gateTx {
	return gateTx{&sluiced.Tx{
		Sum: &sluiced.Tx_SluiceUpdatePartiesMsg{SluiceUpdatePartiesMsg: &sluice.UpdatePartiesMsg{
			Metadata:    &weave.Metadata{Schema: 1},
			Source:      source,
			Destination: destination,
		}},
	}}
}

// BuildSendTx returns an unsigned tx to move tokens around the gate,
// with no conditions attached.
func BuildSendTx(src, dest weave.Address, amount coin.Coin, memo string) gateTx {
	return gateTx{&sluiced.Tx{
		Sum: &sluiced.Tx_CashSendMsg{CashSendMsg: &cash.SendMsg{
			Metadata:    &weave.Metadata{Schema: 1},
			Source:      src,
			Destination: dest,
			Amount:      &amount,
			Memo:        memo,
		}},
	}}
}

// SignTx modifies the tx in-place, adding signatures
func SignTx(tx Tx, signer *PrivateKey, chainID string, nonce int64) error {
	sig, err := sigs.SignTx(signer, tx, chainID, nonce)
	if err != nil {
		return err
	}
	tx.AppendSignature(sig)
	return nil
}

// ParseTx will load a serialized tx into a format we can read
func ParseTx(data []byte) (*sluiced.Tx, error) {
	var tx sluiced.Tx
	err := tx.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}
