package sluice

import (
	"testing"

	weave "github.com/iov-one/weave"
	coin "github.com/iov-one/weave/coin"
	"github.com/iov-one/weave/errors"
)

func TestCreateMsgValidate(t *testing.T) {
	var (
		aAddr = weave.Address("f427d624ed29c1fae0e2")
		bAddr = weave.Address("aa27d624ed29c1fae0e2")
	)

	cases := map[string]struct {
		msg     CreateMsg
		wantErr *errors.Error
	}{
		"valid message": {
			msg: CreateMsg{
				Metadata:    &weave.Metadata{Schema: 1},
				Source:      aAddr,
				Destination: bAddr,
				Threshold:   coin.NewCoin(1, 0, "SLC"),
			},
			wantErr: nil,
		},
		"metadata is required": {
			msg: CreateMsg{
				Source:      aAddr,
				Destination: bAddr,
				Threshold:   coin.NewCoin(1, 0, "SLC"),
			},
			wantErr: errors.ErrMetadata,
		},
		"source is required": {
			msg: CreateMsg{
				Metadata:    &weave.Metadata{Schema: 1},
				Destination: bAddr,
				Threshold:   coin.NewCoin(1, 0, "SLC"),
			},
			wantErr: errors.ErrEmpty,
		},
		"destination must be a valid address": {
			msg: CreateMsg{
				Metadata:    &weave.Metadata{Schema: 1},
				Source:      aAddr,
				Destination: []byte("zzz"),
				Threshold:   coin.NewCoin(1, 0, "SLC"),
			},
			wantErr: errors.ErrInput,
		},
		"threshold requires a currency": {
			msg: CreateMsg{
				Metadata:    &weave.Metadata{Schema: 1},
				Source:      aAddr,
				Destination: bAddr,
				Threshold:   coin.NewCoin(1, 0, ""),
			},
			wantErr: errors.ErrCurrency,
		},
		"threshold must not be negative": {
			msg: CreateMsg{
				Metadata:    &weave.Metadata{Schema: 1},
				Source:      aAddr,
				Destination: bAddr,
				Threshold:   coin.NewCoin(-1, 0, "SLC"),
			},
			wantErr: errors.ErrAmount,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.msg.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected validation error: %+v", err)
			}
		})
	}
}

func TestTransferMsgValidate(t *testing.T) {
	var (
		aAddr = weave.Address("f427d624ed29c1fae0e2")
		bAddr = weave.Address("aa27d624ed29c1fae0e2")
	)

	cases := map[string]struct {
		msg     TransferMsg
		wantErr *errors.Error
	}{
		"valid message": {
			msg: TransferMsg{
				Metadata:    &weave.Metadata{Schema: 1},
				Source:      aAddr,
				Destination: bAddr,
				Amount:      coin.NewCoin(1, 0, "SLC"),
			},
			wantErr: nil,
		},
		"metadata is required": {
			msg: TransferMsg{
				Source:      aAddr,
				Destination: bAddr,
				Amount:      coin.NewCoin(1, 0, "SLC"),
			},
			wantErr: errors.ErrMetadata,
		},
		"source is required": {
			msg: TransferMsg{
				Metadata:    &weave.Metadata{Schema: 1},
				Destination: bAddr,
				Amount:      coin.NewCoin(1, 0, "SLC"),
			},
			wantErr: errors.ErrEmpty,
		},
		"destination is required": {
			msg: TransferMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Source:   aAddr,
				Amount:   coin.NewCoin(1, 0, "SLC"),
			},
			wantErr: errors.ErrEmpty,
		},
		"zero amount is rejected": {
			msg: TransferMsg{
				Metadata:    &weave.Metadata{Schema: 1},
				Source:      aAddr,
				Destination: bAddr,
				Amount:      coin.NewCoin(0, 0, "SLC"),
			},
			wantErr: errors.ErrAmount,
		},
		"negative amount is rejected": {
			msg: TransferMsg{
				Metadata:    &weave.Metadata{Schema: 1},
				Source:      aAddr,
				Destination: bAddr,
				Amount:      coin.NewCoin(-2, 0, "SLC"),
			},
			wantErr: errors.ErrAmount,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.msg.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected validation error: %+v", err)
			}
		})
	}
}

func TestUpdateThresholdMsgValidate(t *testing.T) {
	cases := map[string]struct {
		msg     UpdateThresholdMsg
		wantErr *errors.Error
	}{
		"valid message": {
			msg: UpdateThresholdMsg{
				Metadata:  &weave.Metadata{Schema: 1},
				Threshold: coin.NewCoin(1, 0, "SLC"),
			},
			wantErr: nil,
		},
		"zero threshold is a valid value": {
			msg: UpdateThresholdMsg{
				Metadata:  &weave.Metadata{Schema: 1},
				Threshold: coin.NewCoin(0, 0, "SLC"),
			},
			wantErr: nil,
		},
		"metadata is required": {
			msg: UpdateThresholdMsg{
				Threshold: coin.NewCoin(1, 0, "SLC"),
			},
			wantErr: errors.ErrMetadata,
		},
		"threshold requires a currency": {
			msg: UpdateThresholdMsg{
				Metadata:  &weave.Metadata{Schema: 1},
				Threshold: coin.NewCoin(1, 0, ""),
			},
			wantErr: errors.ErrCurrency,
		},
		"negative threshold is rejected": {
			msg: UpdateThresholdMsg{
				Metadata:  &weave.Metadata{Schema: 1},
				Threshold: coin.NewCoin(-1, 0, "SLC"),
			},
			wantErr: errors.ErrAmount,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.msg.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected validation error: %+v", err)
			}
		})
	}
}

func TestUpdatePartiesMsgValidate(t *testing.T) {
	var (
		aAddr = weave.Address("f427d624ed29c1fae0e2")
		bAddr = weave.Address("aa27d624ed29c1fae0e2")
	)

	cases := map[string]struct {
		msg     UpdatePartiesMsg
		wantErr *errors.Error
	}{
		"valid message": {
			msg: UpdatePartiesMsg{
				Metadata:    &weave.Metadata{Schema: 1},
				Source:      aAddr,
				Destination: bAddr,
			},
			wantErr: nil,
		},
		"metadata is required": {
			msg: UpdatePartiesMsg{
				Source:      aAddr,
				Destination: bAddr,
			},
			wantErr: errors.ErrMetadata,
		},
		"source is required": {
			msg: UpdatePartiesMsg{
				Metadata:    &weave.Metadata{Schema: 1},
				Destination: bAddr,
			},
			wantErr: errors.ErrEmpty,
		},
		"source must be a valid address": {
			msg: UpdatePartiesMsg{
				Metadata:    &weave.Metadata{Schema: 1},
				Source:      []byte("zzz"),
				Destination: bAddr,
			},
			wantErr: errors.ErrInput,
		},
		"destination is required": {
			msg: UpdatePartiesMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Source:   aAddr,
			},
			wantErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.msg.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected validation error: %+v", err)
			}
		})
	}
}
