/*
Package sluice implements a threshold gated transfer extension.

A single configuration record, stored under an address derived from a fixed
seed, binds together a source account, a destination account and a minimum
transfer amount. Transfers are requested by the configured source and move
funds only when the amount reaches the threshold. The configuration
authority, fixed at creation time, can retune the threshold and rebind the
parties.

The configuration address is a pure function of the fixed seed, so any party
can compute it offline and read the record without authorization. Funds are
moved by the cash extension controller, never by this package's own
bookkeeping.
*/
package sluice
