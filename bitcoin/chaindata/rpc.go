// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package chaindata

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"

	"stamps/bitcoin"
	"stamps/bitcoin/utils"
)

const (
	// defaultMinConfirmations includes unconfirmed outputs into listunspent results.
	defaultMinConfirmations = 0
	// defaultMaxConfirmations defines listunspent upper bound used by bitcoind by default.
	defaultMaxConfirmations = 9999999
)

// NodeClient is the subset of bitcoin node JSON-RPC used by RPCProvider, implemented by *rpcclient.Client.
type NodeClient interface {
	ListUnspentMinMaxAddresses(minConf, maxConf int, addrs []btcutil.Address) ([]btcjson.ListUnspentResult, error)
	GetRawTransactionVerbose(txHash *chainhash.Hash) (*btcjson.TxRawResult, error)
}

var _ NodeClient = (*rpcclient.Client)(nil)

// RPCConfig describes bitcoin node connection.
type RPCConfig struct {
	Host       string `long:"rpc-host" env:"RPC_HOST" description:"bitcoin node JSON-RPC host:port"`
	User       string `long:"rpc-user" env:"RPC_USER" description:"JSON-RPC user"`
	Password   string `long:"rpc-password" env:"RPC_PASSWORD" description:"JSON-RPC password"`
	DisableTLS bool   `long:"rpc-disable-tls" description:"connect over plain HTTP"`
}

// RPCProvider provides chain data from bitcoin node over JSON-RPC.
type RPCProvider struct {
	client NodeClient
	params *chaincfg.Params
}

var _ bitcoin.ChainDataProvider = (*RPCProvider)(nil)

// NewRPCProvider is a constructor for RPCProvider.
func NewRPCProvider(client NodeClient, params *chaincfg.Params) *RPCProvider {
	return &RPCProvider{client: client, params: params}
}

// DialRPC connects to bitcoin node in HTTP POST mode. Returned client must be shut down by caller.
func DialRPC(config RPCConfig) (*rpcclient.Client, error) {
	client, err := rpcclient.New(&rpcclient.ConnConfig{
		Host:         config.Host,
		User:         config.User,
		Pass:         config.Password,
		HTTPPostMode: true,
		DisableTLS:   config.DisableTLS,
	}, nil)
	if err != nil {
		return nil, errors.Join(bitcoin.ErrChainData, err)
	}

	return client, nil
}

// Utxos returns unspent outputs locked to the address.
func (p *RPCProvider) Utxos(ctx context.Context, address string) ([]bitcoin.UTXO, error) {
	decoded, err := utils.DecodeAddress(address, p.params)
	if err != nil {
		return nil, err
	}

	unspent, err := await(ctx, func() ([]btcjson.ListUnspentResult, error) {
		return p.client.ListUnspentMinMaxAddresses(defaultMinConfirmations, defaultMaxConfirmations, []btcutil.Address{decoded})
	})
	if err != nil {
		return nil, errors.Join(bitcoin.ErrChainData, fmt.Errorf("listunspent %s: %w", address, err))
	}

	utxos := make([]bitcoin.UTXO, 0, len(unspent))
	for _, result := range unspent {
		amount, err := btcutil.NewAmount(result.Amount)
		if err != nil {
			return nil, errors.Join(bitcoin.ErrChainData, fmt.Errorf("utxo %s:%d amount: %w", result.TxID, result.Vout, err))
		}

		script, err := hex.DecodeString(result.ScriptPubKey)
		if err != nil {
			return nil, errors.Join(bitcoin.ErrChainData, fmt.Errorf("utxo %s:%d script: %w", result.TxID, result.Vout, err))
		}

		utxos = append(utxos, bitcoin.UTXO{
			TxHash:        result.TxID,
			Index:         result.Vout,
			Amount:        amount,
			Script:        script,
			Address:       result.Address,
			Confirmations: result.Confirmations,
		})
	}

	return utxos, nil
}

// TransactionDetails returns outputs and raw bytes of the transaction.
func (p *RPCProvider) TransactionDetails(ctx context.Context, txID string) (*bitcoin.TransactionDetails, error) {
	hash, err := chainhash.NewHashFromStr(txID)
	if err != nil {
		return nil, errors.Join(bitcoin.ErrValidation, fmt.Errorf("txid %q: %w", txID, err))
	}

	result, err := await(ctx, func() (*btcjson.TxRawResult, error) {
		return p.client.GetRawTransactionVerbose(hash)
	})
	if err != nil {
		return nil, errors.Join(bitcoin.ErrChainData, fmt.Errorf("getrawtransaction %s: %w", txID, err))
	}

	raw, err := hex.DecodeString(result.Hex)
	if err != nil {
		return nil, errors.Join(bitcoin.ErrChainData, fmt.Errorf("transaction %s hex: %w", txID, err))
	}

	details := &bitcoin.TransactionDetails{
		Outputs: make([]bitcoin.TxOutput, len(result.Vout)),
		Raw:     raw,
	}
	for _, vout := range result.Vout {
		if int(vout.N) >= len(details.Outputs) {
			return nil, errors.Join(bitcoin.ErrChainData, fmt.Errorf("transaction %s output index %d out of range", txID, vout.N))
		}

		value, err := btcutil.NewAmount(vout.Value)
		if err != nil {
			return nil, errors.Join(bitcoin.ErrChainData, fmt.Errorf("transaction %s output %d value: %w", txID, vout.N, err))
		}

		script, err := hex.DecodeString(vout.ScriptPubKey.Hex)
		if err != nil {
			return nil, errors.Join(bitcoin.ErrChainData, fmt.Errorf("transaction %s output %d script: %w", txID, vout.N, err))
		}

		details.Outputs[vout.N] = bitcoin.TxOutput{Value: value, Script: script, ScriptType: vout.ScriptPubKey.Type}
	}

	return details, nil
}

// await runs blocking node call and returns early when ctx is done.
func await[T any](ctx context.Context, call func() (T, error)) (T, error) {
	type result struct {
		value T
		err   error
	}

	done := make(chan result, 1)
	go func() {
		value, err := call()
		done <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		return *new(T), ctx.Err()
	case r := <-done:
		return r.value, r.err
	}
}
