// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package chaindata

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"

	"stamps/bitcoin"
	"stamps/bitcoin/src20"
	"stamps/bitcoin/txbuilder"
)

// ErrTransactionNotFound defines transaction unknown to the snapshot.
var ErrTransactionNotFound = errors.New("transaction not found")

// SnapshotUTXO describes unspent output in snapshot file.
type SnapshotUTXO struct {
	TxID          string `json:"txid"`
	Vout          uint32 `json:"vout"`
	Value         int64  `json:"value"`            // in Satoshi.
	Script        string `json:"script,omitempty"` // hex encoded, optional.
	Confirmations int64  `json:"confirmations,omitempty"`
}

// SnapshotFile describes JSON layout of the snapshot.
type SnapshotFile struct {
	UTXOs        map[string][]SnapshotUTXO      `json:"utxos"`        // by address.
	Transactions map[string]string              `json:"transactions"` // raw hex by txid.
	Tokens       map[string]*src20.MintProgress `json:"tokens"`       // by tick.
}

// Snapshot provides chain data and token states held in memory.
// Every method is safe for concurrent use.
type Snapshot struct {
	mu           sync.RWMutex
	utxos        map[string][]bitcoin.UTXO
	transactions map[string]*wire.MsgTx
	tokens       map[string]src20.MintProgress
}

var (
	_ bitcoin.ChainDataProvider  = (*Snapshot)(nil)
	_ src20.MintStatusProvider   = (*Snapshot)(nil)
	_ src20.DeployStatusProvider = (*Snapshot)(nil)
)

// NewSnapshot is a constructor for empty Snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		utxos:        make(map[string][]bitcoin.UTXO),
		transactions: make(map[string]*wire.MsgTx),
		tokens:       make(map[string]src20.MintProgress),
	}
}

// LoadSnapshot reads snapshot from JSON file.
func LoadSnapshot(path string) (*Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	return ReadSnapshot(file)
}

// ReadSnapshot decodes snapshot JSON.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	var file SnapshotFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	s := NewSnapshot()
	for txID, rawHex := range file.Transactions {
		raw, err := hex.DecodeString(rawHex)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", txID, err)
		}

		tx := new(wire.MsgTx)
		if err = tx.Deserialize(bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("transaction %s: %w", txID, err)
		}

		if hash := tx.TxHash(); hash.String() != txID {
			return nil, fmt.Errorf("transaction %s has hash %s", txID, hash)
		}

		s.AddTransaction(tx)
	}

	for address, utxos := range file.UTXOs {
		for _, utxo := range utxos {
			script, err := hex.DecodeString(utxo.Script)
			if err != nil {
				return nil, fmt.Errorf("utxo %s:%d script: %w", utxo.TxID, utxo.Vout, err)
			}

			s.AddUTXO(bitcoin.UTXO{
				TxHash:        utxo.TxID,
				Index:         utxo.Vout,
				Amount:        btcutil.Amount(utxo.Value),
				Script:        script,
				Address:       address,
				Confirmations: utxo.Confirmations,
			})
		}
	}

	for tick, progress := range file.Tokens {
		if progress == nil {
			return nil, fmt.Errorf("token %q has no state", tick)
		}

		s.SetToken(tick, *progress)
	}

	return s, nil
}

// AddUTXO adds unspent output of utxo.Address.
func (s *Snapshot) AddUTXO(utxo bitcoin.UTXO) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.utxos[utxo.Address] = append(s.utxos[utxo.Address], utxo)
}

// AddTransaction adds transaction, its outputs become available for TransactionDetails.
func (s *Snapshot) AddTransaction(tx *wire.MsgTx) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transactions[tx.TxHash().String()] = tx
}

// SetToken sets deployed token state.
func (s *Snapshot) SetToken(tick string, progress src20.MintProgress) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[tick] = progress
}

// Utxos returns unspent outputs locked to the address.
func (s *Snapshot) Utxos(_ context.Context, address string) ([]bitcoin.UTXO, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	utxos := make([]bitcoin.UTXO, len(s.utxos[address]))
	copy(utxos, s.utxos[address])

	return utxos, nil
}

// TransactionDetails returns outputs and raw bytes of the transaction.
func (s *Snapshot) TransactionDetails(_ context.Context, txID string) (*bitcoin.TransactionDetails, error) {
	s.mu.RLock()
	tx, ok := s.transactions[txID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTransactionNotFound, txID)
	}

	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		return nil, err
	}

	details := &bitcoin.TransactionDetails{
		Outputs: make([]bitcoin.TxOutput, 0, len(tx.TxOut)),
		Raw:     buf.Bytes(),
	}
	for _, output := range tx.TxOut {
		details.Outputs = append(details.Outputs, bitcoin.TxOutput{
			Value:      btcutil.Amount(output.Value),
			Script:     output.PkScript,
			ScriptType: txbuilder.ScriptType(output.PkScript),
		})
	}

	return details, nil
}

// MintProgress returns supply state of the tick.
func (s *Snapshot) MintProgress(_ context.Context, tick string) (*src20.MintProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	progress, ok := s.tokens[tick]
	if !ok {
		return nil, fmt.Errorf("%w: %q", src20.ErrTokenNotFound, tick)
	}

	return &progress, nil
}

// IsDeployed returns true if tick has a state.
func (s *Snapshot) IsDeployed(_ context.Context, tick string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.tokens[tick]
	return ok, nil
}
