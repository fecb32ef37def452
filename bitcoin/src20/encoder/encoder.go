// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Package encoder turns SRC-20 operations into unsigned transaction templates
// carrying the operation in bare multisig outputs.
package encoder

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/wire"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"stamps/bitcoin"
	"stamps/bitcoin/src20"
	"stamps/bitcoin/src20/keystream"
	"stamps/bitcoin/txbuilder"
	"stamps/bitcoin/utils"
)

// Request describes transaction parties and fee rate.
// Funding utxo is taken from ChangeAddress.
type Request struct {
	ToAddress     string
	ChangeAddress string
	FeeRate       float64 // in satoshi per virtual byte.
}

// Opt is for configuring Encoder.
type Opt func(e *Encoder)

// WithLogger sets logger.
func WithLogger(logger *zap.Logger) Opt {
	return func(e *Encoder) {
		e.logger = logger
	}
}

// WithConfig sets encoder parameters.
func WithConfig(config Config) Opt {
	return func(e *Encoder) {
		e.config = config
	}
}

// WithRandom sets source of randomness used for data public keys, called once per request.
func WithRandom(random func() io.Reader) Opt {
	return func(e *Encoder) {
		e.random = random
	}
}

// Encoder builds SRC-20 transaction templates. It holds no per request state
// and is safe for concurrent use if its providers are.
type Encoder struct {
	logger  *zap.Logger
	config  Config
	random  func() io.Reader
	chain   bitcoin.ChainDataProvider
	mints   src20.MintStatusProvider
	deploys src20.DeployStatusProvider
	builder *txbuilder.TxBuilder
}

// New is a constructor for Encoder.
func New(chain bitcoin.ChainDataProvider, mints src20.MintStatusProvider, deploys src20.DeployStatusProvider, opts ...Opt) (*Encoder, error) {
	switch {
	case chain == nil:
		return nil, fmt.Errorf("%w: chain data provider is not set", ErrInvalidConfig)
	case mints == nil:
		return nil, fmt.Errorf("%w: mint status provider is not set", ErrInvalidConfig)
	case deploys == nil:
		return nil, fmt.Errorf("%w: deploy status provider is not set", ErrInvalidConfig)
	}

	e := &Encoder{
		logger:  zap.NewNop(),
		config:  DefaultConfig(),
		random:  func() io.Reader { return rand.Reader },
		chain:   chain,
		mints:   mints,
		deploys: deploys,
		builder: txbuilder.NewTxBuilder(chain),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.config.Validate(); err != nil {
		return nil, err
	}

	return e, nil
}

// prepared holds data computed before funding input is known.
type prepared struct {
	payload      []byte
	recipient    *wire.TxOut
	changeScript []byte
	plan         *txbuilder.FeePlan
}

// EncodeDeploy builds template deploying a new token.
func (e *Encoder) EncodeDeploy(ctx context.Context, op src20.Deploy, request Request) (*txbuilder.Template, error) {
	return e.Encode(ctx, op, request)
}

// EncodeMint builds template minting tokens to request.ToAddress.
func (e *Encoder) EncodeMint(ctx context.Context, op src20.Mint, request Request) (*txbuilder.Template, error) {
	return e.Encode(ctx, op, request)
}

// EncodeTransfer builds template transferring tokens to request.ToAddress.
func (e *Encoder) EncodeTransfer(ctx context.Context, op src20.Transfer, request Request) (*txbuilder.Template, error) {
	return e.Encode(ctx, op, request)
}

// Estimate returns fee plan of the operation without building transaction.
func (e *Encoder) Estimate(ctx context.Context, op src20.Operation, request Request) (*txbuilder.FeePlan, error) {
	p, err := e.prepare(ctx, op, request)
	if err != nil {
		return nil, err
	}

	return p.plan, nil
}

// Encode builds unsigned transaction template carrying the operation.
func (e *Encoder) Encode(ctx context.Context, op src20.Operation, request Request) (*txbuilder.Template, error) {
	p, err := e.prepare(ctx, op, request)
	if err != nil {
		return nil, err
	}

	logger := e.logger.With(zap.String("op", string(op.Type())), zap.String("tick", op.Ticker()))

	seed, err := keystream.SeedFromTxID(p.plan.Input.TxHash)
	if err != nil {
		return nil, errors.Join(bitcoin.ErrChainData, fmt.Errorf("funding utxo: %w", err))
	}

	masked, err := keystream.Mask(seed, p.payload)
	if err != nil {
		return nil, err
	}

	chunks, err := src20.Chunk(masked)
	if err != nil {
		return nil, err
	}

	rnd := e.random()
	outputs := make([]*wire.TxOut, 0, 1+len(chunks))
	outputs = append(outputs, p.recipient)
	for _, chunk := range chunks {
		output, err := utils.NewDataOutput(chunk[0], chunk[1], int64(e.config.DataOutputValue), rnd)
		if err != nil {
			return nil, err
		}

		outputs = append(outputs, output)
	}
	logger.Debug("data outputs encoded", zap.Int("outputs", len(chunks)))

	template, err := e.builder.BuildTemplate(ctx, txbuilder.TemplateParams{
		Plan:         *p.plan,
		Outputs:      outputs,
		ChangeScript: p.changeScript,
		Sequence:     e.config.Sequence,
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("template built",
		zap.String("txid", template.Packet.UnsignedTx.TxHash().String()),
		zap.Int("outputs", len(template.Packet.UnsignedTx.TxOut)),
	)

	return template, nil
}

// prepare validates request, checks token state, loads utxos and plans fee.
func (e *Encoder) prepare(ctx context.Context, op src20.Operation, request Request) (*prepared, error) {
	payload, err := src20.SerializeWithLimit(op, e.config.MaxDataOutputs)
	if err != nil {
		return nil, err
	}

	recipientScript, err := utils.AddressScript(request.ToAddress, e.config.Network)
	if err != nil {
		return nil, err
	}

	changeScript, err := utils.AddressScript(request.ChangeAddress, e.config.Network)
	if err != nil {
		return nil, err
	}

	satPerKVB, err := txbuilder.SatoshiPerKVByte(request.FeeRate)
	if err != nil {
		return nil, err
	}

	logger := e.logger.With(zap.String("op", string(op.Type())), zap.String("tick", op.Ticker()))
	logger.Debug("payload serialized", zap.Int("bytes", len(payload)), zap.Int64("satPerKVB", satPerKVB))

	recipient := wire.NewTxOut(int64(e.config.RecipientValue), recipientScript)

	var utxos []bitcoin.UTXO
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return src20.CheckRules(groupCtx, op, e.mints, e.deploys)
	})
	group.Go(func() (err error) {
		utxos, err = e.chain.Utxos(groupCtx, request.ChangeAddress)
		if err != nil && !errors.Is(err, bitcoin.ErrChainData) {
			err = errors.Join(bitcoin.ErrChainData, err)
		}

		return err
	})
	if err = group.Wait(); err != nil {
		logger.Debug("request rejected", zap.Error(err))
		return nil, err
	}

	plan, err := txbuilder.PrepareFeePlan(txbuilder.FeePlanParams{
		UTXOs:            utxos,
		Outputs:          []*wire.TxOut{recipient},
		DataOutputs:      len(payload) / src20.ChunkSize,
		DataOutputValue:  e.config.DataOutputValue,
		ChangeScript:     changeScript,
		FundingScript:    changeScript,
		SatoshiPerKVByte: satPerKVB,
	})
	if err != nil {
		logger.Debug("fee plan failed", zap.Int("utxos", len(utxos)), zap.Error(err))
		return nil, err
	}

	logger.Debug("fee plan prepared",
		zap.String("utxo", fmt.Sprintf("%s:%d", plan.Input.TxHash, plan.Input.Index)),
		zap.Int64("vsize", plan.EstimatedVSize),
		zap.Int64("fee", int64(plan.MinerFee)),
		zap.Int64("change", int64(plan.Change)),
	)

	return &prepared{
		payload:      payload,
		recipient:    recipient,
		changeScript: changeScript,
		plan:         plan,
	}, nil
}
