// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Command src20tx builds unsigned SRC-20 transactions.
//
// Example usage:
//
//	src20tx --network testnet3 --snapshot state.json mint --tick KEVIN --amt 1000 \
//	  --to tb1q... --change tb1q... --fee-rate 10
//	src20tx --rpc-host localhost:18332 --rpc-user u --rpc-password p deploy --tick KEVIN --max 21000000 --lim 1000 ...
//	src20tx decode <psbt hex or base64>
package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"

	"github.com/btcsuite/btclog"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"stamps/bitcoin"
	"stamps/bitcoin/chaindata"
	"stamps/bitcoin/src20"
	"stamps/bitcoin/src20/encoder"
)

type deployCommand struct {
	requestOptions
	Tick string `long:"tick" required:"true"`
	Max  string `long:"max" required:"true" description:"max supply"`
	Lim  string `long:"lim" required:"true" description:"limit per mint"`
	Dec  uint8  `long:"dec" default:"18" description:"decimals"`
}

// Execute implements flags.Commander.
func (c *deployCommand) Execute([]string) error {
	return run(src20.Deploy{Tick: c.Tick, Max: c.Max, Lim: c.Lim, Dec: c.Dec}, c.requestOptions)
}

type mintCommand struct {
	requestOptions
	Tick   string `long:"tick" required:"true"`
	Amount string `long:"amt" required:"true"`
}

// Execute implements flags.Commander.
func (c *mintCommand) Execute([]string) error {
	return run(src20.Mint{Tick: c.Tick, Amount: c.Amount}, c.requestOptions)
}

type transferCommand struct {
	requestOptions
	Tick   string `long:"tick" required:"true"`
	Amount string `long:"amt" required:"true"`
}

// Execute implements flags.Commander.
func (c *transferCommand) Execute([]string) error {
	return run(src20.Transfer{Tick: c.Tick, Amount: c.Amount}, c.requestOptions)
}

type decodeCommand struct {
	Args struct {
		PSBT string `positional-arg-name:"psbt" required:"true"`
	} `positional-args:"true"`
}

// Execute implements flags.Commander.
func (c *decodeCommand) Execute([]string) error {
	op, err := src20.DecodePSBT(c.Args.PSBT)
	if err != nil {
		return err
	}

	return printJSON(struct {
		Type      src20.OpType    `json:"type"`
		Operation src20.Operation `json:"operation"`
	}{op.Type(), op})
}

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	commands := []struct {
		name, description string
		data              any
	}{
		{"deploy", "build token deploy transaction", &deployCommand{}},
		{"mint", "build token mint transaction", &mintCommand{}},
		{"transfer", "build token transfer transaction", &transferCommand{}},
		{"decode", "decode operation from transaction template", &decodeCommand{}},
	}
	for _, command := range commands {
		if _, err := parser.AddCommand(command.name, command.description, "", command.data); err != nil {
			panic(err)
		}
	}

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}

		os.Exit(1)
	}
}

// run builds template or fee plan of the operation and prints it.
func run(op src20.Operation, request requestOptions) (err error) {
	logger, err := newLogger(opts.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	config, err := opts.encoderConfig()
	if err != nil {
		return err
	}

	chain, states, shutdown, err := providers(config, logger)
	if err != nil {
		return err
	}
	defer shutdown()

	e, err := encoder.New(chain, states, states, encoder.WithLogger(logger), encoder.WithConfig(config))
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	encoderRequest := encoder.Request{ToAddress: request.To, ChangeAddress: request.Change, FeeRate: request.FeeRate}
	if request.DryRun {
		plan, err := e.Estimate(ctx, op, encoderRequest)
		if err != nil {
			return err
		}

		return printJSON(plan)
	}

	template, err := e.Encode(ctx, op, encoderRequest)
	if err != nil {
		return err
	}

	return printJSON(struct {
		Hex          string `json:"psbt"`
		Base64       string `json:"psbtBase64"`
		InputsToSign []int  `json:"inputsToSign"`
		VSize        int64  `json:"estimatedVSize"`
		Fee          int64  `json:"minerFee"`
		Change       int64  `json:"change"`
	}{
		Hex:          template.Hex,
		Base64:       template.Base64,
		InputsToSign: template.InputsToSign,
		VSize:        template.Plan.EstimatedVSize,
		Fee:          int64(template.Plan.MinerFee),
		Change:       int64(template.Plan.Change),
	})
}

// providers returns chain data provider and token states.
// Chain data comes from the node if its host is set, otherwise from the snapshot.
func providers(config encoder.Config, logger *zap.Logger) (bitcoin.ChainDataProvider, *chaindata.Snapshot, func(), error) {
	snapshot := chaindata.NewSnapshot()
	if opts.Snapshot != "" {
		var err error
		snapshot, err = chaindata.LoadSnapshot(opts.Snapshot)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	if opts.Node.Host == "" {
		logger.Debug("using snapshot chain data", zap.String("path", opts.Snapshot))
		return snapshot, snapshot, func() {}, nil
	}

	if opts.Debug {
		rpcLogger := btclog.NewBackend(os.Stderr).Logger("RPCC")
		rpcLogger.SetLevel(btclog.LevelDebug)
		rpcclient.UseLogger(rpcLogger)
	}

	client, err := chaindata.DialRPC(opts.Node)
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Debug("using node chain data", zap.String("host", opts.Node.Host))

	return chaindata.NewRPCProvider(client, config.Network), snapshot, client.Shutdown, nil
}

// newLogger returns development logger in debug mode and production logger otherwise.
func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}

	return zap.NewProduction()
}

// printJSON writes value to stdout as indented JSON.
func printJSON(value any) error {
	output := json.NewEncoder(os.Stdout)
	output.SetIndent("", "  ")

	return output.Encode(value)
}
