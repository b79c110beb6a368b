// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/akki2825/huobi-chain/api"
	"github.com/akki2825/huobi-chain/block"
	"github.com/akki2825/huobi-chain/consensus"
	"github.com/akki2825/huobi-chain/genesis"
	"github.com/akki2825/huobi-chain/log"
	"github.com/akki2825/huobi-chain/metrics"
	hcruntime "github.com/akki2825/huobi-chain/runtime"
	"github.com/akki2825/huobi-chain/storage"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version: fullVersion(),
		Name:    "Huobi",
		Usage:   "Node of Huobi Chain",
		Flags: []cli.Flag{
			dataDirFlag,
			dbEngineFlag,
			cacheFlag,
			verbosityFlag,
			jsonLogsFlag,
			timeoutGapFlag,
		},
		Before: func(ctx *cli.Context) error {
			initLogger(ctx)
			return nil
		},
		Commands: []cli.Command{
			{
				Name:   "init",
				Usage:  "initialize the chain with a genesis file",
				Flags:  []cli.Flag{genesisFlag},
				Action: initAction,
			},
			{
				Name:      "apply",
				Usage:     "sign and apply the blocks of a batch file",
				ArgsUsage: "<batch.yaml>",
				Action:    applyAction,
			},
			{
				Name:  "serve",
				Usage: "serve the query API",
				Flags: []cli.Flag{
					apiAddrFlag,
					apiCorsFlag,
					enableAPILogsFlag,
					enableMetricsFlag,
				},
				Action: serveAction,
			},
			{
				Name:   "wal",
				Usage:  "print the persisted consensus voting state",
				Action: walAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func initAction(ctx *cli.Context) error {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return fmt.Errorf("--%s required", genesisFlag.Name)
	}
	g, err := genesis.Load(path)
	if err != nil {
		return err
	}

	n, err := openNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close()

	b, err := n.rt.InitGenesis(context.Background(), g)
	if err != nil {
		return err
	}
	logger.Info("genesis initialized", "hash", b.Hash(), "state", b.Header().StateRoot())
	return nil
}

func applyAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("batch file required")
	}
	bat, key, err := loadBatch(ctx.Args().First())
	if err != nil {
		return err
	}

	n, err := openNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close()

	bg := context.Background()
	genesisBlock, err := n.storage.GetBlock(bg, 0)
	if err != nil {
		if storage.IsNotFound(err) {
			return hcruntime.ErrNoGenesis
		}
		return fmt.Errorf("load genesis block: %w", err)
	}
	chainID := genesisBlock.Header().ChainID()
	proposer := genesisBlock.Header().Proposer()

	for _, blk := range bat.Blocks {
		latest, err := n.storage.GetLatestBlock(bg)
		if err != nil {
			return err
		}
		height := latest.Header().Height() + 1
		txs, err := signTxs(key, chainID, height, blk.Txs)
		if err != nil {
			return err
		}
		b, receipts, err := n.rt.Apply(bg, &hcruntime.Proposal{
			Timestamp: blk.Timestamp,
			Proposer:  proposer,
			Txs:       txs,
		})
		if err != nil {
			return err
		}
		logger.Info("block applied", "height", height, "hash", b.Hash(), "txs", len(receipts), "cycles", b.Header().CyclesUsed())
		for _, r := range receipts {
			logger.Debug("receipt", "tx", r.TxHash, "call", r.Service+"."+r.Method, "code", r.Code, "data", string(r.Data))
		}
		if err := n.rt.CommitProof(bg, &block.Proof{Height: height, BlockHash: b.Hash()}); err != nil {
			return err
		}
	}
	return nil
}

func serveAction(ctx *cli.Context) error {
	n, err := openNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close()

	enableMetrics := ctx.Bool(enableMetricsFlag.Name)
	if enableMetrics {
		metrics.InitializePrometheusMetrics()
	}

	handler := api.New(n.rt, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   enableMetrics,
	})
	url, stop, err := startAPIServer(ctx.String(apiAddrFlag.Name), handler)
	if err != nil {
		return err
	}
	defer stop()
	logger.Info("API server started", "url", url)

	sig := <-handleExitSignal()
	logger.Info("exit signal received", "signal", sig)
	return nil
}

func walAction(ctx *cli.Context) error {
	n, err := openNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close()

	state, err := consensus.NewWAL(n.storage).Load(context.Background())
	if err != nil {
		return err
	}
	if state == nil {
		fmt.Println("no voting state persisted")
		return nil
	}
	fmt.Println(state.String())
	return nil
}
