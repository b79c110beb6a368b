// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/mattn/go-isatty"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/akki2825/huobi-chain/co"
	"github.com/akki2825/huobi-chain/dispatcher"
	"github.com/akki2825/huobi-chain/log"
	"github.com/akki2825/huobi-chain/muxdb"
	hcruntime "github.com/akki2825/huobi-chain/runtime"
	"github.com/akki2825/huobi-chain/services/kyc"
	"github.com/akki2825/huobi-chain/services/metadata"
	"github.com/akki2825/huobi-chain/storage"
)

func initLogger(ctx *cli.Context) {
	lvl := log.FromLegacyLevel(ctx.GlobalInt(verbosityFlag.Name))
	if ctx.GlobalBool(jsonLogsFlag.Name) {
		log.SetDefault(log.JSONHandlerWithLevel(os.Stderr, lvl))
		return
	}
	useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
	log.SetDefault(log.NewTerminalHandlerWithLevel(os.Stderr, lvl, useColor))
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.huobi.chain")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "org.huobi.chain")
		default:
			return filepath.Join(home, ".org.huobi.chain")
		}
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// newRegistry returns the services composed into the chain.
func newRegistry() *dispatcher.Registry {
	return dispatcher.NewRegistry().
		Register(metadata.Name, metadata.New).
		Register(kyc.Name, kyc.New)
}

// node holds the opened database and the runtime over it.
type node struct {
	db      *muxdb.MuxDB
	storage *storage.Storage
	rt      *hcruntime.Runtime
}

func openNode(ctx *cli.Context) (*node, error) {
	dataDir := ctx.GlobalString(dataDirFlag.Name)
	if dataDir == "" {
		return nil, fmt.Errorf("--%s required", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := muxdb.Open(filepath.Join(dataDir, "main.db"), &muxdb.Options{
		Engine:              ctx.GlobalString(dbEngineFlag.Name),
		TrieNodeCacheSizeMB: ctx.GlobalInt(cacheFlag.Name),
		CacheSizeMB:         64,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s, err := storage.New(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open storage: %w", err)
	}
	rt := hcruntime.New(db, s, newRegistry(), &hcruntime.Options{
		TimeoutGap: ctx.GlobalUint64(timeoutGapFlag.Name),
	})
	return &node{db, s, rt}, nil
}

func (n *node) Close() {
	n.storage.LogCacheStats()
	if err := n.db.Close(); err != nil {
		logger.Warn("failed to close database", "err", err)
	}
}

func handleExitSignal() <-chan os.Signal {
	exitSignalCh := make(chan os.Signal, 1)
	signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)
	return exitSignalCh
}

func startAPIServer(addr string, handler http.Handler) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("listen API addr [%v]: %w", addr, err)
	}
	srv := &http.Server{Handler: handler}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
		goes.Wait()
	}, nil
}
