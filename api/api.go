// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/akki2825/huobi-chain/api/blocks"
	"github.com/akki2825/huobi-chain/api/health"
	"github.com/akki2825/huobi-chain/api/services"
	"github.com/akki2825/huobi-chain/api/transactions"
	"github.com/akki2825/huobi-chain/log"
	"github.com/akki2825/huobi-chain/metrics"
	"github.com/akki2825/huobi-chain/runtime"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	EnableReqLogger bool
	SlowQueries     time.Duration
	EnableMetrics   bool
}

// New return api router
func New(rt *runtime.Runtime, opts Options) http.Handler {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	blocks.New(rt.Storage(), rt.Querier()).
		Mount(router, "/blocks")
	transactions.New(rt.Storage()).
		Mount(router, "/transactions")
	services.New(rt).
		Mount(router, "/services")
	health.New(rt.Health()).
		Mount(router, "/health")

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
		if h := metrics.HTTPHandler(); h != nil {
			router.Path("/metrics").Handler(h)
		}
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	if opts.EnableReqLogger {
		handler = requestLogger(logger, opts.SlowQueries)(handler)
	}
	return handler
}
