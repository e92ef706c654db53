/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"

	"ton-faucet-go/internal/api"
	"ton-faucet-go/internal/common"
	"ton-faucet-go/internal/config"

	"go.uber.org/zap"
)

func main() {
	jettonFile := flag.String("jetton", "", "Optional path to jetton.yaml describing the distributed token (default: JETTON_FILE env)")
	flag.Parse()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}
	if *jettonFile != "" {
		cfg.Faucet.JettonFile = *jettonFile
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zap.L().Info("Starting TON faucet service")

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	handler := api.NewHandler(services.FaucetService)
	server := &http.Server{
		Addr:    cfg.Server.ListenAddr,
		Handler: api.NewRouter(handler),
	}

	go func() {
		zap.L().Info("HTTP front-end listening", zap.String("addr", cfg.Server.ListenAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zap.L().Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Graceful shutdown failed", zap.Error(err))
	}

	zap.L().Info("Faucet service stopped")
}
