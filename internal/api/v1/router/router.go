package router

import (
	"context"
	"net/http"
	"strings"
	"time"

	"coursechain/internal/api/v1/handler"
	"coursechain/internal/config"
	"coursechain/internal/contract"
	"coursechain/internal/ipfs"
	"coursechain/internal/middleware"
	"coursechain/internal/service"
	"coursechain/internal/wallet"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/go-playground/validator/v10"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// New wires the binder, publisher, gateway and service graph and returns the
// HTTP handler. The returned client must be closed on shutdown.
func New(cfg *config.Config, logger zerolog.Logger) (http.Handler, *ethclient.Client, error) {
	logger.Info().Str("environment", cfg.Environment).Msg("Router initialized")

	// 1. Connect to the RPC node
	eth, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		logger.Fatal().Msgf("Failed to connect to RPC node: %v", err)
		return nil, nil, err
	}
	logger.Info().Str("rpc", cfg.RPCURL).Msg("RPC connection established")

	// 2. Optional signer: without one the service runs read-only
	var signer *bind.TransactOpts
	var account *common.Address
	if cfg.SignerKey != "" {
		opts, addr, err := wallet.ParseSigner(cfg.SignerKey, cfg.ChainID)
		if err != nil {
			logger.Fatal().Msgf("Failed to parse signer key: %v", err)
			return nil, nil, err
		}
		signer = opts
		account = &addr
		logger.Info().Str("account", addr.Hex()).Msg("Signer configured")
	} else {
		logger.Warn().Msg("No signer key configured, running in read-only mode")
	}

	// 3. Contract gateway
	gateway, err := contract.NewGateway(eth, common.HexToAddress(cfg.ContractAddress), signer, logger)
	if err != nil {
		logger.Fatal().Msgf("Failed to bind marketplace contract: %v", err)
		return nil, nil, err
	}

	// 4. Content publisher
	ipfsClient, err := ipfs.NewClient(cfg.IPFSAPIAddr)
	if err != nil {
		logger.Fatal().Msgf("Failed to create IPFS client: %v", err)
		return nil, nil, err
	}
	publisher := ipfs.NewPublisher(ipfsClient, cfg.IPFSGatewayURL, logger)

	// 5. Wallet binder: resolve the initial connection state once at startup
	binder := wallet.NewBinder(account, eth, gateway, logger)
	bindCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	state := binder.Bind(bindCtx)
	logger.Info().Bool("is_admin", state.IsAdmin).Msg("Wallet binding resolved")

	// 6. Initialize validator
	validate := validator.New(validator.WithRequiredStructEnabled())

	// 7. Initialize service & handlers
	tracker := service.NewTxTracker()
	market := service.NewMarketService(
		binder,
		publisher,
		gateway,
		gateway,
		cfg.ChainID,
		time.Duration(cfg.ConfirmTimeoutSec)*time.Second,
		tracker,
		logger,
	)

	walletHandler := handler.NewWalletHandler(market, logger)
	courseHandler := handler.NewCourseHandler(market, logger)
	adminHandler := handler.NewAdminHandler(market, validate, logger)
	txHandler := handler.NewTransactionHandler(market, logger)

	// 8. Create ServeMux router
	apiV1Mux := http.NewServeMux()
	walletHandler.RegisterRoutes(apiV1Mux)
	courseHandler.RegisterRoutes(apiV1Mux)
	adminHandler.RegisterRoutes(apiV1Mux)
	txHandler.RegisterRoutes(apiV1Mux)

	mux := http.NewServeMux()
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/v1") {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/v1"+r.URL.Path, http.StatusMovedPermanently)
	})

	// 9. Apply CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return middleware.LoggerMiddleware(logger, c.Handler(mux)), eth, nil
}
