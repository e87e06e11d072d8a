package api

import (
	"net/http"

	"mwt/internal/handler"
	"mwt/multisig"

	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter sets up router with handlers
func SetupRouter(service *multisig.Service) http.Handler {
	multisigHandler := handler.NewMultisigHandler(service)

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Multisig endpoints
	mux.HandleFunc("GET /wallet", multisigHandler.GetWalletInfo)
	mux.HandleFunc("GET /transactions", multisigHandler.ListTransactions)
	mux.HandleFunc("POST /transactions", multisigHandler.Propose)
	mux.HandleFunc("GET /transactions/{id}", multisigHandler.GetTransaction)
	mux.HandleFunc("POST /transactions/{id}/confirm", multisigHandler.Confirm)
	mux.HandleFunc("POST /transactions/{id}/revoke", multisigHandler.Revoke)
	mux.HandleFunc("POST /transactions/{id}/execute", multisigHandler.Execute)

	return mux
}
