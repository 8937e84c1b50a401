package api

import (
	"context"
	"log"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/enkv/draftpad/api/rest"
	"github.com/enkv/draftpad/cache"
	"github.com/enkv/draftpad/drive"
	"github.com/enkv/draftpad/mq"
	"github.com/enkv/draftpad/service"
	"github.com/enkv/draftpad/store"
	"github.com/enkv/draftpad/worker"
)

type DraftpadAPI struct {
	restHandler *rest.Handler
	shutdownCtx context.Context
}

func NewDraftpadAPI(
	draftStore store.DraftStore,
	draftCache cache.DraftCache,
	cleanupQueue mq.MessageQueue,
	exporter drive.Exporter,
	oauthConfigs map[string]*oauth2.Config,
	jwtSecret []byte,
	shutdownCtx context.Context,
) (*DraftpadAPI, error) {
	cleanupConsumer := worker.NewCleanupConsumer(cleanupQueue, draftCache)
	go cleanupConsumer.Run(shutdownCtx)

	svc, err := service.NewService(
		draftStore,
		draftCache,
		cleanupQueue,
		exporter,
		oauthConfigs,
		jwtSecret,
	)
	if err != nil {
		log.Printf("Failed to create service: %v", err)
		return &DraftpadAPI{}, err
	}

	return &DraftpadAPI{
		restHandler: rest.NewHandler(svc),
		shutdownCtx: shutdownCtx,
	}, nil
}

func (draftpadAPI *DraftpadAPI) RegisterRoutes(mux *http.ServeMux) {
	// Health check endpoint (no auth required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("/login", draftpadAPI.restHandler.HandleLogin)
	mux.HandleFunc("/me", draftpadAPI.restHandler.HandleMe)

	mux.HandleFunc("/drafts/save", draftpadAPI.restHandler.HandleSaveDraft)
	mux.HandleFunc("/drafts/get", draftpadAPI.restHandler.HandleGetDrafts)
	mux.HandleFunc("/drafts/edit", draftpadAPI.restHandler.HandleEditDraft)
	mux.HandleFunc("/drafts/delete", draftpadAPI.restHandler.HandleDeleteDraft)

	mux.HandleFunc("/drive/save", draftpadAPI.restHandler.HandleDriveSave)
}
