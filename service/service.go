package service

import (
	"github.com/enkv/draftpad/cache"
	"github.com/enkv/draftpad/drive"
	"github.com/enkv/draftpad/mq"
	"github.com/enkv/draftpad/store"
	"golang.org/x/oauth2"
)

type Service struct {
	Store        store.DraftStore
	Cache        cache.DraftCache
	MQ           mq.MessageQueue
	Drive        drive.Exporter
	OAuthConfigs map[string]*oauth2.Config
	JWTSecret    []byte
}

func NewService(
	draftStore store.DraftStore,
	draftCache cache.DraftCache,
	cleanupQueue mq.MessageQueue,
	exporter drive.Exporter,
	oauthConfigs map[string]*oauth2.Config,
	jwtSecret []byte,
) (*Service, error) {
	oauthConfigs, err := addOauthEndpointsAndScopes(oauthConfigs)
	if err != nil {
		return nil, err
	}

	return &Service{
		Store:        draftStore,
		Cache:        draftCache,
		MQ:           cleanupQueue,
		Drive:        exporter,
		OAuthConfigs: oauthConfigs,
		JWTSecret:    jwtSecret,
	}, nil
}
