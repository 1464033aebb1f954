package handler

import (
	"imchat/internal/app/relay"
	"imchat/internal/app/storage"
	"imchat/internal/app/store"
	"imchat/internal/configs"
)

// AppDeps bundles the dependencies shared by the HTTP and websocket handlers.
type AppDeps struct {
	Hub            *relay.Hub
	Dispatcher     *relay.Dispatcher
	Config         *configs.AppConfig
	Store          *store.Store
	StorageService storage.StorageService
}
