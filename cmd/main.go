package main

import (
	"github.com/aliakborswe/travel-buddy-client/internal/api"
	"github.com/aliakborswe/travel-buddy-client/internal/config"
	"github.com/aliakborswe/travel-buddy-client/internal/router"
	"github.com/aliakborswe/travel-buddy-client/internal/session"
	"github.com/aliakborswe/travel-buddy-client/pkg/logger"
)

func main() {
	cfg := config.LoadWebConfig()
	log := logger.New(cfg.LogLevel)

	client := api.New(cfg.APIBaseURL)
	sessions := session.NewManager(client, cfg.RedisAddr, cfg.SessionDir)

	r := router.New(cfg, client, sessions, log)

	log.Info("start web server at port " + cfg.ServerPort)
	if err := r.Run("0.0.0.0:" + cfg.ServerPort); err != nil {
		log.Fatal("failed to run server: " + err.Error())
	}
}
