package main

import (
	"github.com/sirupsen/logrus"

	"github.com/pulseboard/pulseboard/internal/config"
	"github.com/pulseboard/pulseboard/internal/db"
	"github.com/pulseboard/pulseboard/internal/db/migrate"
	"github.com/pulseboard/pulseboard/internal/httpserver"
	"github.com/pulseboard/pulseboard/internal/store"
)

// main boots the service: config → DB → migrations → HTTP server.
func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("config: JWT_SECRET must be set")
	}

	// Apply pending migrations so `docker compose up --build` is enough.
	if err := migrate.Run(cfg.DatabaseURL, "up"); err != nil {
		log.WithError(err).Fatal("migrations failed")
	}

	pool, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("database unreachable")
	}
	st := store.New(pool)
	defer st.Close()

	router := httpserver.NewRouter(cfg, log, st)

	log.WithField("addr", cfg.HTTPAddr).Info("server started")
	log.Fatal(router.Run(cfg.HTTPAddr))
}
