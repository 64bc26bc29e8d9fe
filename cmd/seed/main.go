// seed provisions demo data: a team, a member and an outsider user, and a
// project with an API key. Prints the key and dev bearer tokens so the
// stack is usable immediately after `go run ./cmd/seed`.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/pulseboard/pulseboard/internal/auth"
	"github.com/pulseboard/pulseboard/internal/config"
	"github.com/pulseboard/pulseboard/internal/db"
	"github.com/pulseboard/pulseboard/internal/db/migrate"
	"github.com/pulseboard/pulseboard/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatal("config:", err)
	}

	if err := migrate.Run(cfg.DatabaseURL, "up"); err != nil {
		fatal("migrate:", err)
	}

	pool, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		fatal("db:", err)
	}
	st := store.New(pool)
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	teamID := uuid.NewString()
	memberID := uuid.NewString()
	outsiderID := uuid.NewString()
	projectID := uuid.NewString()
	apiKey := "proj_" + uuid.NewString()

	steps := []func() error{
		func() error { return st.CreateTeam(ctx, teamID, "Demo Team") },
		func() error { return st.CreateUser(ctx, memberID, "member@example.com", "Demo Member") },
		func() error { return st.CreateUser(ctx, outsiderID, "outsider@example.com", "Demo Outsider") },
		func() error { return st.AddMember(ctx, teamID, memberID, "OWNER") },
		func() error { return st.CreateProject(ctx, projectID, teamID, "Demo Project", apiKey) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			fatal("seed:", err)
		}
	}

	fmt.Println("project_id: ", projectID)
	fmt.Println("api_key:    ", apiKey)

	if cfg.JWTSecret != "" {
		memberTok, err := auth.NewToken([]byte(cfg.JWTSecret), memberID, 24*time.Hour)
		if err != nil {
			fatal("token:", err)
		}
		outsiderTok, err := auth.NewToken([]byte(cfg.JWTSecret), outsiderID, 24*time.Hour)
		if err != nil {
			fatal("token:", err)
		}
		fmt.Println("member_token:  ", memberTok)
		fmt.Println("outsider_token:", outsiderTok)
	}
}

func fatal(prefix string, err error) {
	fmt.Fprintln(os.Stderr, prefix, err)
	os.Exit(1)
}
