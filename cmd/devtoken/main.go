// Command devtoken mints a bearer token for local cart requests.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/angelmondragon/storefront-backend/pkg/auth"
	"github.com/angelmondragon/storefront-backend/pkg/config"
)

func main() {
	_ = godotenv.Load()

	user := flag.String("user", "", "shopper uuid (random when empty)")
	flag.Parse()

	var cfg config.JWTConfig
	if err := envconfig.Process(config.EnvPrefix, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "load jwt config: %v\n", err)
		os.Exit(1)
	}

	userID := uuid.New()
	if *user != "" {
		parsed, err := uuid.Parse(*user)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -user: %v\n", err)
			os.Exit(1)
		}
		userID = parsed
	}

	token, err := auth.MintAccessToken(cfg, time.Now(), auth.AccessTokenPayload{
		UserID: userID,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "mint token: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "user_id=%s\n", userID)
	fmt.Println(token)
}
