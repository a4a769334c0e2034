// Command admintoken prints a bearer token for the coordinator status API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"gitlab.com/hashsearch.net/internal/adapter/crypto"
	"gitlab.com/hashsearch.net/internal/config"
	"gitlab.com/hashsearch.net/internal/handlers"
)

func main() {
	subject := flag.String("sub", "operator", "token subject")
	ttl := flag.Duration("ttl", crypto.DefaultTokenTTL, "token lifetime")
	flag.Parse()

	if err := config.InitReader(flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	jwtCfg := config.NewJwtConfig()
	if !jwtCfg.Enabled() {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is not set")
		os.Exit(1)
	}

	claims := map[string]interface{}{
		"sub": *subject,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(*ttl).Unix(),
	}
	token, err := crypto.NewJWTService(jwtCfg).GenerateTokenHMAC(context.Background(), handlers.SigningMethod, claims)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(token)
}
