// mktoken mints a bearer token for the API from the shared auth secret.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/voxstream/voxstream-backend/internal/auth"
)

func main() {
	secret := flag.String("secret", os.Getenv("VOXSTREAM_AUTH_SECRET"), "shared auth secret")
	client := flag.String("client", "cli", "client name embedded in the token")
	issuer := flag.String("issuer", "voxstream-backend", "token issuer")
	ttl := flag.Duration("ttl", auth.DefaultTokenTTL, "token lifetime")
	flag.Parse()

	if *secret == "" {
		fmt.Fprintln(os.Stderr, "error: -secret or VOXSTREAM_AUTH_SECRET is required")
		os.Exit(1)
	}

	svc := auth.NewJWTService(*secret, *issuer)
	token, err := svc.GenerateToken(*client, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
