package main

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Generates a dev bearer token for hitting the protected /v1 routes locally.
// Usage: JWT_SECRET=... go run scripts/gentoken.go [user-id]
func main() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fmt.Println("JWT_SECRET is required")
		os.Exit(1)
	}

	userID := "11111111-1111-1111-1111-111111111111"
	if len(os.Args) > 1 {
		userID = os.Args[1]
	}

	claims := jwt.MapClaims{
		"sub":   userID,
		"email": "candidate@localhost",
		"role":  "candidate",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	fmt.Printf("User: %s\nToken: %s\n", userID, token)
}
