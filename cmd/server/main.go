package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"pts/internal/app/server"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}
	if err := server.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "pts server: %v\n", err)
		os.Exit(1)
	}
}
