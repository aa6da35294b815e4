// Command wait-for-db blocks until the database accepts connections.
// Intended as a container entrypoint step so the API and migrations
// only start once PostgreSQL is ready.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/recipebox/recipebox/internal/repository"
)

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		timeout     = flag.Duration("timeout", 60*time.Second, "Give up after this long")
		interval    = flag.Duration("interval", time.Second, "Delay between connection attempts")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	fmt.Println("Waiting for database connection...")

	deadline := time.Now().Add(*timeout)
	for {
		if tryConnect(*databaseURL) {
			fmt.Println("Database available!")
			return
		}

		if time.Now().After(deadline) {
			fmt.Fprintln(os.Stderr, "Timed out waiting for database")
			os.Exit(1)
		}

		fmt.Printf("Database unavailable, waiting for %s...\n", interval)
		time.Sleep(*interval)
	}
}

func tryConnect(databaseURL string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, databaseURL)
	if err != nil {
		return false
	}
	defer repo.Close()

	return repo.Ping(ctx) == nil
}
