package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"vinylkeep/internal/discogs"
	"vinylkeep/internal/records"
	"vinylkeep/internal/server"
	"vinylkeep/internal/storage"
)

func main() {
	err := godotenv.Load()
	if os.IsNotExist(err) {
		log.Printf("no .env file found, skipping")
	} else if err != nil {
		log.Fatalf("failed loading .env file: %s", err)
	}

	app := cli.NewApp()
	app.Name = "vinylkeep"
	app.Usage = "Vinyl record collection server and storage."
	app.Flags = []cli.Flag{
		&cli.IntFlag{
			Name:    "port",
			Value:   8080,
			Usage:   "port to run server on",
			EnvVars: []string{"VINYL_PORT"},
		},
		&cli.StringFlag{
			Name:     "data-directory",
			Usage:    "data directory where the collection is stored",
			EnvVars:  []string{"VINYL_DATA_DIR"},
			Required: true,
		},
		&cli.StringFlag{
			Name:    "database",
			Value:   "file",
			Usage:   "collection backing store, either file or sqlite",
			EnvVars: []string{"VINYL_DATABASE"},
		},
		&cli.StringFlag{
			Name:    "discogs-token",
			Usage:   "discogs personal access token for metadata lookups",
			EnvVars: []string{"VINYL_DISCOGS_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "auth-token",
			Usage:   "http server endpoint authentication token",
			EnvVars: []string{"VINYL_AUTH_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "username",
			Usage:   "session login username",
			EnvVars: []string{"VINYL_USERNAME"},
		},
		&cli.StringFlag{
			Name:    "password-hash",
			Usage:   "bcrypt hash of the session login password",
			EnvVars: []string{"VINYL_PASSWORD_HASH"},
		},
	}
	app.Action = func(ctx *cli.Context) error {
		kv, err := newBackingStore(ctx.String("database"), ctx.String("data-directory"))
		if err != nil {
			return err
		}

		if ctx.String("discogs-token") == "" {
			slog.Warn("no discogs token configured, metadata lookups are disabled")
		}

		handler := server.New(server.Options{
			Store:        records.NewStore(kv),
			Lookup:       discogs.New(ctx.String("discogs-token")),
			Username:     ctx.String("username"),
			PasswordHash: ctx.String("password-hash"),
			APIToken:     ctx.String("auth-token"),
		})

		// Start HTTP handler.
		quit := make(chan os.Signal, 2)
		var wg sync.WaitGroup
		wg.Add(1)

		httpServer := &http.Server{Addr: ":" + strconv.Itoa(ctx.Int("port")), Handler: handler}

		go func() {
			defer wg.Done()

			slog.Info("serving", "address", httpServer.Addr)

			err := httpServer.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				fmt.Fprintf(os.Stderr, "failed to start server: %s\n", err)
				quit <- os.Interrupt
			}
		}()

		signal.Notify(
			quit,
			syscall.SIGINT,
			syscall.SIGTERM,
			syscall.SIGHUP,
		)
		<-quit

		slog.Info("Server shutting down...")

		go httpServer.Close()

		wg.Wait()
		return nil
	}

	err = app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func newBackingStore(kind, dataDir string) (storage.KV, error) {
	switch kind {
	case "file":
		return storage.NewFile(dataDir)
	case "sqlite":
		err := os.MkdirAll(dataDir, 0755)
		if err != nil {
			return nil, err
		}
		return storage.NewDatabase(filepath.Join(dataDir, "vinylkeep.db"))
	default:
		return nil, fmt.Errorf("unknown database kind %q", kind)
	}
}
