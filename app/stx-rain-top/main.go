package main

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/ardanlabs/conf"
	"github.com/pkg/errors"
	"github.com/stxrain/go-stx-rain/api"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const prefix = "STX_RAIN_TOP"

func main() {
	if err := run(); err != nil {
		log.Fatalf("main: exited with error: %s", err.Error())
	}
}

func run() error {
	var cfg struct {
		Server   string        `conf:"default:http://localhost:8000"`
		Interval time.Duration `conf:"default:3s"`
		Timeout  time.Duration `conf:"default:5s"`
		Once     bool          `conf:"default:false"`
	}

	if err := conf.Parse(os.Args[1:], prefix, &cfg); err != nil {
		switch err {
		case conf.ErrHelpWanted:
			usage, err := conf.Usage(prefix, &cfg)
			if err != nil {
				return fmt.Errorf("generating config usage: %v", err)
			}
			fmt.Println(usage)
			return nil
		case conf.ErrVersionWanted:
			version, err := conf.VersionString(prefix, &cfg)
			if err != nil {
				return fmt.Errorf("generating config version: %v", err)
			}
			fmt.Println(version)
			return nil
		}
		return fmt.Errorf("parsing config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := &http.Client{Timeout: cfg.Timeout}
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		snapshot, err := fetchSnapshot(ctx, client, cfg.Server)
		if err != nil {
			if cfg.Once {
				return err
			}
			log.Printf("[WARN] fetching snapshot: %v", err)
		} else {
			if !cfg.Once {
				// clear screen and move the cursor home
				fmt.Print("\033[H\033[2J")
			}
			renderSnapshot(os.Stdout, snapshot)
		}

		if cfg.Once {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func fetchSnapshot(ctx context.Context, client *http.Client, server string) (api.TransactionsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server+"/api/transactions", nil)
	if err != nil {
		return api.TransactionsResponse{}, errors.Wrap(err, "creating request")
	}

	res, err := client.Do(req)
	if err != nil {
		return api.TransactionsResponse{}, errors.Wrap(err, "calling server")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return api.TransactionsResponse{}, errors.Errorf("unexpected status code [%d]", res.StatusCode)
	}

	var snapshot api.TransactionsResponse
	err = json.NewDecoder(res.Body).Decode(&snapshot)
	if err != nil {
		return api.TransactionsResponse{}, errors.Wrap(err, "decoding response")
	}
	return snapshot, nil
}
