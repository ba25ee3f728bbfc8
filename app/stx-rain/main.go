package main

import (
	"context"
	"fmt"
	"github.com/ardanlabs/conf"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stxrain/go-stx-rain/api"
	"github.com/stxrain/go-stx-rain/business/domain/sim"
	"github.com/stxrain/go-stx-rain/business/domain/tx"
	"github.com/stxrain/go-stx-rain/business/pipeline"
	"github.com/stxrain/go-stx-rain/entities"
	"github.com/stxrain/go-stx-rain/external/hiro"
	"github.com/stxrain/go-stx-rain/external/kafka"
	"github.com/stxrain/go-stx-rain/external/rediscache"
	"github.com/stxrain/go-stx-rain/infrastructure/store/pebbledb"
	"github.com/stxrain/go-stx-rain/metrics"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kprom"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const prefix = "STX_RAIN"

func main() {
	if err := run(); err != nil {
		log.Fatalf("main: exited with error: %s", err.Error())
	}
}

func run() error {
	config := zap.NewProductionConfig()
	// this is just for sugar, to display a readable date instead of an epoch time
	config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.DateTime)

	logger, err := config.Build()
	if err != nil {
		return fmt.Errorf("creating logger: %v", err)
	}
	defer logger.Sync()
	sLogger := logger.Sugar()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "loading .env file")
	}

	var cfg struct {
		Hiro struct {
			BaseURL       string        `conf:"default:https://api.hiro.so"`
			TxLimit       int           `conf:"default:20"`
			Unanchored    bool          `conf:"default:true"`
			Timeout       time.Duration `conf:"default:10s"`
			BlockCacheTTL time.Duration `conf:"default:1m"`
		}
		Pipeline struct {
			PollInterval    time.Duration `conf:"default:3s"`
			FrameInterval   time.Duration `conf:"default:16ms"`
			CompactInterval time.Duration `conf:"default:60s"`
			DedupHigh       int           `conf:"default:1000"`
			DedupLow        int           `conf:"default:500"`
			RecentSize      int           `conf:"default:5"`
			TrailLength     int           `conf:"default:15"`
			AmbientInterval time.Duration `conf:"default:750ms"`
			AmbientCap      int           `conf:"default:40"`
			Width           float64       `conf:"default:1280"`
			Height          float64       `conf:"default:720"`
		}
		Server struct {
			HttpHost        string        `conf:"default:0.0.0.0:8000"`
			MetricsHttpHost string        `conf:"default:0.0.0.0:9999"`
			FrameEvery      int           `conf:"default:2"`
			ReadTimeout     time.Duration `conf:"default:2s"`
			ClientBuffer    int           `conf:"default:16"`
			DispatchQueue   int           `conf:"default:16"`
			DispatchTimeout time.Duration `conf:"default:5s"`
		}
		Store struct {
			Folder string `conf:"optional"`
		}
		Kafka struct {
			BootstrapServers []string `conf:"optional"`
			TxTopic          string   `conf:"default:stx-rain-transactions"`
		}
		Redis struct {
			Address     string        `conf:"optional"`
			Password    string        `conf:"optional,noprint"`
			DB          int           `conf:"default:0"`
			SnapshotKey string        `conf:"default:stx-rain:snapshot"`
			Channel     string        `conf:"default:stx-rain:polls"`
			SnapshotTTL time.Duration `conf:"default:1m"`
		}
		Metrics struct {
			Namespace string `conf:"default:stx_rain"`
		}
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

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %v", err)
	}
	log.Printf("main: Config :\n%v\n", out)

	pipelineMetrics := metrics.NewMetrics(cfg.Metrics.Namespace)

	hiroClient := hiro.NewClient(&http.Client{}, cfg.Hiro.BaseURL, cfg.Hiro.TxLimit, cfg.Hiro.Unanchored)
	blockHeights := hiro.NewBlockHeightCache(hiroClient, cfg.Hiro.BlockCacheTTL)
	go blockHeights.Start()
	defer blockHeights.Stop()
	processor := tx.NewProcessor(hiro.NewCachedClient(hiroClient, blockHeights), cfg.Hiro.Timeout, sLogger)

	viewport := sim.Viewport{Width: cfg.Pipeline.Width, Height: cfg.Pipeline.Height}
	rng := sim.NewRand()
	ledger := tx.NewLedger(tx.NewDedupWindow(cfg.Pipeline.DedupHigh, cfg.Pipeline.DedupLow), tx.NewRunningTotals(cfg.Pipeline.RecentSize))
	state := pipeline.NewState(
		ledger,
		sim.NewWorld(viewport, rng, cfg.Pipeline.AmbientCap),
		sim.NewSpawner(viewport, rng, cfg.Pipeline.TrailLength),
	)

	loop := pipeline.NewLoop(state, processor, pipeline.Config{
		PollInterval:    cfg.Pipeline.PollInterval,
		FrameInterval:   cfg.Pipeline.FrameInterval,
		CompactInterval: cfg.Pipeline.CompactInterval,
		AmbientInterval: cfg.Pipeline.AmbientInterval,
		FrameEvery:      cfg.Server.FrameEvery,
	}, pipelineMetrics, sLogger)
	dispatcher := pipeline.NewDispatcher(cfg.Server.DispatchQueue, cfg.Server.DispatchTimeout, pipelineMetrics, sLogger)

	if cfg.Store.Folder != "" {
		store, err := pebbledb.NewStore(cfg.Store.Folder)
		if err != nil {
			return errors.Wrap(err, "creating status store")
		}
		defer store.Close()

		status, err := store.GetStatus()
		if err != nil && !errors.Is(err, entities.ErrStoreEntityNotFound) {
			return errors.Wrap(err, "getting stored status")
		}
		if err == nil {
			log.Printf("main: Resuming with count [%d] and volume [%s].", status.Count, status.Volume)
			state.Restore(status)
		}
		dispatcher.Register("store", store)
	}

	if len(cfg.Kafka.BootstrapServers) > 0 {
		m := kprom.NewMetrics(cfg.Metrics.Namespace,
			kprom.Registerer(prometheus.DefaultRegisterer),
			kprom.Gatherer(prometheus.DefaultGatherer))
		kcl, err := kgo.NewClient(
			kgo.WithHooks(m),
			kgo.DefaultProduceTopic(cfg.Kafka.TxTopic),
			kgo.SeedBrokers(cfg.Kafka.BootstrapServers...),
			kgo.ProducerBatchCompression(kgo.ZstdCompression()),
		)
		if err != nil {
			return errors.Wrap(err, "creating kafka client")
		}
		defer kcl.Close()
		dispatcher.Register("kafka", kafka.NewClient(kcl))
	}

	if cfg.Redis.Address != "" {
		rdb := rediscache.NewClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		defer rdb.Close()
		dispatcher.Register("redis", rediscache.NewSnapshotCache(rdb, cfg.Redis.SnapshotKey, cfg.Redis.Channel, cfg.Redis.SnapshotTTL))
	}

	if dispatcher.Len() > 0 {
		loop.AddPollSink(dispatcher)
	} else {
		log.Println("[WARN] main: No publishers configured")
	}

	hub := api.NewHub(cfg.Server.ClientBuffer, sLogger)
	defer hub.Close()
	loop.AddPollSink(hub)
	loop.AddFrameSink(hub)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return loop.Run(ctx)
	})
	if dispatcher.Len() > 0 {
		g.Go(func() error {
			return dispatcher.Run(ctx)
		})
	}

	apiServer := &http.Server{
		Addr:    cfg.Server.HttpHost,
		Handler: api.NewRouter(api.NewHandler(loop, cfg.Server.ReadTimeout), hub),
	}
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:    cfg.Server.MetricsHttpHost,
		Handler: metricsMux,
	}

	for _, server := range []*http.Server{apiServer, metricsServer} {
		g.Go(func() error {
			log.Printf("main: Starting server on [%s].", server.Addr)
			err := server.ListenAndServe()
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return errors.Wrapf(err, "serving on [%s]", server.Addr)
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		log.Println("main: Received shutdown signal, shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		hub.Close()
		_ = apiServer.Shutdown(shutdownCtx)
		_ = metricsServer.Shutdown(shutdownCtx)
		return nil
	})

	log.Println("main: Service started.")

	return g.Wait()
}
