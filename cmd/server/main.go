package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"clms/internal/consent"
	consentmetrics "clms/internal/consent/metrics"
	consentservice "clms/internal/consent/service"
	consentstore "clms/internal/consent/store"
	httpapi "clms/internal/http"
	jwttoken "clms/internal/jwt_token"
	"clms/internal/knowledgegraph"
	graphloader "clms/internal/knowledgegraph/loader"
	graphmetrics "clms/internal/knowledgegraph/metrics"
	graphservice "clms/internal/knowledgegraph/service"
	graphstore "clms/internal/knowledgegraph/store"
	"clms/internal/masterdata"
	mdmetrics "clms/internal/masterdata/metrics"
	mdservice "clms/internal/masterdata/service"
	mdstore "clms/internal/masterdata/store"
	"clms/internal/platform/config"
	"clms/internal/platform/httpserver"
	"clms/internal/platform/kafka/producer"
	"clms/internal/platform/logger"
	"clms/internal/platform/metrics"
	"clms/internal/platform/postgres"
	"clms/internal/platform/redis"
	"clms/internal/release"
	releasemetrics "clms/internal/release/metrics"
	releaseservice "clms/internal/release/service"
	releasestore "clms/internal/release/store"
	id "clms/pkg/domain"
	audit "clms/pkg/platform/audit"
	"clms/pkg/platform/audit/outbox"
	"clms/pkg/platform/audit/publishers/compliance"
	auditmemory "clms/pkg/platform/audit/store/memory"
	auditpostgres "clms/pkg/platform/audit/store/postgres"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("clms exited", "error", err)
		os.Exit(1)
	}
}

// auditBackend is the audit store plus the outbox view the relay drains.
type auditBackend interface {
	audit.Store
	audit.OutboxSource
}

type stores struct {
	graphs       graphservice.Store
	entries      mdservice.EntryStore
	types        mdservice.TypeStore
	publications mdservice.PublicationStore
	releases     releaseservice.Store
	audit        auditBackend
	graphTx      mdservice.StoreTx
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	if !cfg.IsDevelopment() && cfg.Auth.JWTSigningKey == config.DevJWTSigningKey {
		return errors.New("JWT_SIGNING_KEY must be set outside development")
	}
	defaultVersion, err := id.ParsePolicyVersion(cfg.DefaultPolicyVersion)
	if err != nil {
		return fmt.Errorf("DEFAULT_POLICY_VERSION: %w", err)
	}

	checks := map[string]httpapi.HealthCheck{}
	st, db, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		checks["postgres"] = db.PingContext
	}

	kv, closeKV, err := openConsentKV(cfg, log, checks)
	if err != nil {
		return err
	}
	defer closeKV()

	publisher := compliance.New(st.audit,
		compliance.WithLogger(log),
		compliance.WithMetrics(compliance.NewMetrics()),
	)

	graphs := knowledgegraph.NewService(st.graphs,
		graphservice.WithLogger(log),
		graphservice.WithAuditPublisher(publisher),
		graphservice.WithMetrics(graphmetrics.New()),
	)
	if err := seedGraphs(ctx, cfg.SeedGraphsFile, st.graphs, log); err != nil {
		return err
	}
	if err := graphs.Warm(ctx); err != nil {
		return fmt.Errorf("warm skill index: %w", err)
	}

	mdOpts := []mdservice.Option{
		mdservice.WithLogger(log),
		mdservice.WithAuditPublisher(publisher),
		mdservice.WithMetrics(mdmetrics.New()),
	}
	if st.graphTx != nil {
		mdOpts = append(mdOpts, mdservice.WithTx(st.graphTx))
	}
	md := masterdata.NewService(st.entries, st.types, st.publications, graphs, mdOpts...)

	releases := release.NewService(st.releases, defaultVersion,
		releaseservice.WithLogger(log),
		releaseservice.WithAuditPublisher(publisher),
		releaseservice.WithMetrics(releasemetrics.New()),
	)
	consents := consent.NewService(kv, releases,
		consentservice.WithLogger(log),
		consentservice.WithAuditPublisher(publisher),
		consentservice.WithMetrics(consentmetrics.New()),
	)

	tokens := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer)
	router := httpapi.NewRouter(httpapi.Deps{
		Logger:       log,
		Metrics:      metrics.New(),
		Validator:    jwttoken.NewJWTServiceAdapter(tokens),
		Graphs:       knowledgegraph.NewHandler(graphs, log),
		MasterData:   masterdata.NewHandler(md, log),
		Consent:      consent.NewHandler(consents, log),
		Releases:     release.NewHandler(releases, log),
		HealthChecks: checks,
	})
	srv := httpserver.New(cfg.Addr, router)

	var relay *outbox.Relay
	if len(cfg.Audit.KafkaBrokers) > 0 {
		p, err := producer.New(producer.Config{
			Brokers:  cfg.Audit.KafkaBrokers,
			ClientID: "clms-audit-relay",
			Linger:   5 * time.Millisecond,
		}, log)
		if err != nil {
			return err
		}
		defer p.Close()
		if err := p.EnsureTopic(ctx, cfg.Audit.Topic, 3, 1); err != nil {
			log.Warn("audit topic not ensured", "topic", cfg.Audit.Topic, "error", err)
		}
		relay = outbox.New(st.audit, p, cfg.Audit.Topic,
			outbox.WithLogger(log),
			outbox.WithBatchSize(cfg.Audit.OutboxBatchSize),
		)
	} else {
		log.Info("audit relay disabled: no KAFKA_BROKERS")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting clms", "addr", cfg.Addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	if relay != nil {
		g.Go(func() error {
			return relay.Run(gctx, cfg.Audit.OutboxPollInterval)
		})
	}

	return g.Wait()
}

// openStores picks Postgres when DATABASE_URL is set and in-memory stores
// otherwise. The returned db is nil in memory mode.
func openStores(ctx context.Context, cfg config.Server, log *slog.Logger) (*stores, *sql.DB, error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set: using in-memory stores")
		return &stores{
			graphs:       graphstore.NewInMemory(),
			entries:      mdstore.NewInMemoryEntryStore(),
			types:        mdstore.NewInMemoryTypeStore(),
			publications: mdstore.NewInMemoryPublicationStore(),
			releases:     releasestore.NewInMemory(),
			audit:        auditmemory.NewInMemoryStore(),
		}, nil, nil
	}

	db, err := postgres.Open(ctx, cfg.DatabaseURL, postgres.DefaultOptions)
	if err != nil {
		return nil, nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return &stores{
		graphs:       graphstore.NewPostgres(db),
		entries:      mdstore.NewPostgresEntryStore(db),
		types:        mdstore.NewPostgresTypeStore(db),
		publications: mdstore.NewPostgresPublicationStore(db),
		releases:     releasestore.NewPostgres(db),
		audit:        auditpostgres.New(db),
		graphTx:      newGraphPostgresTx(db),
	}, db, nil
}

func openConsentKV(cfg config.Server, log *slog.Logger, checks map[string]httpapi.HealthCheck) (consentstore.KV, func(), error) {
	client, err := redis.New(cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		log.Warn("REDIS_URL not set: consent records are kept in memory")
		return consentstore.NewInMemoryKV(), func() {}, nil
	}
	checks["redis"] = client.Health
	return consentstore.NewRedisKV(client.Client), func() { _ = client.Close() }, nil
}

// seedGraphs stores every graph in path. Seeding bypasses the service so
// boot does not emit replacement audit events.
func seedGraphs(ctx context.Context, path string, store graphservice.Store, log *slog.Logger) error {
	if path == "" {
		return nil
	}
	graphs, err := graphloader.LoadFile(path)
	if err != nil {
		return fmt.Errorf("load seed graphs: %w", err)
	}
	for _, g := range graphs {
		if err := g.Validate(); err != nil {
			return fmt.Errorf("seed graph %q: %w", g.ID, err)
		}
		if err := store.Save(ctx, g); err != nil {
			return fmt.Errorf("seed graph %q: %w", g.ID, err)
		}
	}
	log.Info("seeded knowledge graphs", "count", len(graphs), "file", path)
	return nil
}
