package gateway

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	apiv1 "github.com/meridiandb/meridian/pkg/api/v1"
	"github.com/meridiandb/meridian/pkg/common"
	"github.com/meridiandb/meridian/pkg/repository"
	"github.com/meridiandb/meridian/pkg/resolver"
	"github.com/meridiandb/meridian/pkg/systemindices"
	"github.com/meridiandb/meridian/pkg/types"
)

type Gateway struct {
	Config      types.AppConfig
	RedisClient *common.RedisClient

	echo       *echo.Echo
	stateRepo  repository.ClusterStateRepository
	state      *stateHolder
	resolver   *resolver.Resolver
	ctx        context.Context
	cancelFunc context.CancelFunc
}

func NewGateway() (*Gateway, error) {
	configManager, err := common.NewConfigManager[types.AppConfig]()
	if err != nil {
		return nil, err
	}
	config := configManager.GetConfig()

	// Setup logging
	if config.PrettyLogs {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	redisClient, err := common.NewRedisClient(config.Database.Redis, common.WithClientName("MeridianGateway"))
	if err != nil {
		return nil, err
	}

	stateRepo := repository.NewClusterStateRedisRepository(redisClient, config.ClusterName)
	registry := systemindices.NewRegistryFromConfig(config.Resolver)

	ctx, cancel := context.WithCancel(context.Background())
	gw := &Gateway{
		Config:      config,
		RedisClient: redisClient,
		stateRepo:   stateRepo,
		state:       newStateHolder(stateRepo),
		resolver:    resolver.New(registry, common.NewDeprecationLogger()),
		ctx:         ctx,
		cancelFunc:  cancel,
	}
	gw.initHTTP()

	return gw, nil
}

func (g *Gateway) initHTTP() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	base := e.Group(apiv1.HttpServerBaseRoute)
	apiv1.NewHealthGroup(base.Group("/health"), g.RedisClient, g.state)
	apiv1.NewResolveGroup(base.Group("/resolve"), g.resolver, g.state)
	apiv1.NewStateGroup(base.Group("/state"), g.stateRepo)

	g.echo = e
}

// Start runs the gateway until SIGINT/SIGTERM.
func (g *Gateway) Start() {
	group, ctx := errgroup.WithContext(g.ctx)

	addr := fmt.Sprintf("%s:%d", g.Config.Gateway.Host, g.Config.Gateway.Port)
	group.Go(func() error {
		log.Info().Str("addr", addr).Msg("gateway http server starting")
		if err := g.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	refreshInterval := g.Config.Gateway.StateRefreshInterval
	if refreshInterval <= 0 {
		refreshInterval = 5 * time.Second
	}
	group.Go(func() error {
		return g.state.run(ctx, refreshInterval)
	})

	group.Go(func() error {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		select {
		case s := <-sig:
			log.Info().Str("signal", s.String()).Msg("shutting down")
			g.Shutdown()
		case <-ctx.Done():
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		log.Error().Err(err).Msg("gateway stopped with error")
	}
}

// Shutdown stops the http server and background refresh.
func (g *Gateway) Shutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := g.echo.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http server shutdown")
	}
	g.cancelFunc()
}
