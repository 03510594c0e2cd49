package apiv1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/meridiandb/meridian/pkg/common"
)

type HealthGroup struct {
	redisClient *common.RedisClient
	state       StateProvider
	routerGroup *echo.Group
}

func NewHealthGroup(g *echo.Group, rdb *common.RedisClient, state StateProvider) *HealthGroup {
	group := &HealthGroup{routerGroup: g, redisClient: rdb, state: state}

	g.GET("", group.HealthCheck)

	return group
}

func (h *HealthGroup) HealthCheck(c echo.Context) error {
	err := h.redisClient.Ping(c.Request().Context()).Err()
	if err != nil {
		log.Error().Err(err).Msg("health check failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"status": "not ok",
			"error":  err.Error(),
		})
	}

	// The snapshot may legitimately be absent on a fresh cluster; report
	// its version when one is loaded.
	payload := map[string]interface{}{"status": "ok"}
	if state, err := h.state.Current(); err == nil {
		payload["state_version"] = state.Version
	}
	return c.JSON(http.StatusOK, payload)
}
