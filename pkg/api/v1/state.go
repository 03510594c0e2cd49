package apiv1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/meridiandb/meridian/pkg/metadata"
	"github.com/meridiandb/meridian/pkg/repository"
)

type StateGroup struct {
	routerGroup *echo.Group
	stateRepo   repository.ClusterStateRepository
}

func NewStateGroup(g *echo.Group, stateRepo repository.ClusterStateRepository) *StateGroup {
	group := &StateGroup{routerGroup: g, stateRepo: stateRepo}

	g.GET("/version", group.Version)
	g.PUT("", group.Publish)

	return group
}

func (g *StateGroup) Version(c echo.Context) error {
	version, err := g.stateRepo.Version(c.Request().Context())
	if err == repository.ErrNoClusterState {
		return ErrorResponse(c, http.StatusNotFound, err.Error())
	}
	if err != nil {
		return ErrorResponse(c, http.StatusInternalServerError, err.Error())
	}
	return SuccessResponse(c, map[string]int64{"version": version})
}

func (g *StateGroup) Publish(c echo.Context) error {
	var doc metadata.Document
	if err := c.Bind(&doc); err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "invalid state document")
	}

	version, err := g.stateRepo.Publish(c.Request().Context(), &doc)
	if err != nil {
		return ErrorResponse(c, http.StatusBadRequest, err.Error())
	}

	log.Info().Int64("version", version).Msg("published cluster state")
	return SuccessResponse(c, map[string]int64{"version": version})
}
