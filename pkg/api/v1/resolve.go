package apiv1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/meridiandb/meridian/pkg/metadata"
	"github.com/meridiandb/meridian/pkg/resolver"
)

// StateProvider serves the current cluster snapshot to request handlers.
type StateProvider interface {
	Current() (*metadata.ClusterState, error)
}

type ResolveGroup struct {
	routerGroup *echo.Group
	resolver    *resolver.Resolver
	state       StateProvider
}

func NewResolveGroup(g *echo.Group, res *resolver.Resolver, state StateProvider) *ResolveGroup {
	group := &ResolveGroup{routerGroup: g, resolver: res, state: state}

	g.POST("/indices", group.ResolveIndices)
	g.POST("/datastreams", group.ResolveDataStreams)
	g.POST("/routing", group.ResolveRouting)
	g.POST("/datemath", group.ResolveDateMath)

	return group
}

type resolveRequest struct {
	Expressions        []string         `json:"expressions"`
	Options            resolver.Options `json:"options"`
	IncludeDataStreams bool             `json:"include_data_streams"`
	Routing            string           `json:"routing"`
}

type resolvedIndex struct {
	Name string `json:"name"`
	UUID string `json:"uuid"`
}

func (g *ResolveGroup) ResolveIndices(c echo.Context) error {
	var req resolveRequest
	if err := c.Bind(&req); err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "invalid request body")
	}
	state, err := g.state.Current()
	if err != nil {
		return ErrorResponse(c, http.StatusServiceUnavailable, err.Error())
	}

	indices, err := g.resolver.ConcreteIndicesForRequest(state, RequestAccess(c), resolver.Request{
		Expressions:        req.Expressions,
		Options:            req.Options,
		IncludeDataStreams: req.IncludeDataStreams,
	})
	if err != nil {
		return ResolutionErrorResponse(c, err)
	}

	resolved := make([]resolvedIndex, len(indices))
	for i, index := range indices {
		resolved[i] = resolvedIndex{Name: index.Name, UUID: index.UUID}
	}
	return SuccessResponse(c, map[string]interface{}{
		"version": state.Version,
		"indices": resolved,
	})
}

func (g *ResolveGroup) ResolveDataStreams(c echo.Context) error {
	var req resolveRequest
	if err := c.Bind(&req); err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "invalid request body")
	}
	state, err := g.state.Current()
	if err != nil {
		return ErrorResponse(c, http.StatusServiceUnavailable, err.Error())
	}

	names, err := g.resolver.DataStreamNames(state, RequestAccess(c), req.Options, req.Expressions...)
	if err != nil {
		return ResolutionErrorResponse(c, err)
	}
	return SuccessResponse(c, map[string]interface{}{
		"version":      state.Version,
		"data_streams": names,
	})
}

func (g *ResolveGroup) ResolveRouting(c echo.Context) error {
	var req resolveRequest
	if err := c.Bind(&req); err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "invalid request body")
	}
	state, err := g.state.Current()
	if err != nil {
		return ErrorResponse(c, http.StatusServiceUnavailable, err.Error())
	}

	routings, err := g.resolver.ResolveSearchRouting(state, RequestAccess(c), req.Routing, req.Expressions...)
	if err != nil {
		return ResolutionErrorResponse(c, err)
	}
	return SuccessResponse(c, map[string]interface{}{
		"version":  state.Version,
		"routings": routings,
	})
}

type dateMathRequest struct {
	Expression string `json:"expression"`
	Time       int64  `json:"time,omitempty"`
}

func (g *ResolveGroup) ResolveDateMath(c echo.Context) error {
	var req dateMathRequest
	if err := c.Bind(&req); err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "invalid request body")
	}

	var resolved string
	var err error
	if req.Time != 0 {
		resolved, err = resolver.ResolveDateMathAt(req.Expression, req.Time)
	} else {
		resolved, err = resolver.ResolveDateMath(req.Expression)
	}
	if err != nil {
		return ResolutionErrorResponse(c, err)
	}
	return SuccessResponse(c, map[string]string{
		"expression": req.Expression,
		"resolved":   resolved,
	})
}
