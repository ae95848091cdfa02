package params

import (
	"strconv"

	"github.com/SujalTripathi/slotswapper/core/constants"

	"github.com/labstack/echo/v4"
)

// QueryParams are the common list-endpoint query parameters
type QueryParams struct {
	PageNumber int
	PageSize   int
	Search     string
}

// NewQueryParams binds pagination/search parameters from the request, applying defaults
func NewQueryParams(c echo.Context) *QueryParams {
	p := &QueryParams{
		PageNumber: constants.DefaultPageNumber,
		PageSize:   constants.DefaultPageSize,
		Search:     c.QueryParam("search"),
	}

	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		p.PageNumber = v
	}
	if v, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && v > 0 {
		p.PageSize = v
		if p.PageSize > constants.MaxPageSize {
			p.PageSize = constants.MaxPageSize
		}
	}

	return p
}
