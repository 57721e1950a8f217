package helpers

import (
	"strconv"

	"ceylonhomes-api-io/api/pkg/search"
	"ceylonhomes-api-io/api/pkg/store"
	"ceylonhomes-api-io/api/pkg/util"

	"github.com/gin-gonic/gin"
)

// GetPaginationArgs extracts pagination parameters from HTTP request
func GetPaginationArgs(c *gin.Context) util.PaginationArgs {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	sort := c.DefaultQuery("sort", "created_at_desc")

	return util.PaginationArgs{
		Limit: limit,
		Skip:  skip,
		Sort:  sort,
	}
}

func StorePage(p util.PaginationArgs) store.Page {
	return store.Page{Limit: p.Limit, Skip: p.Skip}
}

func SearchPage(p util.PaginationArgs) search.Page {
	return search.Page{Limit: p.Limit, Skip: p.Skip, Sort: p.Sort}
}
