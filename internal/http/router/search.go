package router

import (
	"github.com/gin-gonic/gin"

	"worksearch.app/aggregator/internal/http/handler"
)

func SearchRouter(router *gin.RouterGroup, handler *handler.SearchHandler) {
	router.POST("/search", handler.Search)
	router.POST("/query", handler.Query)
	router.DELETE("/cache", handler.ClearCache)
}
