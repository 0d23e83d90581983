package board

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler) {
	rg.POST("/", handler.Post)
	rg.POST("/comment/:boardId", handler.Comment)
	rg.GET("/all/:page/:size", handler.List)
	rg.GET("/:boardId", handler.Load)
	rg.DELETE("/:boardId", handler.Delete)
}
