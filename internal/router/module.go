package router

import "github.com/gin-gonic/gin"

// Module registers a feature's routes on the group it is given:
// /api for Registry.Add, the engine root for Registry.AddRoot.
type Module interface {
	Register(rg *gin.RouterGroup)
}
