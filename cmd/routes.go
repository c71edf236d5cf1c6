package main

import (
	"github.com/gin-gonic/gin"
)

func root(context *gin.Context) {
	context.JSON(200, gin.H{
		"message": "Welcome to TileSpace!",
	})
}

func healthz(context *gin.Context) {
	context.JSON(200, gin.H{
		"status": "ok",
	})
}
