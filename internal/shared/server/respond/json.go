package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}

// Created answers 201 for a newly stored record.
func Created(c *gin.Context, payload any) {
	JSON(c, http.StatusCreated, payload)
}

// Accepted answers 202 with a short message for work that completes out of band.
func Accepted(c *gin.Context, message string) {
	JSON(c, http.StatusAccepted, gin.H{"message": message})
}

// NoContent answers 204 and stops the chain.
func NoContent(c *gin.Context) {
	c.AbortWithStatus(http.StatusNoContent)
}
