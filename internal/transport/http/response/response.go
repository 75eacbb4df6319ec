// Package response centralizes the wire shapes the API speaks: {"message"}
// for confirmations, {"error"} for failures, and {"error","details"} for
// field-level validation problems.
package response

import "github.com/gin-gonic/gin"

func Message(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func ValidationFailed(c *gin.Context, details map[string]string) {
	c.JSON(400, gin.H{
		"error":   "Validation failed.",
		"details": details,
	})
}
