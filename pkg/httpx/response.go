package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OK 返回200和JSON响应体
func OK(c *gin.Context, obj interface{}) {
	c.JSON(http.StatusOK, obj)
}

// Created 返回201和JSON响应体
func Created(c *gin.Context, obj interface{}) {
	c.JSON(http.StatusCreated, obj)
}

// Error 返回带状态码的错误响应
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
