package handlers

import (
	"errors"
	"net/http"

	"predictor/models"

	"github.com/gin-gonic/gin"
)

type UserCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func UserCreate(c *gin.Context) {
	postReq := UserCreateRequest{}
	if err := c.ShouldBindJSON(&postReq); err != nil {
		c.JSON(http.StatusBadRequest, InvalidCredsResponse)
		return
	}
	_, err := models.UserCreate(postReq.Username, postReq.Password)
	if errors.Is(err, models.ErrInvalidCredentials) {
		c.JSON(http.StatusBadRequest, InvalidCredsResponse)
		return
	}
	if errors.Is(err, models.ErrDuplicateUsername) {
		c.JSON(http.StatusBadRequest, DuplicateUserResponse)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, DetailResponse{err.Error()})
		return
	}
	c.JSON(http.StatusOK, DetailResponse{"User created successfully"})
}
