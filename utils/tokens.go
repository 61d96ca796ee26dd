package utils

import (
	"context"
	"os"
	"strconv"
	"time"

	"meetings-server/models"
	"meetings-server/storage"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

var bgContext = context.Background()

// AccessToken carries the explicit actor identity the core services need:
// never read from ambient session state, always threaded through as claims.
type AccessToken struct {
	ID           uint   `json:"id"`
	Role         string `json:"role"`
	DepartmentID *uint  `json:"departmentID"`
}

func CreateTokenPair(id uint) (*jwt.TokenPair, error) {
	accessTokenSigner := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 24*time.Hour)
	refreshTokenSigner := jwt.NewSigner(jwt.HS256, os.Getenv("REFRESH_TOKEN_SECRET"), 365*24*time.Hour)

	userID := strconv.FormatUint(uint64(id), 10)
	refreshClaims := jwt.Claims{Subject: userID}

	// Embed role and department so visibility checks need no directory trip.
	var u models.User
	role := models.RoleUser
	var deptID *uint
	if err := storage.DB.Select("id, role, department_id").First(&u, id).Error; err == nil {
		if u.Role != "" {
			role = u.Role
		}
		deptID = u.DepartmentID
	}

	accessTokenClaims := AccessToken{
		ID:           id,
		Role:         role,
		DepartmentID: deptID,
	}

	accessToken, err := accessTokenSigner.Sign(accessTokenClaims)
	if err != nil {
		return nil, err
	}

	refreshToken, err := refreshTokenSigner.Sign(refreshClaims)
	if err != nil {
		return nil, err
	}

	var tokenPair jwt.TokenPair
	tokenPair.AccessToken = accessToken
	tokenPair.RefreshToken = refreshToken

	storage.Redis.Set(bgContext, string(refreshToken), "true", 365*24*time.Hour+5*time.Minute)

	return &tokenPair, nil
}

type RefreshTokenInput struct {
	RefreshToken string `json:"refreshToken"`
}

func RefreshToken(ctx iris.Context) {
	token := jwt.GetVerifiedToken(ctx)
	tokenStr := string(token.Token)
	_, tokenErr := storage.Redis.Get(bgContext, tokenStr).Result()
	if tokenErr != nil {
		CreateNotFound(ctx)
		return
	}

	claims := jwt.Get(ctx).(*jwt.Claims)
	id, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil {
		CreateInternalServerError(ctx)
		return
	}

	tokenPair, tokenPairErr := CreateTokenPair(uint(id))
	if tokenPairErr != nil {
		CreateInternalServerError(ctx)
		return
	}

	// Rotate: the old refresh token is single use.
	storage.Redis.Del(bgContext, tokenStr)

	ctx.JSON(iris.Map{
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
	})
}
