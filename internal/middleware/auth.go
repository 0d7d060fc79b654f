package middleware

import (
	"backend/internal/model"
	"backend/pkg/response"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func GetJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key" // Development fallback only — DO NOT use in production
	}
	return []byte(secret)
}

// SetTokenCookies sets access_token and refresh_token as HttpOnly cookies
func SetTokenCookies(c *gin.Context, accessToken, refreshToken string) {
	// Production (cross-origin): SameSiteNoneMode + Secure=true
	// Development (same-site):   SameSiteLaxMode  + Secure=false
	sameSite := http.SameSiteLaxMode
	secure := false
	if os.Getenv("GIN_MODE") == "release" || os.Getenv("RENDER") != "" {
		sameSite = http.SameSiteNoneMode
		secure = true
	}

	c.SetSameSite(sameSite)
	// access_token: 24h, path=/, domain="", secure, HttpOnly
	c.SetCookie("access_token", accessToken, 3600*24, "/", "", secure, true)
	// refresh_token: 7 days, path=/, domain="", secure, HttpOnly
	c.SetCookie("refresh_token", refreshToken, 3600*24*7, "/", "", secure, true)
}

// ClearTokenCookies removes access_token and refresh_token cookies
func ClearTokenCookies(c *gin.Context) {
	sameSite := http.SameSiteLaxMode
	secure := false
	if os.Getenv("GIN_MODE") == "release" || os.Getenv("RENDER") != "" {
		sameSite = http.SameSiteNoneMode
		secure = true
	}

	c.SetSameSite(sameSite)
	c.SetCookie("access_token", "", -1, "/", "", secure, true)
	c.SetCookie("refresh_token", "", -1, "/", "", secure, true)
}

// parseToken validates the JWT from cookie or Authorization header and loads
// its claims into the gin context. Returns false after writing the error
// response when validation fails.
func parseToken(c *gin.Context) bool {
	// Try cookie first, fallback to Authorization header
	tokenString, cookieErr := c.Cookie("access_token")
	if cookieErr != nil || tokenString == "" {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authorization is missing"))
			return false
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid authorization format. Expected 'Bearer <token>'"))
			return false
		}
		tokenString = parts[1]
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return GetJWTSecret(), nil
	})
	if err != nil || !token.Valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token"))
		return false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token claims"))
		return false
	}

	userRole, ok := claims["role"].(string)
	if !ok {
		c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Role not found in token"))
		return false
	}

	c.Set("userID", claims["sub"])
	c.Set("userRole", userRole)
	if name, ok := claims["name"].(string); ok {
		c.Set("userName", name)
	}

	return true
}

// RequireAuth validates the JWT token for any of the six ADFD roles
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !parseToken(c) {
			return
		}

		role := model.UserRole(c.GetString("userRole"))
		if !model.IsValidRole(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Unknown role"))
			return
		}

		c.Next()
	}
}

// RequireRole validates the JWT token and checks if the user's role exists in the allowedRoles list
func RequireRole(allowedRoles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !parseToken(c) {
			return
		}

		userRole := model.UserRole(c.GetString("userRole"))
		roleAllowed := false
		for _, role := range allowedRoles {
			if userRole == role {
				roleAllowed = true
				break
			}
		}

		if !roleAllowed {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: insufficient permissions"))
			return
		}

		c.Next()
	}
}
