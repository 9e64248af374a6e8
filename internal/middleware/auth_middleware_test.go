package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
	"gorent/internal/utils"
)

const testSecret = "middleware-test-secret"

func authRouter(t *testing.T, extra ...gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	chain := append([]gin.HandlerFunc{AuthRequired(testSecret)}, extra...)
	chain = append(chain, func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": actor.UserID.Hex(), "role": string(actor.Role)})
	})
	r.GET("/protected", chain...)
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	r := authRouter(t)
	userID := primitive.NewObjectID()

	pair, err := utils.GenerateTokenPair(userID, "customer", "user@example.com", testSecret)
	require.NoError(t, err)

	t.Run("missing header", func(t *testing.T) {
		w := doRequest(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("not a bearer token", func(t *testing.T) {
		w := doRequest(r, "Basic dXNlcjpwYXNz")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("tampered token", func(t *testing.T) {
		w := doRequest(r, "Bearer "+pair.AccessToken+"x")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := utils.GenerateTokenPair(userID, "customer", "user@example.com", "other-secret")
		require.NoError(t, err)
		w := doRequest(r, "Bearer "+other.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token passes", func(t *testing.T) {
		w := doRequest(r, "Bearer "+pair.AccessToken)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.Hex())
	})
}

func TestRoleRequired(t *testing.T) {
	r := authRouter(t, RoleRequired(models.UserRoleBusiness, models.UserRoleAdmin))

	customer, err := utils.GenerateTokenPair(primitive.NewObjectID(), "customer", "c@example.com", testSecret)
	require.NoError(t, err)
	business, err := utils.GenerateTokenPair(primitive.NewObjectID(), "business", "b@example.com", testSecret)
	require.NoError(t, err)

	w := doRequest(r, "Bearer "+customer.AccessToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(r, "Bearer "+business.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
}
