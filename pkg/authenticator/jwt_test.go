package authenticator_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/questx-lab/cardlottery/pkg/authenticator"
	"github.com/stretchr/testify/require"
)

type accessToken struct {
	ID string `json:"id"`
}

func TestJWT(t *testing.T) {
	engine := authenticator.NewTokenEngine[accessToken]("secret", time.Minute)
	token, err := engine.Generate("user1", accessToken{ID: "user1"})
	require.NoError(t, err)

	obj, err := engine.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user1", obj.ID)

	other := authenticator.NewTokenEngine[accessToken]("other-secret", time.Minute)
	_, err = other.Verify(token)
	require.Error(t, err)
}

func TestJWTExpiration(t *testing.T) {
	engine := authenticator.NewTokenEngine[accessToken]("secret", -time.Second)
	token, err := engine.Generate("user1", accessToken{ID: "user1"})
	require.NoError(t, err)

	_, err = engine.Verify(token)
	require.Error(t, err)
}

func TestJWTIssuer(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Issuer:    "another-service",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = authenticator.NewTokenEngine[accessToken]("secret", time.Minute).Verify(token)
	require.Error(t, err)
}
