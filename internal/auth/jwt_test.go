package auth

import (
	"context"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const testSecret = "test-secret"

func newTestIssuer(t *testing.T) *Issuer {
	t.Helper()
	i, err := NewIssuer(testSecret, time.Hour)
	require.NoError(t, err)
	return i
}

func TestIssuer_RoundTrip(t *testing.T) {
	i := newTestIssuer(t)

	tok, expiresAt, err := i.Issue(70, "Delivery_Partner")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	p, err := i.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, &Principal{UserID: 70, Role: "delivery_partner"}, p)
}

func TestIssuer_Rejects(t *testing.T) {
	i := newTestIssuer(t)

	t.Run("unknown role is not issued", func(t *testing.T) {
		_, _, err := i.Issue(1, "superuser")
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewIssuer("other", time.Hour)
		require.NoError(t, err)
		tok, _, err := other.Issue(1, "admin")
		require.NoError(t, err)

		_, err = i.Parse(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		tok, _, err := i.Issue(1, "admin")
		require.NoError(t, err)

		later := *i
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err = later.Parse(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("forged role claim", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": 1,
			"role":    "root",
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		signed, err := tok.SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = i.Parse(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing user id", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"role": "admin",
			"exp":  time.Now().Add(time.Hour).Unix(),
		})
		signed, err := tok.SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = i.Parse(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("empty secret", func(t *testing.T) {
		_, err := NewIssuer("", time.Hour)
		assert.Error(t, err)
	})
}

func TestIssuer_ParseBearer(t *testing.T) {
	i := newTestIssuer(t)
	tok, _, err := i.Issue(10, "customer")
	require.NoError(t, err)

	p, err := i.ParseBearer("bearer " + tok)
	require.NoError(t, err)
	assert.Equal(t, int64(10), p.UserID)

	_, err = i.ParseBearer("")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = i.ParseBearer("Basic " + tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUnaryAuthInterceptor(t *testing.T) {
	i := newTestIssuer(t)
	interceptor := NewUnaryAuthInterceptor(i, "/grpc.health.v1.Health/Check")

	t.Run("allowlisted method skips auth", func(t *testing.T) {
		called := false
		_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"},
			func(ctx context.Context, _ any) (any, error) {
				called = true
				_, ok := FromContext(ctx)
				assert.False(t, ok)
				return nil, nil
			})
		require.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("token injects principal", func(t *testing.T) {
		tok, _, err := i.Issue(1, "admin")
		require.NoError(t, err)
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+tok))

		_, err = interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/svc/Op"}, func(ctx context.Context, _ any) (any, error) {
			p, err := RequireRole(ctx, "admin")
			require.NoError(t, err)
			assert.Equal(t, int64(1), p.UserID)
			return nil, nil
		})
		require.NoError(t, err)
	})

	t.Run("missing metadata", func(t *testing.T) {
		_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/svc/Op"}, func(context.Context, any) (any, error) {
			t.Fatal("handler must not run")
			return nil, nil
		})
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})
}

func TestRequireRole(t *testing.T) {
	_, err := RequireRole(context.Background(), "admin")
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	ctx := WithPrincipal(context.Background(), &Principal{UserID: 7, Role: "customer"})
	_, err = RequireRole(ctx, "admin")
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
}
