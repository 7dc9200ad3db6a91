package service

import (
	"testing"
	"time"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthService(t *testing.T) (AuthService, UserService, repository.UserRepository) {
	t.Helper()
	db := newTestDB(t)
	users := repository.NewUserRepo(db)
	tokens := jwt.NewManager("test-secret", time.Hour)
	return NewAuthService(users, tokens, zap.NewNop()), NewUserService(users, zap.NewNop()), users
}

func TestAuthFlow(t *testing.T) {
	auth, _, _ := newAuthService(t)

	user, err := auth.Register(&RegisterRequest{Username: "alice", Email: "Alice@Shop.test", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleEmployee, user.Role)
	assert.Equal(t, "alice@shop.test", user.Email)

	t.Run("login issues a token for the live session", func(t *testing.T) {
		res, err := auth.Login("alice", "secret123")
		require.NoError(t, err)
		assert.NotEmpty(t, res.Token)
		assert.ElementsMatch(t, model.RoleEmployee.Privileges(), res.Privileges)

		id, err := auth.Authenticate(res.Token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, id.UserID)
		assert.Equal(t, model.RoleEmployee, id.Role)

		v, err := auth.ValidateToken(res.Token)
		require.NoError(t, err)
		assert.Equal(t, "alice", v.User.Username)
	})

	t.Run("second login revokes the first token", func(t *testing.T) {
		first, err := auth.Login("alice", "secret123")
		require.NoError(t, err)
		second, err := auth.Login("alice", "secret123")
		require.NoError(t, err)

		_, err = auth.Authenticate(first.Token)
		assert.ErrorIs(t, err, ErrSessionRevoked)
		_, err = auth.Authenticate(second.Token)
		assert.NoError(t, err)
	})

	t.Run("logout revokes the token", func(t *testing.T) {
		res, err := auth.Login("alice", "secret123")
		require.NoError(t, err)
		id, err := auth.Authenticate(res.Token)
		require.NoError(t, err)

		require.NoError(t, auth.Logout(id))
		_, err = auth.Authenticate(res.Token)
		assert.ErrorIs(t, err, ErrSessionRevoked)
	})

	t.Run("bad credentials", func(t *testing.T) {
		_, err := auth.Login("alice", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		_, err = auth.Login("nobody", "secret123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		_, err = auth.Authenticate("")
		assert.ErrorIs(t, err, jwt.ErrMissingToken)
		_, err = auth.Authenticate("not-a-jwt")
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("reset password", func(t *testing.T) {
		err := auth.ResetPassword(&ResetPasswordRequest{Username: "alice", OldPassword: "nope", NewPassword: "newsecret"})
		assert.ErrorIs(t, err, ErrWrongPassword)

		err = auth.ResetPassword(&ResetPasswordRequest{Username: "ghost", OldPassword: "x", NewPassword: "newsecret"})
		assert.ErrorIs(t, err, ErrNotFound)

		err = auth.ResetPassword(&ResetPasswordRequest{Username: "alice", OldPassword: "secret123", NewPassword: "123"})
		assert.ErrorIs(t, err, ErrValidation)

		require.NoError(t, auth.ResetPassword(&ResetPasswordRequest{Username: "alice", OldPassword: "secret123", NewPassword: "newsecret"}))
		_, err = auth.Login("alice", "secret123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		_, err = auth.Login("alice", "newsecret")
		assert.NoError(t, err)
	})
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	auth, _, _ := newAuthService(t)
	_, err := auth.Register(&RegisterRequest{Username: "bob", Email: "bob@shop.test", Password: "secret123"})
	require.NoError(t, err)

	_, err = auth.Register(&RegisterRequest{Username: "bob", Email: "other@shop.test", Password: "secret123"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = auth.Register(&RegisterRequest{Username: "bobby", Email: "BOB@shop.test", Password: "secret123"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = auth.Register(&RegisterRequest{Username: "carl", Email: "not-an-email", Password: "secret123"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUserService(t *testing.T) {
	auth, users, repo := newAuthService(t)
	admin, err := createUser(repo, "root", "root@shop.test", "secret123", model.RoleAdmin)
	require.NoError(t, err)

	t.Run("admin creates users of either role", func(t *testing.T) {
		u, err := users.CreateUser(admin.Identity(), &CreateUserRequest{
			Username: "manager", Email: "manager@shop.test", Password: "secret123", Role: model.RoleAdmin,
		})
		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, u.Role)

		_, err = users.CreateUser(admin.Identity(), &CreateUserRequest{
			Username: "x", Email: "x@shop.test", Password: "secret123", Role: "owner",
		})
		assert.ErrorIs(t, err, ErrValidation)

		list, err := users.ListUsers(admin.Identity())
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("employees cannot manage users", func(t *testing.T) {
		emp, err := auth.Register(&RegisterRequest{Username: "eve", Email: "eve@shop.test", Password: "secret123"})
		require.NoError(t, err)

		_, err = users.ListUsers(emp.Identity())
		assert.ErrorIs(t, err, ErrUnauthorized)
		_, err = users.CreateUser(emp.Identity(), &CreateUserRequest{
			Username: "mallory", Email: "m@shop.test", Password: "secret123", Role: model.RoleAdmin,
		})
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("set password revokes sessions", func(t *testing.T) {
		res, err := auth.Login("root", "secret123")
		require.NoError(t, err)

		require.NoError(t, users.SetPassword("root", "rotated1"))
		_, err = auth.Authenticate(res.Token)
		assert.ErrorIs(t, err, ErrSessionRevoked)
		_, err = auth.Login("root", "rotated1")
		assert.NoError(t, err)

		assert.ErrorIs(t, users.SetPassword("root", "123"), ErrValidation)
		assert.ErrorIs(t, users.SetPassword("ghost", "rotated1"), ErrNotFound)
	})
}
