package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrioja/geotodo-backend/internal/dto"
	"github.com/mrioja/geotodo-backend/internal/models"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	resp := env.doJSON(t, http.MethodPost, "/auth/register", "", fiber.Map{
		"email":    "Alice@Example.com",
		"password": "pw1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	env1 := decodeEnvelope(t, resp)
	assert.True(t, env1.Success)

	var data dto.AuthData
	decodeData(t, env1, &data)
	assert.Equal(t, "alice@example.com", data.User.Email, "email is stored lowercase")
	assert.NotEmpty(t, data.Token)

	var user models.User
	require.NoError(t, env.db.First(&user, "email = ?", "alice@example.com").Error)
	assert.NotEqual(t, "pw1", user.Password, "password is never stored in the clear")
}

func TestRegisterDuplicateEmailCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "a@x.com", "pw1")

	resp := env.doJSON(t, http.MethodPost, "/auth/register", "", fiber.Map{
		"email":    "A@X.com",
		"password": "pw2",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	env2 := decodeEnvelope(t, resp)
	assert.False(t, env2.Success)
	assert.Equal(t, "Email already registered", env2.Error)

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "no duplicate row is created")
}

func TestRegisterMissingFields(t *testing.T) {
	env := newTestEnv(t)

	resp := env.doJSON(t, http.MethodPost, "/auth/register", "", fiber.Map{
		"email": "a@x.com",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "a@x.com", "pw1")

	resp := env.doJSON(t, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    "a@x.com",
		"password": "pw1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data dto.AuthData
	decodeData(t, decodeEnvelope(t, resp), &data)
	assert.Equal(t, "a@x.com", data.User.Email)
	assert.NotEmpty(t, data.Token)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "a@x.com", "pw1")

	wrongPassword := env.doJSON(t, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    "a@x.com",
		"password": "wrong",
	})
	unknownEmail := env.doJSON(t, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    "nobody@x.com",
		"password": "pw1",
	})

	require.Equal(t, http.StatusUnauthorized, wrongPassword.StatusCode)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.StatusCode)

	// Byte-identical bodies so a caller cannot enumerate accounts.
	bodyA := readBody(t, wrongPassword)
	bodyB := readBody(t, unknownEmail)
	assert.Equal(t, bodyA, bodyB)
	assert.JSONEq(t, `{"success":false,"error":"Invalid credentials"}`, string(bodyA))
}

func TestLoginIsCaseInsensitiveOnEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "a@x.com", "pw1")

	resp := env.doJSON(t, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    "A@X.COM",
		"password": "pw1",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
