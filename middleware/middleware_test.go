package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudioSession_AssignsAndReusesCookie(t *testing.T) {
	app := fiber.New()
	app.Use(StudioSession(time.Hour))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(SessionID(c)) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)

	var issued string
	for _, ck := range resp.Cookies() {
		if ck.Name == SessionCookie {
			issued = ck.Value
		}
	}
	_, err = uuid.Parse(issued)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: issued})
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	body := new(bytes.Buffer)
	_, _ = body.ReadFrom(resp.Body)
	assert.Equal(t, issued, body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "not-a-uuid"})
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	body.Reset()
	_, _ = body.ReadFrom(resp.Body)
	assert.NotEqual(t, "not-a-uuid", body.String())
}

func TestAccessToken(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(AccessToken(c)) })

	read := func(req *http.Request) string {
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		buf := new(bytes.Buffer)
		_, _ = buf.ReadFrom(resp.Body)
		return buf.String()
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc.def")
	assert.Equal(t, "abc.def", read(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "from-cookie"})
	assert.Equal(t, "from-cookie", read(req))

	assert.Equal(t, "", read(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestRequestLogger_LogsStatus(t *testing.T) {
	var out bytes.Buffer
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(&out)

	app := fiber.New()
	app.Use(RequestLogger(logger))
	app.Get("/missing", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNotFound) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil), -1)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out.String())), &entry))
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, float64(404), entry["status_code"])
	assert.Equal(t, "/missing", entry["uri"])
	assert.Equal(t, resp.Header.Get(fiber.HeaderXRequestID), entry["request_id"])
}
