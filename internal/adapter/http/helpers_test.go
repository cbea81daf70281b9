package http

import (
	"bytes"
	"encoding/json"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"creditbureau-backend/internal/adapter/middleware"
	"creditbureau-backend/internal/domain/access"
	"creditbureau-backend/internal/domain/user"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

const (
	consumerID = "cccccccccccccccccccccccccccccccc"
	lenderID   = "11111111111111111111111111111111"
	lender2ID  = "22222222222222222222222222222222"
	adminID    = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
)

var (
	asConsumer = &access.Principal{ID: consumerID, Role: user.RoleConsumer}
	asLender   = &access.Principal{ID: lenderID, Role: user.RoleLender}
	asLender2  = &access.Principal{ID: lender2ID, Role: user.RoleLender}
	asAdmin    = &access.Principal{ID: adminID, Role: user.RoleAdmin}
)

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func nullLog() logrus.FieldLogger {
	l, _ := logtest.NewNullLogger()
	return l
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

type call struct {
	method string
	target string
	body   io.Reader
	p      *access.Principal
	params map[string]string
}

// serve runs one handler directly, with the principal already resolved.
func serve(t *testing.T, h echo.HandlerFunc, cl call) *httptest.ResponseRecorder {
	t.Helper()
	e := newEchoWithValidator()
	req := httptest.NewRequest(cl.method, cl.target, cl.body)
	if cl.body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if len(cl.params) > 0 {
		names := make([]string, 0, len(cl.params))
		values := make([]string, 0, len(cl.params))
		for k, v := range cl.params {
			names = append(names, k)
			values = append(values, v)
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	if cl.p != nil {
		middleware.WithPrincipal(c, cl.p)
	}
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var er ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("bad json: %v; raw=%s", err, rec.Body.String())
	}
	return er
}

func wantStatus(t *testing.T, rec *httptest.ResponseRecorder, code int) {
	t.Helper()
	if rec.Code != code {
		t.Fatalf("status = %d (%s), want %d; body=%s", rec.Code, stdhttp.StatusText(rec.Code), code, rec.Body.String())
	}
}

func principalFor(id string, role user.Role) *access.Principal {
	return &access.Principal{ID: id, Role: role}
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
