package restapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/tdkhoa/sodiem/core"
	"github.com/tdkhoa/sodiem/core/listsync"
	"github.com/tdkhoa/sodiem/core/school"
	"github.com/tdkhoa/sodiem/core/score"
)

// fakeAPI is an in-process stand-in for the school records backend.
type fakeAPI struct {
	e    *echo.Echo
	srv  *httptest.Server
	hits int64

	lastAuth    string
	lastQuery   map[string]string
	lastPayload map[string]interface{}
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{e: echo.New()}

	f.e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			atomic.AddInt64(&f.hits, 1)
			f.lastAuth = c.Request().Header.Get(echo.HeaderAuthorization)
			f.lastQuery = map[string]string{}
			for name, vals := range c.QueryParams() {
				f.lastQuery[name] = vals[0]
			}
			return next(c)
		}
	})

	f.e.GET("/api/students/hocsinh/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, []map[string]interface{}{
			{"id": 1, "Ho": "Nguyen", "Ten": "An", "is_deletable": true},
			{"id": 2, "Ho": "Tran", "Ten": "Binh", "Email": "binh@school.test"},
		})
	})
	f.e.POST("/api/students/hocsinh/", func(c echo.Context) error {
		var payload map[string]interface{}
		if err := c.Bind(&payload); err != nil {
			return err
		}
		f.lastPayload = payload
		if payload["Email"] == "taken@school.test" {
			return c.JSON(http.StatusBadRequest, map[string][]string{
				"Email": {"Email đã tồn tại"},
			})
		}
		// Respond on a copy so lastPayload keeps the wire payload as received.
		created := make(map[string]interface{}, len(payload)+1)
		for k, v := range payload {
			created[k] = v
		}
		created["id"] = 42
		return c.JSON(http.StatusCreated, created)
	})
	f.e.DELETE("/api/students/hocsinh/:id/", func(c echo.Context) error {
		return c.JSON(http.StatusForbidden, map[string]string{
			"detail": "Không thể xóa học sinh đã có lớp",
		})
	})

	f.e.GET("/api/classes/lophoc/:id/hocsinh/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"students_in_class": []map[string]interface{}{
				{"id": 1, "Ho": "Nguyen", "Ten": "An"},
			},
			"students_available": []map[string]interface{}{
				{"id": 2, "Ho": "Tran", "Ten": "Binh"},
			},
			"siso_toida": 40,
		})
	})
	f.e.POST("/api/classes/lophoc/:id/hocsinh/", func(c echo.Context) error {
		payload := map[string]interface{}{}
		if err := c.Bind(&payload); err != nil {
			return err
		}
		f.lastPayload = payload
		return c.NoContent(http.StatusOK)
	})

	f.e.GET("/api/grading/diemso/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, []map[string]interface{}{
			{"id": 1, "HoTen": "Nguyen Van An", "Diem15": 8.0, "Diem1Tiet": 9.0},
			{"id": 2, "HoTen": "Tran Thi Binh", "Diem15": nil, "Diem1Tiet": nil},
		})
	})
	f.e.POST("/api/grading/diemso/cap-nhat/", func(c echo.Context) error {
		var payload map[string]interface{}
		if err := c.Bind(&payload); err != nil {
			return err
		}
		f.lastPayload = payload
		return c.NoContent(http.StatusOK)
	})

	f.e.GET("/api/configurations/quydinh/latest/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"DiemDatMon": 5.0,
			"SiSoToiDa":  40,
		})
	})

	f.srv = httptest.NewServer(f.e)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) client(t *testing.T, tokens TokenProvider) *Client {
	t.Helper()
	conf := &core.Config{}
	conf.API.BaseURL = f.srv.URL
	conf.API.Timeout = 5 * time.Second

	c, err := NewClient(conf, tokens, nil)
	require.NoError(t, err)
	return c
}

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(expiresAt)}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func TestClientSendsBearerToken(t *testing.T) {
	api := newFakeAPI(t)
	token := signedToken(t, time.Now().Add(time.Hour))
	c := api.client(t, StaticToken(token))

	_, err := c.Students().List(context.Background(), listsync.NewFilterSet())
	require.NoError(t, err)
	assert.Equal(t, "Bearer "+token, api.lastAuth)
}

func TestClientExpiredTokenFailsLocally(t *testing.T) {
	api := newFakeAPI(t)
	c := api.client(t, StaticToken(signedToken(t, time.Now().Add(-time.Hour))))

	_, err := c.Students().List(context.Background(), listsync.NewFilterSet())
	var apiErr *core.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, core.KindAuth, apiErr.Kind())
	assert.EqualValues(t, 0, atomic.LoadInt64(&api.hits), "the request must never reach the server")
}

func TestStudentAPIList(t *testing.T) {
	api := newFakeAPI(t)
	c := api.client(t, nil)

	filters := listsync.NewFilterSet()
	filters.Set("search", "an")
	filters.Set("khoi_id", "")

	students, err := c.Students().List(context.Background(), filters)
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, school.ID("1"), students[0].ID)
	assert.Equal(t, "Nguyen An", students[0].FullName())
	assert.True(t, students[0].Deletable)
	assert.Equal(t, "binh@school.test", students[1].Email.String)

	// Only non-empty filters travel as query parameters.
	assert.Equal(t, map[string]string{"search": "an"}, api.lastQuery)
}

func TestStudentAPICreate(t *testing.T) {
	api := newFakeAPI(t)
	c := api.client(t, nil)

	created, err := c.Students().Create(context.Background(), school.Student{
		FamilyName:      "Le",
		GivenName:       "Chi",
		AdmissionYearID: "1",
	})
	require.NoError(t, err)
	assert.Equal(t, school.ID("42"), created.ID)

	// Reference ids go over the wire as JSON numbers.
	assert.Equal(t, float64(1), api.lastPayload["IDNienKhoaTiepNhan"])
	_, hasID := api.lastPayload["id"]
	assert.False(t, hasID, "create payload must not carry an id")
}

func TestStudentAPICreateValidationError(t *testing.T) {
	api := newFakeAPI(t)
	c := api.client(t, nil)

	_, err := c.Students().Create(context.Background(), school.Student{
		GivenName: "Chi",
		Email:     null.StringFrom("taken@school.test"),
	})
	var apiErr *core.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, core.KindValidation, apiErr.Kind())
	assert.Equal(t, "Email đã tồn tại", apiErr.Fields["Email"])
	assert.Equal(t, "Email đã tồn tại", core.UserMessage(err))
}

func TestStudentAPIDeleteRefused(t *testing.T) {
	api := newFakeAPI(t)
	c := api.client(t, nil)

	err := c.Students().Delete(context.Background(), "1")
	var apiErr *core.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "Không thể xóa học sinh đã có lớp", apiErr.Message)
}

func TestClientNetworkFailure(t *testing.T) {
	api := newFakeAPI(t)
	c := api.client(t, nil)
	api.srv.Close()

	_, err := c.Students().List(context.Background(), listsync.NewFilterSet())
	var apiErr *core.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, core.KindNetwork, apiErr.Kind())
}

func TestClientCancelledContext(t *testing.T) {
	api := newFakeAPI(t)
	c := api.client(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Students().List(ctx, listsync.NewFilterSet())
	// Cancellation surfaces as-is so staleness handling can ignore it.
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRosterAPI(t *testing.T) {
	api := newFakeAPI(t)
	c := api.client(t, nil)

	membership, err := c.Roster().GetGroupMembership(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, 40, membership.Capacity)
	require.Len(t, membership.InGroup, 1)
	require.Len(t, membership.Available, 1)
	assert.Equal(t, "Nguyen An", membership.InGroup[0].FullName())

	require.NoError(t, c.Roster().SetGroupMembership(context.Background(), "3", []string{"1", "2"}))
	assert.Equal(t, []interface{}{float64(1), float64(2)}, api.lastPayload["student_ids"])
}

func TestGradingAPI(t *testing.T) {
	api := newFakeAPI(t)
	c := api.client(t, nil)

	key := score.SheetKey{YearID: "1", ClassID: "2", SubjectID: "3", TermID: "4"}
	rows, err := c.Grading().FetchSheet(context.Background(), key)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, score.Row{StudentID: "1", FullName: "Nguyen Van An", Quiz: "8.00", Test: "9.00"}, rows[0])
	// Unscored slots come back as empty display values, not zeros.
	assert.Equal(t, score.Row{StudentID: "2", FullName: "Tran Thi Binh"}, rows[1])
	assert.Equal(t, "2", api.lastQuery["IDLopHoc"])

	require.NoError(t, c.Grading().SaveScore(context.Background(), key, "1", null.Float64From(7.5), null.Float64{}))
	assert.Equal(t, float64(7.5), api.lastPayload["Diem15"])
	assert.Nil(t, api.lastPayload["Diem1Tiet"])
}

func TestSettingsAPI(t *testing.T) {
	api := newFakeAPI(t)
	c := api.client(t, nil)

	settings, err := c.Settings().Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, school.Settings{PassThreshold: 5, DefaultCapacity: 40}, settings)
}

func TestParseAPIError(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantMsg    string
		wantFields map[string]string
	}{
		{
			name:    "detail object",
			status:  403,
			body:    `{"detail": "permission denied"}`,
			wantMsg: "permission denied",
		},
		{
			name:       "field map",
			status:     400,
			body:       `{"Email": ["Email đã tồn tại"], "Ten": ["this field is required"]}`,
			wantFields: map[string]string{"Email": "Email đã tồn tại", "Ten": "this field is required"},
		},
		{
			name:    "bare list",
			status:  400,
			body:    `["invalid request"]`,
			wantMsg: "invalid request",
		},
		{
			name:    "garbage body falls back to status text",
			status:  502,
			body:    `<html>Bad Gateway</html>`,
			wantMsg: "Bad Gateway",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := parseAPIError(tt.status, []byte(tt.body))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.Equal(t, tt.wantFields, apiErr.Fields)
		})
	}
}
