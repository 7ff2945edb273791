package handler

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-reservation/internal/repository"
	"github.com/iliyamo/movie-ticket-reservation/internal/service"
)

func newCustomerHandler(t *testing.T) (*CustomerHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	reservations := repository.NewReservationRepo(db)
	users := repository.NewUserRepo(db)
	svc := service.NewBookingService(db,
		repository.NewScreeningRepo(db), users, reservations, repository.NewPaymentRepo(db))
	return NewCustomerHandler(svc, reservations, users), mock
}

// authedContext builds an echo context carrying the identity the JWT
// middleware would have attached.
func authedContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(7))
	c.Set("username", "alice")
	c.Set("role", "customer")
	return c, rec
}

func TestBookRequiresIdentity(t *testing.T) {
	h, _ := newCustomerHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/reservations", strings.NewReader(`{"screening_id":5}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Book(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBookRequiresScreeningID(t *testing.T) {
	h, _ := newCustomerHandler(t)

	c, rec := authedContext(http.MethodPost, "/v1/reservations", `{"ticket_count":2,"card_number":"12345"}`)
	require.NoError(t, h.Book(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookUnknownScreening(t *testing.T) {
	h, mock := newCustomerHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("DATE_FORMAT(show_date, '%Y-%m-%d')")).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "movie_id", "show_date", "show_time", "room_number", "capacity", "seats_remaining", "price_cents",
		}))
	mock.ExpectRollback()

	c, rec := authedContext(http.MethodPost, "/v1/reservations",
		`{"screening_id":99,"ticket_count":1,"card_number":"12345"}`)
	require.NoError(t, h.Book(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "screening not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookSoldOutMapsToConflict(t *testing.T) {
	h, mock := newCustomerHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("DATE_FORMAT(show_date, '%Y-%m-%d')")).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "movie_id", "show_date", "show_time", "room_number", "capacity", "seats_remaining", "price_cents",
		}).AddRow(5, 2, "2100-01-01", "20:00:00", 1, 50, 0, 1250))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE screenings SET seats_remaining = seats_remaining - ?")).
		WithArgs(2, uint64(5), 2).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	c, rec := authedContext(http.MethodPost, "/v1/reservations",
		`{"screening_id":5,"ticket_count":2,"card_number":"12345"}`)
	require.NoError(t, h.Book(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "not enough seats")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelRejectsBadID(t *testing.T) {
	h, _ := newCustomerHandler(t)

	for _, id := range []string{"abc", "0", "-1"} {
		c, rec := authedContext(http.MethodDelete, "/v1/reservations/"+id, "")
		c.SetParamNames("id")
		c.SetParamValues(id)
		require.NoError(t, h.Cancel(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "id %q", id)
	}
}

func TestCancelForeignReservationMapsToForbidden(t *testing.T) {
	h, mock := newCustomerHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM reservations WHERE id = ?")).
		WithArgs(uint64(41)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "screening_id", "ticket_count", "created_at"}).
			AddRow(41, 8, 5, 3, time.Now())) // owned by user 8, caller is 7
	mock.ExpectRollback()

	c, rec := authedContext(http.MethodDelete, "/v1/reservations/41", "")
	c.SetParamNames("id")
	c.SetParamValues("41")
	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListReservations(t *testing.T) {
	h, mock := newCustomerHandler(t)

	created := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY r.created_at DESC")).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "details", "ticket_count", "created_at"}).
			AddRow(41, "Dune on 2026-09-10 at 20:00 in Room 1", 3, created))

	c, rec := authedContext(http.MethodGet, "/v1/reservations", "")
	require.NoError(t, h.ListReservations(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Dune on 2026-09-10 at 20:00 in Room 1")
	assert.Contains(t, rec.Body.String(), `"ticket_count":3`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
