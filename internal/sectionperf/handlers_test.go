package sectionperf

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"

	"github.com/evanjt/veloq-sub002/internal/simplify"
)

func newTestApp(t *testing.T) (*fiber.App, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)

	app := fiber.New()
	RegisterRoutes(app.Group("/sections"), NewService(mock, nil, simplify.NewCache(8), testConfig()))
	return app, mock
}

func TestPerformanceHandler(t *testing.T) {
	app, mock := newTestApp(t)
	expectDescriptor(mock, []byte(`[]`))
	expectRecords(mock)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/sections/sec-1/performance?range=all&granularity=monthly", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("performance status: %v %d", err, resp.StatusCode)
	}
	var body PerformanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.SectionID != "sec-1" || len(body.Rows) != 2 {
		t.Fatalf("unexpected payload: %+v", body)
	}
}

func TestPerformanceHandlerBadRange(t *testing.T) {
	app, _ := newTestApp(t)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/sections/sec-1/performance?range=2w", nil))
	if err != nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown range, got %v %d", err, resp.StatusCode)
	}
}

func TestPerformanceHandlerMissingSection(t *testing.T) {
	app, mock := newTestApp(t)
	mock.ExpectQuery(`SELECT id, name, sport_type, distance_meters, polyline`).
		WithArgs("nope").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "sport_type", "distance_meters", "polyline"}))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/sections/nope/performance", nil))
	if err != nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for missing section, got %v %d", err, resp.StatusCode)
	}
}

func TestPolylineHandler(t *testing.T) {
	app, mock := newTestApp(t)
	expectDescriptor(mock, []byte(`[{"lat":0,"lng":0},{"lat":1,"lng":1}]`))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/sections/sec-1/polyline", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("polyline status: %v %d", err, resp.StatusCode)
	}
	var body PolylineResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.PointCount != 2 || body.Tolerance != 0.00005 {
		t.Fatalf("unexpected payload: %+v", body)
	}
}

func TestPolylineHandlerBadTolerance(t *testing.T) {
	app, _ := newTestApp(t)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/sections/sec-1/polyline?tolerance=abc", nil))
	if err != nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad tolerance, got %v %d", err, resp.StatusCode)
	}
}

func TestCalendarHandler(t *testing.T) {
	app, mock := newTestApp(t)
	mock.ExpectQuery(`SELECT summary FROM section_calendar`).
		WithArgs("sec-1").
		WillReturnRows(pgxmock.NewRows([]string{"summary"}).AddRow([]byte(`{"2023":{"11":{"forward":300,"traversal_count":1}}}`)))
	expectRecords(mock)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/sections/sec-1/calendar", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("calendar status: %v %d", err, resp.StatusCode)
	}
	var body CalendarResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Years[2023][11] == nil {
		t.Fatalf("calendar cell missing: %+v", body)
	}
}
