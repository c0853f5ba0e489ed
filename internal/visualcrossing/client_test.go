package visualcrossing

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/K-a-t-i/Flight-Weather-Analyser-Chatbot/internal/pipeline"
	types "github.com/K-a-t-i/Flight-Weather-Analyser-Chatbot/internal/types"
)

func TestDayHistory(t *testing.T) {
	date := time.Date(2023, 7, 14, 0, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/2023-07-14") {
			t.Errorf("date should be addressed in the path, got %v", r.URL.Path)
		}
		if got := r.URL.Query().Get("unitGroup"); got != "metric" {
			t.Errorf("unitGroup = %q, want metric", got)
		}
		io.WriteString(w, `{"days":[{"temp":24.5,"windspeed":11,"winddir":230,"precip":1.2,"snow":0,"humidity":65,"pressure":1018,"cloudcover":35}]}`)
	}))
	defer srv.Close()

	c := New(pipeline.New(), ApiKeyOption("test-key"), BaseUrlOption(srv.URL))

	day, err := c.DayHistory(context.Background(), types.Coordinates{Latitude: 52.52, Longitude: 13.4}, date)
	if err != nil {
		t.Fatalf("DayHistory failed: %v", err)
	}
	if day.TemperatureC != 24.5 || day.WindSpeedKmh != 11 || day.PressureHPa != 1018 {
		t.Errorf("unexpected aggregate: %+v", day)
	}
	if day.DayName != "Friday" {
		t.Errorf("day name %v, want Friday", day.DayName)
	}
}

func TestDayHistoryEmptyDays(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"days":[]}`)
	}))
	defer srv.Close()

	c := New(pipeline.New(), ApiKeyOption("test-key"), BaseUrlOption(srv.URL))

	_, err := c.DayHistory(context.Background(), types.Coordinates{}, time.Date(2023, 7, 14, 0, 0, 0, 0, time.UTC))
	if err == nil {
		t.Fatal("expected an error for a response with no days")
	}
}
