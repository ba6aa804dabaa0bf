package weather

import (
	"reflect"
	"testing"
	"time"
)

func baseSnapshot(observed time.Time) *Snapshot {
	return &Snapshot{
		Location: Location{Name: "Campus", Lat: 28.6, Lon: 77.2},
		Current: Current{
			Temp:       24,
			Humidity:   50,
			Visibility: 10000,
			WindSpeed:  3,
			Conditions: []Condition{{Main: "Clear", Description: "clear sky"}},
		},
		ObservedAt: observed,
	}
}

func TestClassifyCalmWeatherNoAlerts(t *testing.T) {
	snap := baseSnapshot(time.Unix(1700000000, 0))
	alerts := Classify(snap, time.Unix(1700000100, 0))
	if len(alerts) != 0 {
		t.Fatalf("expected no alerts, got %d", len(alerts))
	}
}

func TestClassifySevereWeather(t *testing.T) {
	tests := []struct {
		name       string
		main       string
		windSpeed  float64
		visibility int
		wantAlert  bool
		wantSev    Severity
	}{
		{"thunderstorm", "Thunderstorm", 5, 10000, true, SeverityHigh},
		{"tornado", "Tornado", 5, 10000, true, SeverityCritical},
		{"hurricane", "Hurricane", 5, 10000, true, SeverityCritical},
		{"blizzard", "Blizzard", 5, 10000, true, SeverityLow},
		{"high wind clear sky", "Clear", 22, 10000, true, SeverityHigh},
		{"moderate wind", "Clear", 16, 10000, true, SeverityMedium},
		{"wind at threshold", "Clear", 15, 10000, false, ""},
		{"low visibility", "Fog", 3, 500, true, SeverityMedium},
		{"visibility at threshold", "Fog", 3, 1000, false, ""},
		{"calm rain", "Rain", 4, 8000, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := baseSnapshot(time.Unix(1700000000, 0))
			snap.Current.Conditions[0].Main = tt.main
			snap.Current.WindSpeed = tt.windSpeed
			snap.Current.Visibility = tt.visibility

			alerts := Classify(snap, time.Unix(1700000100, 0))
			if !tt.wantAlert {
				if len(alerts) != 0 {
					t.Fatalf("expected no alerts, got %+v", alerts)
				}
				return
			}
			if len(alerts) != 1 {
				t.Fatalf("expected 1 alert, got %d", len(alerts))
			}
			a := alerts[0]
			if a.Type != KindSevereWeather {
				t.Errorf("type = %s, want %s", a.Type, KindSevereWeather)
			}
			if a.Severity != tt.wantSev {
				t.Errorf("severity = %s, want %s", a.Severity, tt.wantSev)
			}
			if !a.IsActive {
				t.Error("severe weather alert should be active")
			}
		})
	}
}

func TestClassifyAirQuality(t *testing.T) {
	tests := []struct {
		name      string
		pm25      float64
		pm10      float64
		wantAlert bool
		wantSev   Severity
	}{
		{"clean air", 10, 20, false, ""},
		{"pm25 at threshold", 15, 20, false, ""},
		{"pm25 just above threshold", 15.01, 20, true, SeverityLow},
		{"pm10 above threshold", 10, 46, true, SeverityLow},
		{"pm25 medium", 26, 20, true, SeverityMedium},
		{"pm25 high", 36, 20, true, SeverityHigh},
		{"pm25 critical", 55.01, 20, true, SeverityCritical},
		{"pm10 critical", 10, 155, true, SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := baseSnapshot(time.Unix(1700000000, 0))
			snap.AirQuality = &AirQuality{PM25: tt.pm25, PM10: tt.pm10}

			alerts := Classify(snap, time.Unix(1700000100, 0))
			if !tt.wantAlert {
				if len(alerts) != 0 {
					t.Fatalf("expected no alerts, got %+v", alerts)
				}
				return
			}
			if len(alerts) != 1 {
				t.Fatalf("expected 1 alert, got %d", len(alerts))
			}
			if alerts[0].Type != KindAirQuality {
				t.Errorf("type = %s, want %s", alerts[0].Type, KindAirQuality)
			}
			if alerts[0].Severity != tt.wantSev {
				t.Errorf("severity = %s, want %s", alerts[0].Severity, tt.wantSev)
			}
		})
	}
}

func TestClassifyUpstreamAlert(t *testing.T) {
	now := time.Unix(1700003600, 0)
	snap := baseSnapshot(time.Unix(1700000000, 0))
	snap.Alerts = []UpstreamAlert{
		{
			ID:          "imd-1700000000",
			Event:       "Heavy Rain",
			Start:       1700000000,
			End:         1700007200,
			Description: "Heavy rainfall expected over the region",
			Tags:        []string{"Rain", "Severe"},
		},
	}

	alerts := Classify(snap, now)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	a := alerts[0]
	if a.ID != "imd-1700000000" {
		t.Errorf("id = %s, want upstream id passed through", a.ID)
	}
	if a.Type != KindWeatherAlert {
		t.Errorf("type = %s, want %s", a.Type, KindWeatherAlert)
	}
	if a.Severity != SeverityHigh {
		t.Errorf("severity = %s, want high for Severe tag", a.Severity)
	}
	if !a.IsActive {
		t.Error("alert ending in the future should be active")
	}
	if a.EndTime == nil || a.EndTime.Unix() != 1700007200 {
		t.Errorf("end time not carried over: %v", a.EndTime)
	}
}

func TestClassifyExpiredUpstreamAlertInactive(t *testing.T) {
	snap := baseSnapshot(time.Unix(1700000000, 0))
	snap.Alerts = []UpstreamAlert{
		{ID: "imd-old", Event: "Dust Storm", Start: 1699990000, End: 1699993600},
	}

	alerts := Classify(snap, time.Unix(1700000000, 0))
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].IsActive {
		t.Error("alert with end in the past should be inactive")
	}
}

func TestMapTagSeverity(t *testing.T) {
	tests := []struct {
		tags []string
		want Severity
	}{
		{[]string{"Extreme"}, SeverityCritical},
		{[]string{"Rain", "Extreme", "Severe"}, SeverityCritical},
		{[]string{"Severe"}, SeverityHigh},
		{[]string{"Moderate"}, SeverityMedium},
		{[]string{"Minor"}, SeverityLow},
		{nil, SeverityLow},
	}
	for _, tt := range tests {
		if got := mapTagSeverity(tt.tags); got != tt.want {
			t.Errorf("mapTagSeverity(%v) = %s, want %s", tt.tags, got, tt.want)
		}
	}
}

// 相同快照必须产出逐字节相同的告警，否则落库去重会失效
func TestClassifyDeterministic(t *testing.T) {
	snap := baseSnapshot(time.Unix(1700000000, 0))
	snap.Current.Conditions[0].Main = "Thunderstorm"
	snap.Current.WindSpeed = 18
	snap.AirQuality = &AirQuality{PM25: 40, PM10: 80}
	snap.Alerts = []UpstreamAlert{
		{ID: "imd-1700000000", Event: "Thunderstorm", Start: 1700000000, Tags: []string{"Severe"}},
	}

	now := time.Unix(1700000100, 0)
	first := Classify(snap, now)
	second := Classify(snap, now)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated classification differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
	if len(first) != 3 {
		t.Fatalf("expected 3 alerts, got %d", len(first))
	}
	if first[1].ID != "severe-thunderstorm-1700000000" {
		t.Errorf("severe weather id = %s, want snapshot-derived id", first[1].ID)
	}
	if first[2].ID != "aqi-1700000000" {
		t.Errorf("aqi id = %s, want snapshot-derived id", first[2].ID)
	}
}

func TestRecommendations(t *testing.T) {
	if recs := Recommendations("Tornado"); len(recs) == 0 || recs[0] != "Seek shelter immediately in lowest floor interior room" {
		t.Errorf("unexpected tornado recommendations: %v", recs)
	}
	if got := Recommendations("Volcanic Ash"); !reflect.DeepEqual(got, genericRecommendations) {
		t.Errorf("unknown event should fall back to generic recommendations, got %v", got)
	}
}
