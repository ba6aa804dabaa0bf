package weather

import "time"

type Location struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

type Condition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type Current struct {
	Temp       float64     `json:"temp"`
	FeelsLike  float64     `json:"feelsLike"`
	Humidity   int         `json:"humidity"`
	Visibility int         `json:"visibility"` // 米
	WindSpeed  float64     `json:"windSpeed"`  // m/s
	WindDeg    float64     `json:"windDeg"`
	UVI        float64     `json:"uvi"`
	Conditions []Condition `json:"conditions"`
}

type ForecastDay struct {
	Timestamp int64       `json:"dt"`
	TempMin   float64     `json:"tempMin"`
	TempMax   float64     `json:"tempMax"`
	Conditions []Condition `json:"conditions"`
	Pop       float64     `json:"pop"` // 降水概率
}

type AirQuality struct {
	CO   float64 `json:"co"`
	NO   float64 `json:"no"`
	NO2  float64 `json:"no2"`
	O3   float64 `json:"o3"`
	SO2  float64 `json:"so2"`
	PM25 float64 `json:"pm2_5"`
	PM10 float64 `json:"pm10"`
	NH3  float64 `json:"nh3"`
}

// UpstreamAlert 天气数据源自带的预警，id 由 sender+start 组成，保证重复轮询稳定
type UpstreamAlert struct {
	ID          string   `json:"id"`
	Event       string   `json:"event"`
	Start       int64    `json:"start"`
	End         int64    `json:"end"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Areas       []string `json:"areas"`
}

// Snapshot 单次轮询拿到的归一化天气数据，分类器的唯一输入
type Snapshot struct {
	Location   Location       `json:"location"`
	Current    Current        `json:"current"`
	Alerts     []UpstreamAlert `json:"alerts,omitempty"`
	Forecast   []ForecastDay  `json:"forecast"`
	AirQuality *AirQuality    `json:"aqi,omitempty"`
	ObservedAt time.Time      `json:"observedAt"`
}

type AlertKind string

const (
	KindWeatherAlert  AlertKind = "weather_alert"
	KindAirQuality    AlertKind = "air_quality"
	KindSevereWeather AlertKind = "severe_weather"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// EmergencyAlert 分类器输出的告警。相同快照必须产出相同 id，重复轮询才能安全去重。
type EmergencyAlert struct {
	ID              string     `json:"id"`
	Type            AlertKind  `json:"type"`
	Severity        Severity   `json:"severity"`
	Title           string     `json:"title"`
	Message         string     `json:"message"`
	Location        string     `json:"location"`
	StartTime       time.Time  `json:"startTime"`
	EndTime         *time.Time `json:"endTime,omitempty"`
	Recommendations []string   `json:"recommendations"`
	IsActive        bool       `json:"isActive"`
}
