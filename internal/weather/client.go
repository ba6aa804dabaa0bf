package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"suraksha_backend/internal/config"
)

var ErrLocationNotFound = errors.New("location not found")

// Client OpenWeatherMap 客户端，负责把供应商字段归一化成 Snapshot。
// 请求带超时，防止悬挂的请求把后续轮询堆起来。
type Client struct {
	apiKey       string
	baseURL      string
	geocodingURL string
	http         *http.Client
}

func NewClient(cfg config.WeatherConfig) *Client {
	timeout := time.Duration(cfg.FetchTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:       cfg.APIKey,
		baseURL:      cfg.BaseURL,
		geocodingURL: cfg.GeocodingURL,
		http:         &http.Client{Timeout: timeout},
	}
}

type geocodeEntry struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

type oneCallResponse struct {
	Current struct {
		Dt         int64   `json:"dt"`
		Temp       float64 `json:"temp"`
		FeelsLike  float64 `json:"feels_like"`
		Humidity   int     `json:"humidity"`
		Visibility int     `json:"visibility"`
		WindSpeed  float64 `json:"wind_speed"`
		WindDeg    float64 `json:"wind_deg"`
		UVI        float64 `json:"uvi"`
		Weather    []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
	} `json:"current"`
	Daily []struct {
		Dt   int64 `json:"dt"`
		Temp struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		} `json:"temp"`
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
		Pop float64 `json:"pop"`
	} `json:"daily"`
	Alerts []struct {
		SenderName  string   `json:"sender_name"`
		Event       string   `json:"event"`
		Start       int64    `json:"start"`
		End         int64    `json:"end"`
		Description string   `json:"description"`
		Tags        []string `json:"tags"`
	} `json:"alerts"`
}

type airPollutionResponse struct {
	List []struct {
		Components AirQuality `json:"components"`
	} `json:"list"`
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("weather API error (status %d): %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// Coordinates 城市名正向地理编码
func (c *Client) Coordinates(ctx context.Context, city, countryCode string) (*Location, error) {
	query := city
	if countryCode != "" {
		query = city + "," + countryCode
	}

	u := fmt.Sprintf("%s/direct?q=%s&limit=1&appid=%s",
		c.geocodingURL, url.QueryEscape(query), c.apiKey)

	var entries []geocodeEntry
	if err := c.getJSON(ctx, u, &entries); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrLocationNotFound
	}

	return &Location{
		Name:    entries[0].Name,
		Country: entries[0].Country,
		Lat:     entries[0].Lat,
		Lon:     entries[0].Lon,
	}, nil
}

// FetchSnapshot 拉取当前天气+预报+上游预警，再拉空气质量和反向地理编码，
// 归一化为 Snapshot。空气质量和地名失败不阻塞主数据。
func (c *Client) FetchSnapshot(ctx context.Context, lat, lon float64) (*Snapshot, error) {
	u := fmt.Sprintf("%s/onecall?lat=%g&lon=%g&exclude=minutely,hourly&units=metric&appid=%s",
		c.baseURL, lat, lon, c.apiKey)

	var oc oneCallResponse
	if err := c.getJSON(ctx, u, &oc); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Location:   Location{Name: "Unknown Location", Lat: lat, Lon: lon},
		ObservedAt: time.Unix(oc.Current.Dt, 0).UTC(),
		Current: Current{
			Temp:       oc.Current.Temp,
			FeelsLike:  oc.Current.FeelsLike,
			Humidity:   oc.Current.Humidity,
			Visibility: oc.Current.Visibility,
			WindSpeed:  oc.Current.WindSpeed,
			WindDeg:    oc.Current.WindDeg,
			UVI:        oc.Current.UVI,
		},
	}

	for _, w := range oc.Current.Weather {
		snap.Current.Conditions = append(snap.Current.Conditions, Condition{
			Main:        w.Main,
			Description: w.Description,
			Icon:        w.Icon,
		})
	}

	days := oc.Daily
	if len(days) > 5 {
		days = days[:5]
	}
	for _, d := range days {
		fd := ForecastDay{
			Timestamp: d.Dt,
			TempMin:   d.Temp.Min,
			TempMax:   d.Temp.Max,
			Pop:       d.Pop,
		}
		for _, w := range d.Weather {
			fd.Conditions = append(fd.Conditions, Condition{
				Main:        w.Main,
				Description: w.Description,
				Icon:        w.Icon,
			})
		}
		snap.Forecast = append(snap.Forecast, fd)
	}

	for _, a := range oc.Alerts {
		snap.Alerts = append(snap.Alerts, UpstreamAlert{
			ID:          fmt.Sprintf("%s-%d", a.SenderName, a.Start),
			Event:       a.Event,
			Start:       a.Start,
			End:         a.End,
			Description: a.Description,
			Tags:        a.Tags,
		})
	}

	aqiURL := fmt.Sprintf("%s/air_pollution?lat=%g&lon=%g&appid=%s", c.baseURL, lat, lon, c.apiKey)
	var ap airPollutionResponse
	if err := c.getJSON(ctx, aqiURL, &ap); err == nil && len(ap.List) > 0 {
		aq := ap.List[0].Components
		snap.AirQuality = &aq
	}

	revURL := fmt.Sprintf("%s/reverse?lat=%g&lon=%g&limit=1&appid=%s", c.geocodingURL, lat, lon, c.apiKey)
	var entries []geocodeEntry
	if err := c.getJSON(ctx, revURL, &entries); err == nil && len(entries) > 0 {
		snap.Location.Name = entries[0].Name
		snap.Location.Country = entries[0].Country
	}

	return snap, nil
}
