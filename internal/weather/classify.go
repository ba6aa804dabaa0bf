package weather

import (
	"fmt"
	"strings"
	"time"
)

// 恶劣天气判定阈值，单位 m/s 和米
const (
	severeWindSpeed     = 15.0
	highWindSpeed       = 20.0
	mediumWindSpeed     = 10.0
	severeVisibility    = 1000
	mediumVisibility    = 5000
)

// WHO 空气质量指导值：PM2.5 > 15 µg/m³ 或 PM10 > 45 µg/m³ 即告警
const (
	pm25Threshold = 15.0
	pm10Threshold = 45.0
)

var severeConditions = map[string]bool{
	"Thunderstorm": true,
	"Tornado":      true,
	"Hurricane":    true,
	"Blizzard":     true,
}

// Classify 把一次天气快照归类为零个或多个告警。三条规则独立评估：
// 上游预警透传、恶劣天气、空气质量。纯函数，相同快照产出完全相同的告警（含 id）。
func Classify(snap *Snapshot, now time.Time) []EmergencyAlert {
	alerts := []EmergencyAlert{}

	for _, ua := range snap.Alerts {
		start := time.Unix(ua.Start, 0).UTC()
		var end *time.Time
		if ua.End > 0 {
			e := time.Unix(ua.End, 0).UTC()
			end = &e
		}
		alerts = append(alerts, EmergencyAlert{
			ID:              ua.ID,
			Type:            KindWeatherAlert,
			Severity:        mapTagSeverity(ua.Tags),
			Title:           fmt.Sprintf("%s Alert", ua.Event),
			Message:         ua.Description,
			Location:        snap.Location.Name,
			StartTime:       start,
			EndTime:         end,
			Recommendations: Recommendations(ua.Event),
			IsActive:        ua.End == 0 || now.Unix() < ua.End,
		})
	}

	if len(snap.Current.Conditions) > 0 {
		cond := snap.Current.Conditions[0]
		if isSevereWeather(cond.Main, snap.Current) {
			alerts = append(alerts, EmergencyAlert{
				ID:       fmt.Sprintf("severe-%s-%d", strings.ToLower(cond.Main), snap.ObservedAt.Unix()),
				Type:     KindSevereWeather,
				Severity: weatherSeverity(cond.Main, snap.Current),
				Title:    fmt.Sprintf("Severe %s Conditions", cond.Main),
				Message: fmt.Sprintf("Current conditions: %s. Wind: %g m/s",
					cond.Description, snap.Current.WindSpeed),
				Location:        snap.Location.Name,
				StartTime:       snap.ObservedAt,
				Recommendations: Recommendations(cond.Main),
				IsActive:        true,
			})
		}
	}

	if aqi := snap.AirQuality; aqi != nil && isPoorAirQuality(aqi) {
		alerts = append(alerts, EmergencyAlert{
			ID:       fmt.Sprintf("aqi-%d", snap.ObservedAt.Unix()),
			Type:     KindAirQuality,
			Severity: aqiSeverity(aqi),
			Title:    "Poor Air Quality Alert",
			Message: fmt.Sprintf("Air quality is unhealthy. PM2.5: %g µg/m³, PM10: %g µg/m³",
				aqi.PM25, aqi.PM10),
			Location:  snap.Location.Name,
			StartTime: snap.ObservedAt,
			Recommendations: []string{
				"Limit outdoor activities, especially for sensitive individuals",
				"Keep windows closed",
				"Use air purifiers if available",
				"Wear N95 masks when going outside",
			},
			IsActive: true,
		})
	}

	return alerts
}

// mapTagSeverity 数据源的标签词表映射到统一的严重度分级
func mapTagSeverity(tags []string) Severity {
	for _, t := range tags {
		if t == "Extreme" {
			return SeverityCritical
		}
	}
	for _, t := range tags {
		if t == "Severe" {
			return SeverityHigh
		}
	}
	for _, t := range tags {
		if t == "Moderate" {
			return SeverityMedium
		}
	}
	return SeverityLow
}

func isSevereWeather(main string, cur Current) bool {
	return severeConditions[main] ||
		cur.WindSpeed > severeWindSpeed ||
		cur.Visibility < severeVisibility
}

func weatherSeverity(main string, cur Current) Severity {
	if main == "Tornado" || main == "Hurricane" {
		return SeverityCritical
	}
	if main == "Thunderstorm" || cur.WindSpeed > highWindSpeed {
		return SeverityHigh
	}
	if cur.WindSpeed > mediumWindSpeed || cur.Visibility < mediumVisibility {
		return SeverityMedium
	}
	return SeverityLow
}

func isPoorAirQuality(aqi *AirQuality) bool {
	return aqi.PM25 > pm25Threshold || aqi.PM10 > pm10Threshold
}

func aqiSeverity(aqi *AirQuality) Severity {
	switch {
	case aqi.PM25 > 55 || aqi.PM10 > 154:
		return SeverityCritical
	case aqi.PM25 > 35 || aqi.PM10 > 100:
		return SeverityHigh
	case aqi.PM25 > 25 || aqi.PM10 > 75:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

var recommendationTable = map[string][]string{
	"Thunderstorm": {
		"Stay indoors and away from windows",
		"Avoid using electrical appliances",
		"Do not take shelter under trees",
		"If outdoors, seek low ground and crouch down",
	},
	"Rain": {
		"Carry umbrella or raincoat",
		"Be cautious of slippery surfaces",
		"Avoid flooded areas",
		"Drive carefully with reduced visibility",
	},
	"Snow": {
		"Dress in warm layers",
		"Be careful of icy surfaces",
		"Keep emergency supplies in vehicle",
		"Limit outdoor exposure",
	},
	"Fog": {
		"Use fog lights while driving",
		"Reduce speed and increase following distance",
		"Be extra cautious at intersections",
		"Consider delaying non-essential travel",
	},
	"Tornado": {
		"Seek shelter immediately in lowest floor interior room",
		"Stay away from windows and doors",
		"Cover yourself with heavy blankets",
		"Listen to emergency broadcasts",
	},
	"Hurricane": {
		"Evacuate if ordered by authorities",
		"Secure outdoor objects",
		"Stock up on emergency supplies",
		"Stay indoors until all clear is given",
	},
}

var genericRecommendations = []string{
	"Stay informed through official weather updates",
	"Follow local emergency guidance",
	"Avoid unnecessary outdoor activities",
	"Keep emergency contacts handy",
}

// Recommendations 按事件类型查表，未识别的事件返回通用建议
func Recommendations(event string) []string {
	if recs, ok := recommendationTable[event]; ok {
		return recs
	}
	return genericRecommendations
}
