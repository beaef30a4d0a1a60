package domain

import "math"

// Category is the US EPA descriptor for an AQI value.
type Category string

const (
	CategoryGood          Category = "Good"
	CategoryModerate      Category = "Moderate"
	CategoryUSG           Category = "Unhealthy for Sensitive Groups"
	CategoryUnhealthy     Category = "Unhealthy"
	CategoryVeryUnhealthy Category = "Very Unhealthy"
	CategoryHazardous     Category = "Hazardous"
)

// MaxAQI is the upper bound of the US AQI scale.
const MaxAQI = 500

// CategoryForAQI maps an AQI value to its EPA category.
func CategoryForAQI(aqi int) Category {
	switch {
	case aqi <= 50:
		return CategoryGood
	case aqi <= 100:
		return CategoryModerate
	case aqi <= 150:
		return CategoryUSG
	case aqi <= 200:
		return CategoryUnhealthy
	case aqi <= 300:
		return CategoryVeryUnhealthy
	default:
		return CategoryHazardous
	}
}

// breakpoint is one row of the EPA conversion table: concentrations
// [CLo, CHi] map linearly onto index values [ILo, IHi].
type breakpoint struct {
	CLo, CHi float64
	ILo, IHi int
}

// EPA breakpoint tables. PM in µg/m³, O3/NO2/SO2 in ppb, CO in ppm.
var (
	pm25Breakpoints = []breakpoint{
		{0.0, 12.0, 0, 50},
		{12.1, 35.4, 51, 100},
		{35.5, 55.4, 101, 150},
		{55.5, 150.4, 151, 200},
		{150.5, 250.4, 201, 300},
		{250.5, 350.4, 301, 400},
		{350.5, 500.4, 401, 500},
	}
	pm10Breakpoints = []breakpoint{
		{0, 54, 0, 50},
		{55, 154, 51, 100},
		{155, 254, 101, 150},
		{255, 354, 151, 200},
		{355, 424, 201, 300},
		{425, 504, 301, 400},
		{505, 604, 401, 500},
	}
	ozoneBreakpoints = []breakpoint{
		{0, 54, 0, 50},
		{55, 70, 51, 100},
		{71, 85, 101, 150},
		{86, 105, 151, 200},
		{106, 200, 201, 300},
		{201, 404, 301, 400},
		{405, 504, 401, 500},
	}
	coBreakpoints = []breakpoint{
		{0.0, 4.4, 0, 50},
		{4.5, 9.4, 51, 100},
		{9.5, 12.4, 101, 150},
		{12.5, 15.4, 151, 200},
		{15.5, 30.4, 201, 300},
		{30.5, 40.4, 301, 400},
		{40.5, 50.4, 401, 500},
	}
	so2Breakpoints = []breakpoint{
		{0, 35, 0, 50},
		{36, 75, 51, 100},
		{76, 185, 101, 150},
		{186, 304, 151, 200},
		{305, 604, 201, 300},
		{605, 804, 301, 400},
		{805, 1004, 401, 500},
	}
	no2Breakpoints = []breakpoint{
		{0, 53, 0, 50},
		{54, 100, 51, 100},
		{101, 360, 101, 150},
		{361, 649, 151, 200},
		{650, 1249, 201, 300},
		{1250, 1649, 301, 400},
		{1650, 2049, 401, 500},
	}
)

// truncate drops digits beyond the table's precision, per EPA rounding rules.
func truncate(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Trunc(v*scale) / scale
}

func subIndex(conc float64, decimals int, table []breakpoint) (int, bool) {
	if conc < 0 || math.IsNaN(conc) {
		return 0, false
	}
	c := truncate(conc, decimals)
	for _, bp := range table {
		if c >= bp.CLo && c <= bp.CHi {
			frac := (c - bp.CLo) / (bp.CHi - bp.CLo)
			return int(math.Round(frac*float64(bp.IHi-bp.ILo))) + bp.ILo, true
		}
	}
	// Above the top of the table: pegged at the scale maximum.
	if c > table[len(table)-1].CHi {
		return MaxAQI, true
	}
	return 0, false
}

// Pollutants holds the hourly concentrations the AQI is computed from.
// PM in µg/m³, O3/NO2/SO2 in ppb, CO in ppm.
type Pollutants struct {
	PM25 float64 `json:"pm2_5"`
	PM10 float64 `json:"pm10"`
	O3   float64 `json:"o3"`
	NO2  float64 `json:"no2"`
	SO2  float64 `json:"so2"`
	CO   float64 `json:"co"`
}

// ComputeAQI returns the overall US AQI: the maximum of the per-pollutant
// sub-indices, clamped to [0, MaxAQI].
func ComputeAQI(p Pollutants) int {
	overall := 0
	if idx, ok := subIndex(p.PM25, 1, pm25Breakpoints); ok && idx > overall {
		overall = idx
	}
	if idx, ok := subIndex(p.PM10, 0, pm10Breakpoints); ok && idx > overall {
		overall = idx
	}
	if idx, ok := subIndex(p.O3, 0, ozoneBreakpoints); ok && idx > overall {
		overall = idx
	}
	if idx, ok := subIndex(p.NO2, 0, no2Breakpoints); ok && idx > overall {
		overall = idx
	}
	if idx, ok := subIndex(p.SO2, 0, so2Breakpoints); ok && idx > overall {
		overall = idx
	}
	if idx, ok := subIndex(p.CO, 1, coBreakpoints); ok && idx > overall {
		overall = idx
	}
	if overall > MaxAQI {
		overall = MaxAQI
	}
	return overall
}

// ClampAQI rounds a forecast value onto the integer AQI scale.
func ClampAQI(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	aqi := int(math.Round(v))
	if aqi < 0 {
		return 0
	}
	if aqi > MaxAQI {
		return MaxAQI
	}
	return aqi
}
