package apimodels

// WindSpeedInput is the body of a wind speed prediction request.
// Fields are pointers so that a missing value can be told apart from zero.
type WindSpeedInput struct {
	// Lagged wind speed (previous day's wind speed) in m/s
	LagWind1 *float64 `json:"lag_wind_1" validate:"required,gt=0"`

	// Lagged precipitation in mm
	LagPrecipitation1 *float64 `json:"lag_precipitation_1" validate:"required,gte=0"`

	// Lagged maximum temperature in °C
	LagTempMax1 *float64 `json:"lag_temp_max_1" validate:"required,gte=-50,lte=60"`

	// Lagged minimum temperature in °C
	LagTempMin1 *float64 `json:"lag_temp_min_1" validate:"required,gte=-50,lte=60"`

	// Weather category, already label-encoded (0 to 3)
	WeatherEncoded *int `json:"weather_encoded" validate:"required,gte=0,lte=3"`
}

// Features returns the values in the order the model was trained on.
// It must only be called on a validated input.
func (in *WindSpeedInput) Features() []float64 {
	return []float64{
		*in.LagWind1,
		*in.LagPrecipitation1,
		*in.LagTempMax1,
		*in.LagTempMin1,
		float64(*in.WeatherEncoded),
	}
}

// YieldInput is the body of a crop yield prediction request.
type YieldInput struct {
	Area    *int `json:"Area" validate:"required,gte=0"`
	Element *int `json:"Element" validate:"required,gte=0"`
	Item    *int `json:"Item" validate:"required,gte=0"`
	Unit    *int `json:"Unit" validate:"required,gte=0"`
}

func (in *YieldInput) Features() []float64 {
	return []float64{
		float64(*in.Area),
		float64(*in.Element),
		float64(*in.Item),
		float64(*in.Unit),
	}
}
