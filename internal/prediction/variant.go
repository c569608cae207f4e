package prediction

import (
	"fmt"
	"strings"

	"github.com/sozercan/predict-api/apimodels"
)

// Input is a decoded request body that can be turned into a feature vector.
type Input interface {
	Features() []float64
}

// Variant describes one prediction endpoint: its request schema, the
// feature order the model expects, and the key the result is returned under.
type Variant struct {
	Name         string
	Title        string
	Description  string
	ResultKey    string
	FeatureNames []string
	newInput     func() Input
}

// NewInput returns an empty request body to decode into.
func (v Variant) NewInput() Input {
	return v.newInput()
}

var Wind = Variant{
	Name:        "wind",
	Title:       "Wind Speed Prediction API",
	Description: "API for predicting wind speed using a Linear Regression model.",
	ResultKey:   "predicted_wind_speed_m_s",
	FeatureNames: []string{
		"lag_wind_1",
		"lag_precipitation_1",
		"lag_temp_max_1",
		"lag_temp_min_1",
		"weather_encoded",
	},
	newInput: func() Input { return &apimodels.WindSpeedInput{} },
}

var Yield = Variant{
	Name:         "yield",
	Title:        "Crop Yield Prediction API",
	Description:  "API for predicting crop yield from encoded area, element, item and unit.",
	ResultKey:    "prediction",
	FeatureNames: []string{"Area", "Element", "Item", "Unit"},
	newInput:     func() Input { return &apimodels.YieldInput{} },
}

func VariantByName(name string) (Variant, error) {
	switch strings.ToLower(name) {
	case Wind.Name:
		return Wind, nil
	case Yield.Name:
		return Yield, nil
	default:
		return Variant{}, fmt.Errorf("unknown variant %q", name)
	}
}
