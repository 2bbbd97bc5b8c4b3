package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Feature names one of the seven audio descriptors.
type Feature string

const (
	Acousticness     Feature = "acousticness"
	Instrumentalness Feature = "instrumentalness"
	Speechiness      Feature = "speechiness"
	Danceability     Feature = "danceability"
	Liveness         Feature = "liveness"
	Energy           Feature = "energy"
	Valence          Feature = "valence"
)

// FeatureNames lists the features in chart and slider order.
var FeatureNames = []Feature{Acousticness, Instrumentalness, Speechiness, Danceability, Liveness, Energy, Valence}

// Title is the capitalized label used on the chart axis.
func (f Feature) Title() string {
	if f == "" {
		return ""
	}
	return strings.ToUpper(string(f[:1])) + string(f[1:])
}

// AudioFeatures holds the seven normalized values in [0,1].
type AudioFeatures struct {
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Speechiness      float64 `json:"speechiness"`
	Danceability     float64 `json:"danceability"`
	Liveness         float64 `json:"liveness"`
	Energy           float64 `json:"energy"`
	Valence          float64 `json:"valence"`
}

func (a *AudioFeatures) field(f Feature) (*float64, error) {
	switch f {
	case Acousticness:
		return &a.Acousticness, nil
	case Instrumentalness:
		return &a.Instrumentalness, nil
	case Speechiness:
		return &a.Speechiness, nil
	case Danceability:
		return &a.Danceability, nil
	case Liveness:
		return &a.Liveness, nil
	case Energy:
		return &a.Energy, nil
	case Valence:
		return &a.Valence, nil
	}
	return nil, fmt.Errorf("unknown audio feature %q", f)
}

// Get returns the value of f, or 0 for an unknown feature.
func (a AudioFeatures) Get(f Feature) float64 {
	p, err := a.field(f)
	if err != nil {
		return 0
	}
	return *p
}

// Set stores v for f, clamped to [0,1].
func (a *AudioFeatures) Set(f Feature, v float64) error {
	p, err := a.field(f)
	if err != nil {
		return err
	}
	*p = math.Min(1, math.Max(0, v))
	return nil
}

// Values returns the features in [FeatureNames] order.
func (a AudioFeatures) Values() []float64 {
	out := make([]float64, len(FeatureNames))
	for i, f := range FeatureNames {
		out[i] = a.Get(f)
	}
	return out
}

// SliderValue formats v the way a slider displays it: one decimal place.
func SliderValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// ChartValue converts v to a rounded percentage.
func ChartValue(v float64) int {
	return int(math.Round(v * 100))
}

// Sliders snaps every value to the slider's one-decimal resolution.
func (a AudioFeatures) Sliders() AudioFeatures {
	var out AudioFeatures
	for _, f := range FeatureNames {
		v, _ := strconv.ParseFloat(SliderValue(a.Get(f)), 64)
		_ = out.Set(f, v)
	}
	return out
}
