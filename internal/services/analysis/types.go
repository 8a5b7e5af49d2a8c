package analysis

import (
	"marketlens/internal/domain/market"
	"marketlens/internal/indicators"
	"marketlens/pkg/errors"
)

// Style selects the analyst persona and the section contract requested
// from the model.
type Style string

const (
	// StyleGeneral is the broad financial-analyst readout.
	StyleGeneral Style = "general"
	// StyleTechnical is the single-horizon technical readout with one trading signal.
	StyleTechnical Style = "technical"
	// StyleMultiHorizon requests separate scalp, day and swing signals.
	StyleMultiHorizon Style = "multi-horizon"
)

// ParseStyle resolves a request parameter into a Style.
// An empty value defaults to the technical style.
func ParseStyle(raw string) (Style, error) {
	switch raw {
	case "":
		return StyleTechnical, nil
	case string(StyleGeneral), string(StyleTechnical), string(StyleMultiHorizon):
		return Style(raw), nil
	default:
		return "", errors.Wrapf(errors.ErrInvalidInput, "unknown analysis style %q", raw)
	}
}

// Section is one titled block of the parsed model output.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Indicators groups the computed technicals for one instrument.
// Exactly one of Volume/Forex is set, matching the instrument class.
type Indicators struct {
	EMAs      indicators.EMASet          `json:"emas"`
	Volume    *indicators.VolumeActivity `json:"volumeActivity,omitempty"`
	Forex     *indicators.ForexActivity  `json:"forexActivity,omitempty"`
	Fibonacci indicators.FibonacciLevels `json:"fibonacciLevels"`
}

// Bundle is the per-request aggregate returned to the presentation layer.
// Built fresh per request; nothing is cached across calls.
type Bundle struct {
	Instrument market.Instrument `json:"-"`
	Quote      *market.Quote     `json:"quote"`
	Indicators Indicators        `json:"technicalData"`
	Analysis   string            `json:"analysis"`
	Sections   []Section         `json:"sections"`
}
