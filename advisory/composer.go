// Package advisory turns a selected forecast slot into a captain's advisory
// written by a generative-text provider.
package advisory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"skipper-service/datasource"
	"skipper-service/forecast"
	"skipper-service/metrics"
	"skipper-service/models"
)

// Fixed replacements used when no advisory can be generated
const (
	FallbackUnreachable = "<b>Captain's Radio is down!</b> (AI Error)"
	FallbackMalformed   = "Unable to interpret weather charts right now."
)

// MaxWords is the length ceiling given to the model
const MaxWords = 80

const dateLayout = "Monday, 2 January 2006 at 15:04 MST"

// Composer builds the prompt and asks the text generator for the advisory
type Composer struct {
	generator datasource.TextGenerator
	logger    *zap.SugaredLogger
	metrics   *metrics.Metrics
}

// NewComposer creates a composer. m may be nil.
func NewComposer(generator datasource.TextGenerator, logger *zap.SugaredLogger, m *metrics.Metrics) *Composer {
	return &Composer{
		generator: generator,
		logger:    logger,
		metrics:   m,
	}
}

// Compose returns the advisory HTML for the selected slot. It never fails:
// provider problems are replaced by one of the fallback strings.
func (c *Composer) Compose(ctx context.Context, selected models.ForecastPoint, alternative *models.ForecastPoint, targetTs int64, isSeasonal bool, apiKey string) string {
	prompt := BuildPrompt(selected, alternative, targetTs, isSeasonal)

	text, err := c.generator.GenerateText(ctx, prompt, apiKey)
	if err == nil {
		return text
	}

	if errors.Is(err, datasource.ErrMalformedResponse) {
		c.logger.Warnw("Advisory response could not be interpreted", "provider", c.generator.Name(), "error", err)
		c.metrics.AdvisoryFallback("malformed")
		return FallbackMalformed
	}

	c.logger.Warnw("Advisory provider unreachable", "provider", c.generator.Name(), "error", err)
	c.metrics.AdvisoryFallback("unreachable")
	c.metrics.UpstreamFailure(c.generator.Name())
	return FallbackUnreachable
}

// FormatTarget renders an epoch timestamp the way the advisory presents it
func FormatTarget(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(dateLayout)
}

// BuildPrompt assembles the instruction text for the model
func BuildPrompt(selected models.ForecastPoint, alternative *models.ForecastPoint, targetTs int64, isSeasonal bool) string {
	var b strings.Builder

	b.WriteString("You are an experienced boat captain running dolphin-watching safaris along the coast of Cyprus.\n")
	fmt.Fprintf(&b, "Context: a guest wants to sail on %s.\n\n", FormatTarget(targetTs))

	b.WriteString("Weather data:\n")
	fmt.Fprintf(&b, "- Sky: %s\n", selected.SkyDescription)
	fmt.Fprintf(&b, "- Temperature: %.1f°C\n", selected.Temperature)
	fmt.Fprintf(&b, "- Wind speed: %.1f m/s\n", selected.WindSpeed)
	if selected.WindGust != nil {
		fmt.Fprintf(&b, "- Wind gusts: %.1f m/s\n", *selected.WindGust)
	}
	if isSeasonal {
		b.WriteString("- Data source: SEASONAL ESTIMATE from historical monthly averages, not a live forecast.\n")
	} else {
		b.WriteString("- Data source: live 3-hour forecast.\n")
	}

	if alternative != nil {
		fmt.Fprintf(&b, "\nBetter slot found: %s, wind %.1f m/s, %s. Recommend this time to the guest.\n",
			FormatTarget(alternative.Timestamp), alternative.WindSpeed, alternative.SkyDescription)
	}

	b.WriteString("\nTasks:\n")
	b.WriteString("1. If the data is a seasonal estimate, say so plainly before anything else.\n")
	fmt.Fprintf(&b, "2. If the wind is above %.0f m/s, warn that the sea will be rough.\n", forecast.BadWindThreshold)
	b.WriteString("3. If a better slot is given, recommend it and say why it is calmer.\n")
	b.WriteString("4. Otherwise tell the guest these are perfect conditions.\n")

	b.WriteString("\nFormat:\n")
	b.WriteString("Return HTML-safe inline markup only: open with a <b> status line (e.g. 'Status: Smooth Sailing'), then use <b> and <i> for emphasis and <br> for breaks. No block elements. ")
	fmt.Fprintf(&b, "Keep it between 60 and %d words. Friendly, professional tone.\n", MaxWords)

	return b.String()
}
