package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	styleResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cardstudio_style_resolutions_total",
		Help: "Card styles resolved, by template and resolution branch.",
	}, []string{"template", "source"})

	previewsRendered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cardstudio_previews_rendered_total",
		Help: "Card previews rendered, by output format.",
	}, []string{"format"})

	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cardstudio_sessions_active",
		Help: "Card creation sessions opened and not yet discarded by this instance.",
	})

	submissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cardstudio_submissions_total",
		Help: "Profile submissions to the backend, by outcome.",
	}, []string{"outcome"})
)
