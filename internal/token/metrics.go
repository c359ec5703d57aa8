package token

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	issuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "widget_tokens_issued_total",
		Help: "Widget access tokens returned, by how they were obtained.",
	}, []string{"status"}) // minted | reused

	issueFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "widget_token_failures_total",
		Help: "Rejected token issuance requests, by reason.",
	}, []string{"reason"}) // missing_secret | unauthorized
)
