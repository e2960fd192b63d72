// Copyright (c) 2026 The OpenFi Ledger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics provides global access to a set of meters. It wraps
// multiple implementations and defaults to a no-op implementation.
package metrics

import "net/http"

var metrics = defaultNoopMetrics()

// Metrics defines the interface for metrics service implementations.
type Metrics interface {
	GetOrCreateCountMeter(name string) CountMeter
	GetOrCreateCountVecMeter(name string, labels []string) CountVecMeter
	GetOrCreateGaugeMeter(name string) GaugeMeter
	GetOrCreateGaugeVecMeter(name string, labels []string) GaugeVecMeter
	GetOrCreateHandler() http.Handler
}

// HTTPHandler returns the http handler for retrieving metrics.
func HTTPHandler() http.Handler {
	return metrics.GetOrCreateHandler()
}

// CountMeter is a cumulative metric that represents a single monotonically
// increasing counter.
type CountMeter interface {
	Add(int64)
}

// Counter returns a named counter. The returned meter resolves the active
// implementation on each use, so meters created before
// InitializePrometheusMetrics still end up in prometheus.
func Counter(name string) CountMeter { return counterFwd{name} }

type counterFwd struct{ name string }

func (c counterFwd) Add(v int64) { metrics.GetOrCreateCountMeter(c.name).Add(v) }

// CountVecMeter is a CountMeter with a vector of labels.
type CountVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

func CounterVec(name string, labels []string) CountVecMeter {
	return counterVecFwd{name, labels}
}

type counterVecFwd struct {
	name   string
	labels []string
}

func (c counterVecFwd) AddWithLabel(v int64, labels map[string]string) {
	metrics.GetOrCreateCountVecMeter(c.name, c.labels).AddWithLabel(v, labels)
}

// GaugeMeter is a metric that represents a single numeric value, which can
// arbitrarily go up and down.
type GaugeMeter interface {
	Add(int64)
	Set(int64)
}

func Gauge(name string) GaugeMeter {
	return gaugeFwd{name}
}

type gaugeFwd struct{ name string }

func (g gaugeFwd) Add(v int64) { metrics.GetOrCreateGaugeMeter(g.name).Add(v) }
func (g gaugeFwd) Set(v int64) { metrics.GetOrCreateGaugeMeter(g.name).Set(v) }

// GaugeVecMeter is a GaugeMeter with a vector of labels.
type GaugeVecMeter interface {
	AddWithLabel(int64, map[string]string)
	SetWithLabel(int64, map[string]string)
}

func GaugeVec(name string, labels []string) GaugeVecMeter {
	return gaugeVecFwd{name, labels}
}

type gaugeVecFwd struct {
	name   string
	labels []string
}

func (g gaugeVecFwd) AddWithLabel(v int64, labels map[string]string) {
	metrics.GetOrCreateGaugeVecMeter(g.name, g.labels).AddWithLabel(v, labels)
}

func (g gaugeVecFwd) SetWithLabel(v int64, labels map[string]string) {
	metrics.GetOrCreateGaugeVecMeter(g.name, g.labels).SetWithLabel(v, labels)
}
