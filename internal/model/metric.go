package model

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

// Metric identifies one of the four equity scores.
type Metric string

const (
	MetricDEI Metric = "DEI"
	MetricAHS Metric = "AHS"
	MetricUBS Metric = "UBS"
	MetricSRS Metric = "SRS"
)

// Metrics lists all metrics in canonical report order.
var Metrics = []Metric{MetricDEI, MetricAHS, MetricUBS, MetricSRS}

// MetricInfo describes a metric for display and for directionality-aware
// classification.
type MetricInfo struct {
	Key            Metric `yaml:"key" json:"key"`
	Name           string `yaml:"name" json:"name"`
	Short          string `yaml:"short" json:"short"`
	Tooltip        string `yaml:"tooltip" json:"tooltip"`
	HigherIsBetter bool   `yaml:"higher_is_better" json:"higher_is_better"`
}

//go:embed metrics.yaml
var metricsYAML []byte

var metricInfo map[Metric]MetricInfo

func init() {
	var infos []MetricInfo
	if err := yaml.Unmarshal(metricsYAML, &infos); err != nil {
		panic("model: parse embedded metrics.yaml: " + err.Error())
	}
	metricInfo = make(map[Metric]MetricInfo, len(infos))
	for _, info := range infos {
		metricInfo[info.Key] = info
	}
	for _, m := range Metrics {
		if _, ok := metricInfo[m]; !ok {
			panic("model: metrics.yaml missing metric " + string(m))
		}
	}
}

// InfoFor returns the display metadata for a metric.
func InfoFor(m Metric) MetricInfo {
	return metricInfo[m]
}

// AllMetricInfo returns metadata for all metrics in canonical order.
func AllMetricInfo() []MetricInfo {
	infos := make([]MetricInfo, 0, len(Metrics))
	for _, m := range Metrics {
		infos = append(infos, metricInfo[m])
	}
	return infos
}
