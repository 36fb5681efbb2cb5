package metrics

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	log "github.com/sirupsen/logrus"
)

// Store keeps metric values between restarts.
type Store interface {
	SaveMetric(metricName string, value float64) error
	GetMetric(metricName string) (float64, error)
	SaveMetricWithLabels(metricName, labelKey, labelValue string, value float64) error
	GetMetricsWithLabels(metricName string) (map[string]map[string]float64, error)
}

// Restore adds previously saved values to the collectors.
func (m *BotMetrics) Restore(s Store) error {
	m.Mutex.Lock()
	defer m.Mutex.Unlock()

	commandsProcessed, err := s.GetMetric("commands_processed")
	if err != nil {
		return err
	}
	messagesHandled, err := s.GetMetric("messages_handled")
	if err != nil {
		return err
	}
	alertsFired, err := s.GetMetric("alerts_fired")
	if err != nil {
		return err
	}

	m.CommandsProcessed.Add(commandsProcessed)
	m.MessagesHandled.Add(messagesHandled)
	m.AlertsFired.Add(alertsFired)

	err = loadLabeledMetrics(s, "channel_names", func(chatIDStr, chatName string, _ float64) {
		chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			log.Warnf("Failed to parse chatID %s: %v", chatIDStr, err)
			return
		}
		m.ChannelNames.WithLabelValues(chatIDStr, chatName).Add(1)
		m.ChannelsSet[chatID] = chatName
	})
	if err != nil {
		return err
	}
	m.ChannelsCount.Set(float64(len(m.ChannelsSet)))

	err = loadLabeledMetrics(s, "messages_per_channel", func(chatID, chatName string, value float64) {
		m.MessagesPerChannel.WithLabelValues(chatID, chatName).Add(value)
	})
	if err != nil {
		return err
	}

	log.Info("Metrics loaded from database.")
	return nil
}

func loadLabeledMetrics(s Store, metricName string, callback func(labelKey, labelValue string, value float64)) error {
	metricsWithLabels, err := s.GetMetricsWithLabels(metricName)
	if err != nil {
		return err
	}
	for labelKey, labelValues := range metricsWithLabels {
		for labelValue, value := range labelValues {
			callback(labelKey, labelValue, value)
		}
	}
	return nil
}

// Persist writes the current values to s.
func (m *BotMetrics) Persist(s Store) error {
	m.Mutex.Lock()
	defer m.Mutex.Unlock()

	for name, c := range map[string]prometheus.Collector{
		"commands_processed": m.CommandsProcessed,
		"messages_handled":   m.MessagesHandled,
		"alerts_fired":       m.AlertsFired,
	} {
		if err := s.SaveMetric(name, GetMetricValue(c)); err != nil {
			return err
		}
	}

	for chatID, chatName := range m.ChannelsSet {
		if err := s.SaveMetricWithLabels("channel_names", fmt.Sprintf("%d", chatID), chatName, float64(chatID)); err != nil {
			return err
		}
	}

	metricChan := make(chan prometheus.Metric)
	go func() {
		m.MessagesPerChannel.Collect(metricChan)
		close(metricChan)
	}()

	var saveErr error
	for metric := range metricChan {
		if saveErr != nil {
			continue
		}
		metricProto := &dto.Metric{}
		if err := metric.Write(metricProto); err != nil {
			log.Warnf("Failed to read MessagesPerChannel metric: %v", err)
			continue
		}
		var chatID, chatName string
		for _, label := range metricProto.Label {
			switch label.GetName() {
			case "chat_id":
				chatID = label.GetValue()
			case "chat_name":
				chatName = label.GetValue()
			}
		}
		saveErr = s.SaveMetricWithLabels("messages_per_channel", chatID, chatName, metricProto.Counter.GetValue())
	}
	if saveErr != nil {
		return errors.Wrap(saveErr, "messages_per_channel")
	}

	log.Info("Metrics saved to database.")
	return nil
}

// GetMetricValue reads the value of a single counter or gauge.
func GetMetricValue(metric prometheus.Collector) float64 {
	metricChan := make(chan prometheus.Metric, 1)
	metric.Collect(metricChan)
	close(metricChan)

	metricProto := &dto.Metric{}
	if err := (<-metricChan).Write(metricProto); err != nil {
		log.Warnf("Failed to read metric value: %v", err)
		return 0
	}

	if metricProto.Counter != nil {
		return metricProto.Counter.GetValue()
	} else if metricProto.Gauge != nil {
		return metricProto.Gauge.GetValue()
	}
	return 0
}
