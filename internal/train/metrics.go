package train

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	epochLoss = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lavatensor_train_loss",
		Help: "Mean cross-entropy loss of the last completed epoch",
	})
	epochAccuracy = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lavatensor_train_accuracy",
		Help: "Training accuracy of the last completed epoch",
	})
	learningRate = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lavatensor_train_learning_rate",
		Help: "Current optimizer learning rate",
	})
	samplesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lavatensor_train_samples_total",
		Help: "Total number of samples run through forward and backward passes",
	})
	epochDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lavatensor_train_epoch_duration_seconds",
		Help:    "Wall time of one training epoch",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 16),
	})
	predictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lavatensor_predictions_total",
		Help: "Predicted boards by outcome label",
	}, []string{"label"})
)
