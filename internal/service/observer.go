package service

import (
	"context"
	"encoding/json"

	"github.com/krakosik/telemetry/internal/client"
	ctxutil "github.com/krakosik/telemetry/internal/context"
	"github.com/krakosik/telemetry/internal/model"
	"github.com/sirupsen/logrus"
)

// SubmissionObserver is notified of every accepted record. Implementations
// must not block for long and report their own failures.
type SubmissionObserver interface {
	Observe(ctx context.Context, record model.LocationRecord)
}

type logObserver struct {
	logger   logrus.FieldLogger
	fieldSet model.FieldSet
}

func NewLogObserver(logger logrus.FieldLogger, fieldSet model.FieldSet) SubmissionObserver {
	return &logObserver{logger: logger, fieldSet: fieldSet}
}

func (o *logObserver) Observe(ctx context.Context, record model.LocationRecord) {
	entry := o.logger.WithFields(o.fieldSet.LogFields(record))
	if requestID, ok := ctxutil.GetRequestIDFromContext(ctx); ok {
		entry = entry.WithField("request_id", requestID)
	}
	entry.Info("📍 New location received")
}

type publishObserver struct {
	broker   client.Broker
	fieldSet model.FieldSet
}

func NewPublishObserver(broker client.Broker, fieldSet model.FieldSet) SubmissionObserver {
	return &publishObserver{broker: broker, fieldSet: fieldSet}
}

func (o *publishObserver) Observe(ctx context.Context, record model.LocationRecord) {
	recordJson, err := json.Marshal(o.fieldSet.View(record))
	if err != nil {
		logrus.Errorf("Error marshaling location: %v", err)
		return
	}

	if err := o.broker.PublishMessage(ctx, recordJson); err != nil {
		logrus.Errorf("Error publishing location %q: %v", record.Code, err)
	}
}
