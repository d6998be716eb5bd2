package events

import (
	eventsdomain "eventboard-go/internal/domain/events"
	"eventboard-go/pkg/logger"
)

type Handlers struct {
	Events *eventsdomain.Service
	log    logger.Logger
}

func New(events *eventsdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Events: events,
		log:    log,
	}
}
