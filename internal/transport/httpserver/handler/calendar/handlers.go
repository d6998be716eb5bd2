package calendar

import (
	calendardomain "eventboard-go/internal/domain/calendar"
	"eventboard-go/pkg/logger"
)

type Handlers struct {
	Calendar *calendardomain.Service
	Boards   *calendardomain.Boards
	log      logger.Logger
}

func New(calendar *calendardomain.Service, boards *calendardomain.Boards, log logger.Logger) *Handlers {
	return &Handlers{
		Calendar: calendar,
		Boards:   boards,
		log:      log,
	}
}
