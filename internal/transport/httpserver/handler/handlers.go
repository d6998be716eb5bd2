package handler

import (
	calendarhandler "eventboard-go/internal/transport/httpserver/handler/calendar"
	commonhandler "eventboard-go/internal/transport/httpserver/handler/common"
	eventshandler "eventboard-go/internal/transport/httpserver/handler/events"
)

type Handlers struct {
	Common   *commonhandler.Handlers
	Calendar *calendarhandler.Handlers
	Events   *eventshandler.Handlers
}

func New(common *commonhandler.Handlers, calendar *calendarhandler.Handlers, events *eventshandler.Handlers) *Handlers {
	return &Handlers{
		Common:   common,
		Calendar: calendar,
		Events:   events,
	}
}
