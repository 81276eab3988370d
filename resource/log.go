package resource

import "go.uber.org/zap"

type logObserver struct {
	logger *zap.Logger
}

// LogObserver returns an observer logging every event at debug level.
func LogObserver(logger *zap.Logger) Observer {
	return &logObserver{logger: logger}
}

func (o *logObserver) OnHandleEvent(e Event) {
	o.logger.Debug("handle "+e.Type.String(),
		zap.Uint32("handle", uint32(e.Handle)),
		zap.Uint64("ptr", e.Ptr))
}
