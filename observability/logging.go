package observability

import (
	"log/slog"

	"github.com/xraph/layered"
)

// LoggingExtension logs every activation lifecycle event through a
// structured logger.
type LoggingExtension struct {
	logger *slog.Logger
}

// NewLoggingExtension creates a LoggingExtension writing to logger.
func NewLoggingExtension(logger *slog.Logger) *LoggingExtension {
	return &LoggingExtension{logger: logger}
}

// Name implements ext.Extension.
func (l *LoggingExtension) Name() string { return "observability-logging" }

// OnLayerActivated implements ext.LayerActivated.
func (l *LoggingExtension) OnLayerActivated(s *layered.State, layer layered.LayerID) error {
	l.logger.Info("layer activated",
		slog.String("instance_id", s.ID().String()),
		slog.String("layer", string(layer)),
	)
	return nil
}

// OnLayerDeactivated implements ext.LayerDeactivated.
func (l *LoggingExtension) OnLayerDeactivated(s *layered.State, layer layered.LayerID) error {
	l.logger.Info("layer deactivated",
		slog.String("instance_id", s.ID().String()),
		slog.String("layer", string(layer)),
	)
	return nil
}

// OnRequestQueued implements ext.RequestQueued.
func (l *LoggingExtension) OnRequestQueued(s *layered.State, req layered.Request) error {
	l.logger.Debug("activation request queued",
		slog.String("instance_id", s.ID().String()),
		slog.String("op", req.Op.String()),
		slog.String("layer", string(req.Layer)),
	)
	return nil
}

// OnCriticalBegan implements ext.CriticalBegan.
func (l *LoggingExtension) OnCriticalBegan(s *layered.State) error {
	l.logger.Debug("critical section opened",
		slog.String("instance_id", s.ID().String()),
	)
	return nil
}

// OnCriticalEnded implements ext.CriticalEnded.
func (l *LoggingExtension) OnCriticalEnded(s *layered.State, applied int) error {
	l.logger.Debug("critical section committed",
		slog.String("instance_id", s.ID().String()),
		slog.Int("applied", applied),
	)
	return nil
}
