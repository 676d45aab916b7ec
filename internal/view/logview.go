package view

import (
	"sync"

	"github.com/genricoloni/remotectl/internal/domain"
	"go.uber.org/zap"
)

// LogView renders the remote's mode indicators and media labels to the log.
// Changes are logged at info level, repeated refreshes at debug level.
type LogView struct {
	logger *zap.Logger

	mu    sync.Mutex
	mode  *domain.ModeIndicator
	media *domain.DisplayText
}

// NewLogView creates a view writing to logger
func NewLogView(logger *zap.Logger) *LogView {
	return &LogView{logger: logger}
}

// ShowMode implements domain.ModeView
func (v *LogView) ShowMode(ind domain.ModeIndicator) {
	v.mu.Lock()
	changed := v.mode == nil || *v.mode != ind
	v.mode = &ind
	v.mu.Unlock()

	fields := []zap.Field{
		zap.Bool("shuffle", ind.Random),
		zap.Stringer("mode", ind.Mode),
		zap.String("shuffle_icon", ind.ShuffleIcon),
		zap.String("repeat_icon", ind.RepeatIcon),
	}
	if changed {
		v.logger.Info("Playback mode", fields...)
		return
	}
	v.logger.Debug("Playback mode unchanged", fields...)
}

// ShowMedia implements domain.MediaView
func (v *LogView) ShowMedia(text domain.DisplayText) {
	v.mu.Lock()
	changed := v.media == nil || *v.media != text
	v.media = &text
	v.mu.Unlock()

	fields := []zap.Field{
		zap.String("heading", text.Heading),
		zap.String("first", text.FirstText),
		zap.String("second", text.SecondText),
	}
	if changed {
		v.logger.Info("Now playing", fields...)
		return
	}
	v.logger.Debug("Now playing unchanged", fields...)
}

// Mode returns the last indicator shown, ok is false before the first refresh
func (v *LogView) Mode() (domain.ModeIndicator, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.mode == nil {
		return domain.ModeIndicator{}, false
	}
	return *v.mode, true
}

// Media returns the last labels shown, ok is false before the first refresh
func (v *LogView) Media() (domain.DisplayText, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.media == nil {
		return domain.DisplayText{}, false
	}
	return *v.media, true
}
